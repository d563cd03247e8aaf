package keyring

import (
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/zalando/go-keyring"
)

const (
	// DefaultService is the credential-store service the master key lives under.
	DefaultService = "com.juvantagecloud.justvault"

	// MasterKeyTag is the constant account name of the master key entry.
	MasterKeyTag = "masterKey"

	// DefaultTimeout bounds a single call into the OS credential store.
	DefaultTimeout = 5 * time.Second

	keySize = 32
)

var (
	// ErrKeyNotFound is returned when no master key is stored.
	ErrKeyNotFound = errors.New("master key not found")

	// ErrKeyCreationFailed is returned when the master key cannot be stored.
	ErrKeyCreationFailed = errors.New("failed to store master key")

	// ErrKeyRetrievalFailed is returned when the store cannot be read (e.g. locked).
	ErrKeyRetrievalFailed = errors.New("failed to retrieve master key")

	// ErrKeyDeletionFailed is returned when an existing key cannot be removed.
	ErrKeyDeletionFailed = errors.New("failed to delete master key")

	errTimeout = errors.New("credential store timed out")
	errBusy    = errors.New("previous credential store call still running")
)

// KeyStore persists the single master key of an installation.
// Implementations must serialise access so a reader never observes a key
// mid-replacement. Store is last-write-wins.
type KeyStore interface {
	Store(key []byte) error
	Retrieve() ([]byte, error)
	Exists() bool
	Delete() error
}

// Keyring stores the master key in the OS credential store (macOS Keychain,
// Windows Credential Manager, Secret Service on Linux). Entries are local to
// the machine and readable only by the logged-in user's unlocked session.
type Keyring struct {
	service string
	timeout time.Duration
	mu      sync.Mutex

	// inflight is closed when a timed-out backend call finally returns.
	// Guarded by mu.
	inflight <-chan struct{}
}

// New creates a Keyring for the given service name.
// Empty service and non-positive timeout fall back to defaults.
func New(service string, timeout time.Duration) *Keyring {
	if service == "" {
		service = DefaultService
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Keyring{service: service, timeout: timeout}
}

// Service returns the credential-store service name
func (k *Keyring) Service() string {
	return k.service
}

// Store saves key, replacing any existing master key
func (k *Keyring) Store(key []byte) error {
	if len(key) != keySize {
		return fmt.Errorf("%w: key must be %d bytes, got %d", ErrKeyCreationFailed, keySize, len(key))
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	encoded := base64.StdEncoding.EncodeToString(key)
	err := k.call(func() error {
		return keyring.Set(k.service, MasterKeyTag, encoded)
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrKeyCreationFailed, err)
	}
	return nil
}

// Retrieve returns a copy of the stored master key
func (k *Keyring) Retrieve() ([]byte, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	return k.retrieve()
}

func (k *Keyring) retrieve() ([]byte, error) {
	var encoded string
	err := k.call(func() error {
		var err error
		encoded, err = keyring.Get(k.service, MasterKeyTag)
		return err
	})
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeyRetrievalFailed, err)
	}

	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(key) != keySize {
		return nil, fmt.Errorf("%w: stored value is not a %d-byte key", ErrKeyRetrievalFailed, keySize)
	}
	return key, nil
}

// Exists reports whether Retrieve would succeed
func (k *Keyring) Exists() bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	key, err := k.retrieve()
	if err != nil {
		return false
	}
	clear(key)
	return true
}

// Delete removes the master key. Deleting a missing key is not an error.
func (k *Keyring) Delete() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	err := k.call(func() error {
		return keyring.Delete(k.service, MasterKeyTag)
	})
	if err == nil || errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrKeyDeletionFailed, err)
}

// call runs fn against the credential store, giving up after k.timeout.
// The caller must hold k.mu. A timed-out call keeps running in the background;
// later calls wait for it (up to k.timeout) before touching the store.
func (k *Keyring) call(fn func() error) error {
	timer := time.NewTimer(k.timeout)
	defer timer.Stop()

	if k.inflight != nil {
		select {
		case <-k.inflight:
			k.inflight = nil
		case <-timer.C:
			return errBusy
		}
	}

	done := make(chan error, 1)
	finished := make(chan struct{})
	go func() {
		done <- fn()
		close(finished)
	}()

	select {
	case err := <-done:
		return err
	case <-timer.C:
		k.inflight = finished
		return errTimeout
	}
}
