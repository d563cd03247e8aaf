package core

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/JohnUja/just-vault/internal/crypto"
	"github.com/JohnUja/just-vault/internal/keyring"
	"github.com/JohnUja/just-vault/internal/logging"
	"github.com/JohnUja/just-vault/internal/mnemonic"
	"github.com/JohnUja/just-vault/internal/storage"
)

const (
	DefaultMimeType = "application/octet-stream"
	dbOpenTimeout   = time.Second
)

var (
	ErrNotInitialized     = errors.New("vault not initialized")
	ErrAlreadyProvisioned = errors.New("master key already provisioned")
	ErrFileNotFound       = errors.New("file not found in vault")
	ErrIntegrity          = errors.New("integrity check failed")
)

// Options configures a Vault
type Options struct {
	Path    string           // bbolt database file
	Keys    keyring.KeyStore // master key store
	Log     *logging.Logger
	Salt    []byte // recovery salt for vaults that have none recorded
	UserID  string // prefixes minted file ids
	Workers int    // ImportAll concurrency, defaults to GOMAXPROCS
}

// Vault manages encrypted file storage
type Vault struct {
	path    string
	keys    keyring.KeyStore
	cipher  *crypto.FileCipher
	log     *logging.Logger
	salt    []byte
	userID  string
	workers int
}

// New creates a Vault. Nothing is opened until an operation runs.
func New(opts Options) *Vault {
	log := opts.Log
	if log == nil {
		log = logging.Discard()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Vault{
		path:    opts.Path,
		keys:    opts.Keys,
		cipher:  crypto.NewFileCipher(opts.Keys),
		log:     log,
		salt:    append([]byte(nil), opts.Salt...),
		userID:  opts.UserID,
		workers: workers,
	}
}

// Path returns the database file path
func (v *Vault) Path() string {
	return v.path
}

// HasKey reports whether a master key is provisioned. A key store that
// cannot be read is an error, not an absent key.
func (v *Vault) HasKey() (bool, error) {
	key, err := v.keys.Retrieve()
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	crypto.ClearBytes(key)
	return true, nil
}

// ensureUnprovisioned fails unless the key store is readable and empty
func (v *Vault) ensureUnprovisioned() error {
	present, err := v.HasKey()
	if err != nil {
		return err
	}
	if present {
		return ErrAlreadyProvisioned
	}
	return nil
}

// Setup provisions a master key derived from a freshly generated recovery
// phrase. The phrase is returned for one-time display and is not stored.
func (v *Vault) Setup(wordCount int) ([]string, error) {
	if err := v.ensureUnprovisioned(); err != nil {
		return nil, err
	}

	words, err := mnemonic.Generate(wordCount)
	if err != nil {
		return nil, err
	}

	if err := v.provisionFromPhrase(words); err != nil {
		return nil, err
	}

	v.log.Infof("provisioned master key from a %d-word recovery phrase", len(words))
	return words, nil
}

// SetupRandom provisions a random master key with no recovery phrase
func (v *Vault) SetupRandom() error {
	if err := v.ensureUnprovisioned(); err != nil {
		return err
	}

	if _, err := v.initialize(); err != nil {
		return err
	}

	key, err := crypto.GenerateMasterKey()
	if err != nil {
		return err
	}
	defer crypto.ClearBytes(key)

	if err := v.keys.Store(key); err != nil {
		return err
	}

	v.log.Warnf("master key has no recovery phrase; losing the key store loses the vault")
	return nil
}

// Recover validates words and replaces the stored master key with the one
// they derive.
func (v *Vault) Recover(words []string) error {
	if err := v.provisionFromPhrase(words); err != nil {
		return err
	}
	v.log.Infof("master key recovered")
	return nil
}

// Reset deletes the master key. Encrypted files stay in the database and
// become readable again after Recover.
func (v *Vault) Reset() error {
	if err := v.keys.Delete(); err != nil {
		return err
	}
	v.log.Infof("master key deleted")
	return nil
}

// Compact reclaims unused space in the database
func (v *Vault) Compact() (before, after int64, err error) {
	if _, err := os.Stat(v.path); err != nil {
		return 0, 0, ErrNotInitialized
	}
	before = fileSize(v.path)

	db, err := v.open()
	if err != nil {
		return 0, 0, err
	}
	defer db.Close()

	if err := db.Compact(); err != nil {
		return 0, 0, err
	}
	return before, fileSize(v.path), nil
}

func (v *Vault) provisionFromPhrase(words []string) error {
	seed, err := mnemonic.ToSeed(words, "")
	if err != nil {
		return err
	}
	defer crypto.ClearBytes(seed)

	salt, err := v.initialize()
	if err != nil {
		return err
	}

	key := crypto.DeriveMasterKeyFromSeed(seed, salt)
	defer crypto.ClearBytes(key)

	return v.keys.Store(key)
}

// recoverySalt returns the salt recorded in the vault, recording the
// configured default on first use.
func (v *Vault) recoverySalt(db *storage.Storage) ([]byte, error) {
	salt, err := db.GetRecoverySalt()
	if err != nil {
		return nil, fmt.Errorf("failed to read recovery salt: %w", err)
	}
	if salt != nil {
		return salt, nil
	}
	if len(v.salt) == 0 {
		return nil, fmt.Errorf("no recovery salt configured")
	}
	if err := db.SetRecoverySalt(v.salt); err != nil {
		return nil, fmt.Errorf("failed to store recovery salt: %w", err)
	}
	return v.salt, nil
}

// initialize creates the database if needed and returns its recovery salt
func (v *Vault) initialize() ([]byte, error) {
	db, err := storage.Open(v.path, dbOpenTimeout)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if _, err := db.GetOrCreateVaultID(); err != nil {
		return nil, fmt.Errorf("failed to create vault id: %w", err)
	}
	return v.recoverySalt(db)
}

// open opens an existing, initialized database
func (v *Vault) open() (*storage.Storage, error) {
	if _, err := os.Stat(v.path); err != nil {
		return nil, ErrNotInitialized
	}

	db, err := storage.Open(v.path, dbOpenTimeout)
	if err != nil {
		return nil, err
	}

	ok, err := db.IsInitialized()
	if err != nil || !ok {
		db.Close()
		return nil, ErrNotInitialized
	}
	return db, nil
}

// newFileID mints "<user>/<uuid>", or a bare uuid without a user
func (v *Vault) newFileID() string {
	id := uuid.NewString()
	if v.userID == "" {
		return id
	}
	return v.userID + "/" + id
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
