package keyring

import (
	"fmt"
	"sync"
)

// Memory is an in-process KeyStore. The key is gone when the process exits.
// Tests use it in place of the OS credential store.
type Memory struct {
	mu  sync.Mutex
	key []byte
}

// NewMemory creates an empty in-memory key store
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Store(key []byte) error {
	if len(key) != keySize {
		return fmt.Errorf("%w: key must be %d bytes, got %d", ErrKeyCreationFailed, keySize, len(key))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	clear(m.key)
	m.key = append([]byte(nil), key...)
	return nil
}

func (m *Memory) Retrieve() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.key == nil {
		return nil, ErrKeyNotFound
	}
	return append([]byte(nil), m.key...), nil
}

func (m *Memory) Exists() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.key != nil
}

func (m *Memory) Delete() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	clear(m.key)
	m.key = nil
	return nil
}
