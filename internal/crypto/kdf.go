package crypto

import (
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// SeedIterations matches the BIP39 seed stretching count.
	SeedIterations = 2048

	// FileKeyInfo is the HKDF context string for per-file keys.
	FileKeyInfo = "file-encryption"
)

// ErrInvalidFileID is returned when a file key is requested for an empty id.
var ErrInvalidFileID = errors.New("invalid file id")

// KeySource supplies the current master key. The key store satisfies it.
type KeySource interface {
	Retrieve() ([]byte, error)
}

// DeriveMasterKeyFromSeed derives the 256-bit master key from a BIP39 seed
// using PBKDF2-HMAC-SHA512 with 2048 iterations. The 64-byte seed is the
// canonical input; raw mnemonic entropy is never used directly.
func DeriveMasterKeyFromSeed(seed, salt []byte) []byte {
	return pbkdf2.Key(seed, salt, SeedIterations, KeySize, sha512.New)
}

// DeriveFileKey derives the key for a single file:
// HKDF-SHA256(ikm = masterKey, salt = fileID, info = "file-encryption").
func DeriveFileKey(masterKey []byte, fileID string) ([]byte, error) {
	if fileID == "" {
		return nil, ErrInvalidFileID
	}
	if len(masterKey) != KeySize {
		return nil, ErrInvalidKey
	}

	reader := hkdf.New(sha256.New, masterKey, []byte(fileID), []byte(FileKeyInfo))
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("failed to derive file key: %w", err)
	}
	return key, nil
}

// KeyDeriver derives file keys from whatever master key the source holds
// at call time.
type KeyDeriver struct {
	source KeySource
}

// NewKeyDeriver creates a KeyDeriver reading the master key from source
func NewKeyDeriver(source KeySource) *KeyDeriver {
	return &KeyDeriver{source: source}
}

// FileKey fetches the master key and derives the key for fileID.
// Key source errors are returned unchanged.
func (d *KeyDeriver) FileKey(fileID string) ([]byte, error) {
	if fileID == "" {
		return nil, ErrInvalidFileID
	}

	masterKey, err := d.source.Retrieve()
	if err != nil {
		return nil, err
	}
	defer ClearBytes(masterKey)

	return DeriveFileKey(masterKey, fileID)
}
