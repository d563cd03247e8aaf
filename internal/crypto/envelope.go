package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

const (
	KeySize   = 32 // AES-256 key size
	NonceSize = 12 // GCM nonce size
	TagSize   = 16 // GCM authentication tag size

	// MinEnvelope is the size of an envelope holding an empty plaintext.
	MinEnvelope = NonceSize + TagSize
)

var (
	// ErrInvalidData is returned for envelopes shorter than nonce + tag.
	ErrInvalidData = errors.New("invalid encrypted data")

	// ErrDecryptionFailed is returned when an envelope fails authentication.
	// It never says whether the key, the ciphertext or the tag was wrong.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrEncryptionFailed is returned when sealing could not complete.
	ErrEncryptionFailed = errors.New("encryption failed")

	// ErrInvalidKey is returned for keys that are not KeySize bytes long.
	ErrInvalidKey = errors.New("invalid key size")
)

// randReader is the nonce and key source. Tests swap it to simulate failures.
var randReader io.Reader = rand.Reader

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKey
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}

// Seal encrypts plaintext with AES-256-GCM under key and returns
// nonce || ciphertext || tag. A fresh random nonce is drawn on every call.
func Seal(key, plaintext []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncryptionFailed, err)
	}

	envelope := make([]byte, NonceSize, NonceSize+len(plaintext)+TagSize)
	if _, err := io.ReadFull(randReader, envelope); err != nil {
		return nil, fmt.Errorf("%w: failed to generate nonce: %w", ErrEncryptionFailed, err)
	}

	// Seal appends ciphertext || tag after the nonce
	return gcm.Seal(envelope, envelope[:NonceSize], plaintext, nil), nil
}

// Open authenticates and decrypts an envelope produced by Seal.
func Open(key, envelope []byte) ([]byte, error) {
	if len(envelope) < MinEnvelope {
		return nil, ErrInvalidData
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	nonce := envelope[:NonceSize]
	sealed := envelope[NonceSize:]

	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	if plaintext == nil {
		plaintext = []byte{}
	}
	return plaintext, nil
}

// ClearBytes zeroes a byte slice holding key material
func ClearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// GenerateRandom generates n random bytes
func GenerateRandom(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(randReader, b); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return b, nil
}
