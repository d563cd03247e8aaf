package crypto

import "fmt"

// FileCipher encrypts and decrypts vault files with per-file keys derived
// from the stored master key. It holds no mutable state and is safe for
// concurrent use.
type FileCipher struct {
	keys *KeyDeriver
}

// NewFileCipher creates a FileCipher backed by the given master key source
func NewFileCipher(source KeySource) *FileCipher {
	return &FileCipher{keys: NewKeyDeriver(source)}
}

// Encrypt seals plaintext for fileID and returns the envelope bytes.
// It fails with the key source's error (e.g. key not found) when no
// master key has been provisioned.
func (c *FileCipher) Encrypt(plaintext []byte, fileID string) ([]byte, error) {
	fileKey, err := c.keys.FileKey(fileID)
	if err != nil {
		return nil, err
	}
	defer ClearBytes(fileKey)

	return Seal(fileKey, plaintext)
}

// Decrypt opens an envelope produced by Encrypt for the same fileID.
// Short input is rejected before the master key is touched.
func (c *FileCipher) Decrypt(envelope []byte, fileID string) ([]byte, error) {
	if len(envelope) < MinEnvelope {
		return nil, ErrInvalidData
	}

	fileKey, err := c.keys.FileKey(fileID)
	if err != nil {
		return nil, err
	}
	defer ClearBytes(fileKey)

	return Open(fileKey, envelope)
}

// GenerateMasterKey returns a fresh random 256-bit key for first-time
// provisioning. Persisting it is the caller's job.
func GenerateMasterKey() ([]byte, error) {
	key, err := GenerateRandom(KeySize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncryptionFailed, err)
	}
	return key, nil
}
