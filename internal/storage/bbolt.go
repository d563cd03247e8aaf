package storage

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"
)

// FormatVersion is the on-disk layout version written by Initialize
const FormatVersion = "1"

// Bucket names
var (
	ConfigBucket = []byte("config") // version, timestamps, recovery salt, vault id - unencrypted
	IndexBucket  = []byte("index")  // manifest entries for ls/status - unencrypted
	BlobsBucket  = []byte("blobs")  // encrypted envelopes
)

// Config keys
var (
	ConfigVersion      = []byte("version")
	ConfigCreated      = []byte("created")
	ConfigModified     = []byte("modified")
	ConfigRecoverySalt = []byte("recovery_salt")
	ConfigVaultID      = []byte("vault_id")
)

var (
	// ErrBlobNotFound is returned when no blob is stored under an id.
	ErrBlobNotFound = errors.New("blob not found")

	// ErrNotInitialized is returned when the bucket layout is missing.
	ErrNotInitialized = errors.New("storage not initialized")
)

// Storage provides BBolt-based storage for a vault
type Storage struct {
	db *bolt.DB
}

// Open opens or creates a vault database. A missing parent directory is created.
func Open(path string, timeout time.Duration) (*Storage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create vault directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	return s.db.Close()
}

// Path returns the database file path
func (s *Storage) Path() string {
	return s.db.Path()
}

// Initialize creates the bucket structure. It is idempotent; timestamps and
// version are only written the first time.
func (s *Storage) Initialize() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{ConfigBucket, IndexBucket, BlobsBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}

		config := tx.Bucket(ConfigBucket)
		if config.Get(ConfigVersion) != nil {
			return nil
		}
		if err := config.Put(ConfigVersion, []byte(FormatVersion)); err != nil {
			return err
		}

		created, _ := time.Now().MarshalBinary()
		if err := config.Put(ConfigCreated, created); err != nil {
			return err
		}
		return config.Put(ConfigModified, created)
	})
}

// IsInitialized checks if the database has been initialized
func (s *Storage) IsInitialized() (bool, error) {
	var initialized bool
	err := s.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config != nil && config.Get(ConfigVersion) != nil {
			initialized = true
		}
		return nil
	})
	return initialized, err
}

// SetRecoverySalt stores the PBKDF2 salt used to turn a recovery seed into
// the master key. The salt is not secret.
func (s *Storage) SetRecoverySalt(salt []byte) error {
	return s.update(ConfigBucket, func(config *bolt.Bucket) error {
		return config.Put(ConfigRecoverySalt, salt)
	})
}

// GetRecoverySalt retrieves the recovery salt, or nil if none was stored
func (s *Storage) GetRecoverySalt() ([]byte, error) {
	var salt []byte
	err := s.view(ConfigBucket, func(config *bolt.Bucket) error {
		// Make a copy since the slice is only valid during the transaction
		if v := config.Get(ConfigRecoverySalt); v != nil {
			salt = append([]byte(nil), v...)
		}
		return nil
	})
	return salt, err
}

// UpdateModified updates the last modified timestamp
func (s *Storage) UpdateModified() error {
	return s.update(ConfigBucket, func(config *bolt.Bucket) error {
		modified, _ := time.Now().MarshalBinary()
		return config.Put(ConfigModified, modified)
	})
}

// GetCreated retrieves the creation timestamp
func (s *Storage) GetCreated() (time.Time, error) {
	return s.getTime(ConfigCreated)
}

// GetModified retrieves the last modified timestamp
func (s *Storage) GetModified() (time.Time, error) {
	return s.getTime(ConfigModified)
}

func (s *Storage) getTime(key []byte) (time.Time, error) {
	var t time.Time
	err := s.view(ConfigBucket, func(config *bolt.Bucket) error {
		data := config.Get(key)
		if data == nil {
			return fmt.Errorf("%s time not found", key)
		}
		return t.UnmarshalBinary(data)
	})
	return t, err
}

// GetVaultID retrieves the vault ID from config bucket
func (s *Storage) GetVaultID() (string, error) {
	var vaultID string
	err := s.view(ConfigBucket, func(config *bolt.Bucket) error {
		data := config.Get(ConfigVaultID)
		if data == nil {
			return fmt.Errorf("vault_id not found")
		}
		vaultID = string(data)
		return nil
	})
	return vaultID, err
}

// GetOrCreateVaultID retrieves existing vault ID or generates a new one
func (s *Storage) GetOrCreateVaultID() (string, error) {
	vaultID, err := s.GetVaultID()
	if err == nil {
		return vaultID, nil
	}

	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate vault ID: %w", err)
	}
	vaultID = hex.EncodeToString(b)

	err = s.update(ConfigBucket, func(config *bolt.Bucket) error {
		return config.Put(ConfigVaultID, []byte(vaultID))
	})
	if err != nil {
		return "", err
	}
	return vaultID, nil
}

// PutBlob stores an encrypted envelope, replacing any previous one
func (s *Storage) PutBlob(id string, envelope []byte) error {
	return s.update(BlobsBucket, func(blobs *bolt.Bucket) error {
		return blobs.Put([]byte(id), envelope)
	})
}

// GetBlob retrieves an encrypted envelope
func (s *Storage) GetBlob(id string) ([]byte, error) {
	var data []byte
	err := s.view(BlobsBucket, func(blobs *bolt.Bucket) error {
		v := blobs.Get([]byte(id))
		if v == nil {
			return ErrBlobNotFound
		}
		// Make a copy since the slice is only valid during the transaction
		data = append([]byte(nil), v...)
		return nil
	})
	return data, err
}

// DeleteBlob removes an envelope. Deleting a missing blob is not an error.
func (s *Storage) DeleteBlob(id string) error {
	return s.update(BlobsBucket, func(blobs *bolt.Bucket) error {
		return blobs.Delete([]byte(id))
	})
}

// ListBlobs returns the ids of all stored envelopes in key order
func (s *Storage) ListBlobs() ([]string, error) {
	var ids []string
	err := s.view(BlobsBucket, func(blobs *bolt.Bucket) error {
		return blobs.ForEach(func(k, _ []byte) error {
			ids = append(ids, string(k))
			return nil
		})
	})
	return ids, err
}

// BlobSize returns the stored envelope size in bytes
func (s *Storage) BlobSize(id string) (int64, error) {
	var size int64
	err := s.view(BlobsBucket, func(blobs *bolt.Bucket) error {
		v := blobs.Get([]byte(id))
		if v == nil {
			return ErrBlobNotFound
		}
		size = int64(len(v))
		return nil
	})
	return size, err
}

// TotalSize returns the combined size of all stored envelopes
func (s *Storage) TotalSize() (int64, error) {
	var total int64
	err := s.view(BlobsBucket, func(blobs *bolt.Bucket) error {
		return blobs.ForEach(func(_, v []byte) error {
			total += int64(len(v))
			return nil
		})
	})
	return total, err
}

// PutEntry writes a manifest entry
func (s *Storage) PutEntry(entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.update(IndexBucket, func(index *bolt.Bucket) error {
		return index.Put([]byte(entry.ID), data)
	})
}

// GetEntry returns a single manifest entry, or nil if the id is unknown
func (s *Storage) GetEntry(id string) (*Entry, error) {
	var entry *Entry
	err := s.view(IndexBucket, func(index *bolt.Bucket) error {
		data := index.Get([]byte(id))
		if data == nil {
			return nil
		}
		entry = &Entry{}
		return json.Unmarshal(data, entry)
	})
	return entry, err
}

// DeleteEntry removes a manifest entry
func (s *Storage) DeleteEntry(id string) error {
	return s.update(IndexBucket, func(index *bolt.Bucket) error {
		return index.Delete([]byte(id))
	})
}

// Entries returns all manifest entries, oldest first
func (s *Storage) Entries() ([]Entry, error) {
	var entries []Entry
	err := s.view(IndexBucket, func(index *bolt.Bucket) error {
		return index.ForEach(func(_, v []byte) error {
			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil {
				return err
			}
			entries = append(entries, entry)
			return nil
		})
	})
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
	return entries, err
}

// PutFile stores an envelope and its manifest entry in one transaction
func (s *Storage) PutFile(entry Entry, envelope []byte) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		index, blobs := tx.Bucket(IndexBucket), tx.Bucket(BlobsBucket)
		if index == nil || blobs == nil {
			return ErrNotInitialized
		}
		if err := blobs.Put([]byte(entry.ID), envelope); err != nil {
			return err
		}
		return index.Put([]byte(entry.ID), data)
	})
}

// RemoveFile deletes an envelope and its manifest entry in one transaction
func (s *Storage) RemoveFile(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		index, blobs := tx.Bucket(IndexBucket), tx.Bucket(BlobsBucket)
		if index == nil || blobs == nil {
			return ErrNotInitialized
		}
		if err := blobs.Delete([]byte(id)); err != nil {
			return err
		}
		return index.Delete([]byte(id))
	})
}

func (s *Storage) view(name []byte, fn func(*bolt.Bucket) error) error {
	return s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(name)
		if b == nil {
			return fmt.Errorf("%w: %s bucket not found", ErrNotInitialized, name)
		}
		return fn(b)
	})
}

func (s *Storage) update(name []byte, fn func(*bolt.Bucket) error) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(name)
		if b == nil {
			return fmt.Errorf("%w: %s bucket not found", ErrNotInitialized, name)
		}
		return fn(b)
	})
}
