package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/JohnUja/just-vault/internal/crypto"
	"github.com/JohnUja/just-vault/internal/storage"
)

// ImportRequest is one file handed to ImportAll
type ImportRequest struct {
	Name     string
	MimeType string
	Data     []byte
}

// StatusInfo summarises a vault without decrypting anything
type StatusInfo struct {
	VaultID        string
	Path           string
	FormatVersion  string
	Created        time.Time
	Modified       time.Time
	KeyPresent     bool
	FileCount      int
	StarredCount   int
	PlaintextBytes int64
	StoredBytes    int64
	Missing        []string // manifest entries without a blob
	Orphaned       []string // blobs without a manifest entry
	Algorithm      string
	KDF            string
}

// Import encrypts data under a new file id and records it in the manifest
func (v *Vault) Import(ctx context.Context, name, mimeType string, data []byte) (*storage.Entry, error) {
	entries, err := v.ImportAll(ctx, []ImportRequest{{Name: name, MimeType: mimeType, Data: data}})
	if err != nil {
		return nil, err
	}
	return &entries[0], nil
}

// ImportAll encrypts files concurrently, then stores them. Nothing is
// written unless every file encrypts.
func (v *Vault) ImportAll(ctx context.Context, reqs []ImportRequest) ([]storage.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	db, err := v.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	type sealed struct {
		entry    storage.Entry
		envelope []byte
		err      error
	}

	results := make([]sealed, len(reqs))
	jobs := make(chan int, len(reqs))
	for i := range reqs {
		jobs <- i
	}
	close(jobs)

	workers := min(v.workers, len(reqs))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					results[i].err = err
					continue
				}
				results[i].entry, results[i].envelope, results[i].err = v.seal(reqs[i])
			}
		}()
	}
	wg.Wait()

	for i, r := range results {
		if r.err != nil {
			return nil, fmt.Errorf("failed to encrypt %s: %w", reqs[i].Name, r.err)
		}
	}

	entries := make([]storage.Entry, 0, len(results))
	for _, r := range results {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := db.PutFile(r.entry, r.envelope); err != nil {
			return nil, fmt.Errorf("failed to store %s: %w", r.entry.DisplayName, err)
		}
		entries = append(entries, r.entry)
		v.log.Debugf("imported %s as %s (%d bytes)", r.entry.DisplayName, r.entry.ID, r.entry.SizeBytes)
	}

	if err := db.UpdateModified(); err != nil {
		v.log.Warnf("failed to update modification time: %v", err)
	}
	return entries, nil
}

func (v *Vault) seal(req ImportRequest) (storage.Entry, []byte, error) {
	id := v.newFileID()

	envelope, err := v.cipher.Encrypt(req.Data, id)
	if err != nil {
		return storage.Entry{}, nil, err
	}

	mimeType := req.MimeType
	if mimeType == "" {
		mimeType = DefaultMimeType
	}
	entry := storage.NewEntry(id, req.Name, mimeType, int64(len(req.Data)))
	return entry, envelope, nil
}

// Export decrypts a file, checks it against its manifest entry and records
// the access time.
func (v *Vault) Export(ctx context.Context, id string) ([]byte, *storage.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	db, err := v.open()
	if err != nil {
		return nil, nil, err
	}
	defer db.Close()

	plaintext, entry, err := v.decrypt(db, id)
	if err != nil {
		return nil, nil, err
	}

	entry.MarkOpened(time.Now())
	if err := db.PutEntry(*entry); err != nil {
		v.log.Warnf("failed to record access time for %s: %v", id, err)
	}
	return plaintext, entry, nil
}

// decrypt reads and opens one file. The plaintext must have the size the
// manifest recorded at import.
func (v *Vault) decrypt(db *storage.Storage, id string) ([]byte, *storage.Entry, error) {
	entry, err := db.GetEntry(id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	if entry == nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrFileNotFound, id)
	}

	envelope, err := db.GetBlob(id)
	if errors.Is(err, storage.ErrBlobNotFound) {
		return nil, nil, fmt.Errorf("%w: %s has no stored data", ErrFileNotFound, id)
	}
	if err != nil {
		return nil, nil, err
	}

	plaintext, err := v.cipher.Decrypt(envelope, id)
	if err != nil {
		return nil, nil, err
	}

	if int64(len(plaintext)) != entry.SizeBytes {
		crypto.ClearBytes(plaintext)
		return nil, nil, fmt.Errorf("%w: %s", ErrIntegrity, id)
	}
	return plaintext, entry, nil
}

// Remove deletes a file and its manifest entry
func (v *Vault) Remove(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	db, err := v.open()
	if err != nil {
		return err
	}
	defer db.Close()

	entry, err := db.GetEntry(id)
	if err != nil {
		return fmt.Errorf("failed to read manifest: %w", err)
	}
	if entry == nil {
		return fmt.Errorf("%w: %s", ErrFileNotFound, id)
	}

	if err := db.RemoveFile(id); err != nil {
		return fmt.Errorf("failed to remove %s: %w", id, err)
	}
	if err := db.UpdateModified(); err != nil {
		v.log.Warnf("failed to update modification time: %v", err)
	}
	v.log.Debugf("removed %s", id)
	return nil
}

// List returns manifest entries, oldest first (no key required)
func (v *Vault) List(ctx context.Context) ([]storage.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	db, err := v.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	entries, err := db.Entries()
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return entries, nil
}

// Star sets or clears the starred flag of a file
func (v *Vault) Star(ctx context.Context, id string, starred bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	db, err := v.open()
	if err != nil {
		return err
	}
	defer db.Close()

	entry, err := db.GetEntry(id)
	if err != nil {
		return fmt.Errorf("failed to read manifest: %w", err)
	}
	if entry == nil {
		return fmt.Errorf("%w: %s", ErrFileNotFound, id)
	}

	entry.Starred = starred
	return db.PutEntry(*entry)
}

// Status reports vault state (no key required)
func (v *Vault) Status(ctx context.Context) (*StatusInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	db, err := v.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	status := &StatusInfo{
		Path:          v.path,
		FormatVersion: storage.FormatVersion,
		KeyPresent:    v.keys.Exists(),
		Algorithm:     "AES-256-GCM",
		KDF:           "PBKDF2-HMAC-SHA512 (recovery), HKDF-SHA256 (per file)",
	}

	// Timestamps and id are informational
	status.VaultID, _ = db.GetVaultID()
	status.Created, _ = db.GetCreated()
	status.Modified, _ = db.GetModified()

	entries, err := db.Entries()
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	blobs, err := db.ListBlobs()
	if err != nil {
		return nil, fmt.Errorf("failed to list blobs: %w", err)
	}
	if status.StoredBytes, err = db.TotalSize(); err != nil {
		return nil, fmt.Errorf("failed to size blobs: %w", err)
	}

	stored := make(map[string]bool, len(blobs))
	for _, id := range blobs {
		stored[id] = true
	}

	for _, e := range entries {
		status.FileCount++
		status.PlaintextBytes += e.SizeBytes
		if e.Starred {
			status.StarredCount++
		}
		if !stored[e.ID] {
			status.Missing = append(status.Missing, e.ID)
		}
		delete(stored, e.ID)
	}
	for _, id := range blobs {
		if stored[id] {
			status.Orphaned = append(status.Orphaned, id)
		}
	}

	return status, nil
}
