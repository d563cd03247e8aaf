package storage

import (
	"time"
)

// SyncStatus tracks a file's remote sync state. Sync itself lives outside
// this repository, so local files stay SyncPending.
type SyncStatus string

const (
	SyncPending SyncStatus = "pending"
	SyncSyncing SyncStatus = "syncing"
	SyncSynced  SyncStatus = "synced"
	SyncError   SyncStatus = "error"
)

// Entry describes one vault file in the index bucket
type Entry struct {
	ID           string     `json:"id"`
	DisplayName  string     `json:"displayName"`
	SizeBytes    int64      `json:"sizeBytes"` // plaintext size
	MimeType     string     `json:"mimeType"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastOpenedAt *time.Time `json:"lastOpenedAt,omitempty"`
	Starred      bool       `json:"starred"`
	SyncStatus   SyncStatus `json:"syncStatus"`
	Version      int        `json:"version"`
}

// NewEntry creates a manifest entry for a freshly imported file
func NewEntry(id, name, mimeType string, size int64) Entry {
	if size < 0 {
		size = 0
	}
	return Entry{
		ID:          id,
		DisplayName: name,
		SizeBytes:   size,
		MimeType:    mimeType,
		CreatedAt:   time.Now().UTC(),
		SyncStatus:  SyncPending,
		Version:     1,
	}
}

// SizeMB returns the plaintext size in megabytes
func (e Entry) SizeMB() float64 {
	return float64(e.SizeBytes) / 1_000_000.0
}

// MarkOpened records an access time
func (e *Entry) MarkOpened(at time.Time) {
	t := at.UTC()
	e.LastOpenedAt = &t
}
