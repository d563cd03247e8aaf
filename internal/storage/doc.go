// Package storage provides the BBolt database behind a justvault vault.
//
// Database structure uses three buckets:
//   - config: format version, timestamps, recovery salt, vault id (unencrypted)
//   - index: one manifest entry per file: name, size, type (unencrypted)
//   - blobs: encrypted envelopes keyed by file id
//
// The unencrypted index lets ls and status work while the master key is
// unavailable. Blob contents are opaque here; this package never sees keys.
//
// BBolt provides ACID transactions, file locking, and corruption detection.
package storage
