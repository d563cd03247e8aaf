// Package core provides the justvault vault operations.
//
// A Vault ties together the master-key store, the per-file cipher and the
// local bbolt database:
//   - Setup/SetupRandom: provision a master key, optionally from a new phrase
//   - Recover: rebuild the master key from a recovery phrase
//   - Import/ImportAll/Export/Remove: encrypt and decrypt vault files
//   - List/Status/Star/Diff: read the manifest, no key required for List and Status
//   - Reset/Compact: forget the master key, reclaim database space
package core
