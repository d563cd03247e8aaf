// Package keyring holds the justvault master key.
//
// KeyStore is the capability the rest of the vault depends on. Two
// implementations are provided:
//   - Keyring: the OS credential store via github.com/zalando/go-keyring,
//     one entry under a constant account tag, every call serialised and
//     bounded by a timeout
//   - Memory: an in-process store for tests and throwaway sessions
//
// Handles are constructed by the caller and passed down explicitly; there is
// no package-level store.
package keyring
