// Package crypto provides the key derivation and file encryption core of justvault.
//
// Encryption uses AES-256-GCM with:
//   - 32-byte per-file key derived from the master key via HKDF-SHA256
//     (salt = file identifier, info = "file-encryption")
//   - 12-byte random nonce per encryption operation
//   - Envelope layout: nonce (12) || ciphertext || tag (16), no length prefix
//
// Master key derivation from a recovery phrase uses PBKDF2-HMAC-SHA512 with
// 2048 iterations over the 64-byte BIP39 seed. The two derivations are
// deliberately separate algorithms and are not interchangeable.
//
// Memory safety:
//   - Use ClearBytes() to zero key material after use
//   - FileCipher never keeps the master key beyond a single call
package crypto
