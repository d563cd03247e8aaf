// Package mnemonic implements BIP39 recovery phrases for justvault.
//
// A phrase carries 128 bits (12 words) or 256 bits (24 words) of entropy
// followed by a checksum made of the leading ENT/32 bits of SHA-256(entropy).
// The combined bit string is cut into 11-bit groups, each naming one word of
// the 2048-word English list.
//
// Phrases are never written anywhere by this package. Callers display a
// generated phrase once and drop it.
package mnemonic
