package mnemonic

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bsv-blockchain/go-sdk/compat/bip39"
	"golang.org/x/text/unicode/norm"
)

const (
	Words12 = 12 // 128 bits of entropy
	Words24 = 24 // 256 bits of entropy

	// SeedSize is the length of a BIP39 seed in bytes.
	SeedSize = 64
)

var (
	ErrInvalidWordCount = errors.New("word count must be 12 or 24")
	ErrGenerationFailed = errors.New("failed to generate recovery phrase")
	ErrInvalidPhrase    = errors.New("invalid recovery phrase")
	ErrChecksumMismatch = errors.New("recovery phrase checksum mismatch")
)

// newEntropy draws fresh entropy from a CSPRNG
var newEntropy = bip39.NewEntropy

// entropyBits returns the entropy size for a word count, or 0 if unsupported
func entropyBits(wordCount int) int {
	switch wordCount {
	case Words12:
		return 128
	case Words24:
		return 256
	default:
		return 0
	}
}

// Generate creates a new random phrase of 12 or 24 words
func Generate(wordCount int) ([]string, error) {
	bits := entropyBits(wordCount)
	if bits == 0 {
		return nil, ErrInvalidWordCount
	}

	entropy, err := newEntropy(bits)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	defer clear(entropy)

	if len(entropy) != bits/8 {
		return nil, fmt.Errorf("%w: got %d bytes of entropy", ErrGenerationFailed, len(entropy))
	}

	return FromEntropy(entropy)
}

// FromEntropy encodes 16 or 32 bytes of entropy as a phrase
func FromEntropy(entropy []byte) ([]string, error) {
	if n := len(entropy); n != 16 && n != 32 {
		return nil, fmt.Errorf("%w: entropy must be 16 or 32 bytes", ErrInvalidWordCount)
	}

	phrase, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWordCount, err)
	}
	return strings.Fields(phrase), nil
}

// ToEntropy decodes a phrase back to its entropy. Any validation failure is
// ErrInvalidPhrase; a bad checksum additionally matches ErrChecksumMismatch.
func ToEntropy(words []string) ([]byte, error) {
	if entropyBits(len(words)) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPhrase, ErrInvalidWordCount)
	}

	for i, w := range words {
		if _, ok := bip39.GetWordIndex(w); !ok {
			// the word itself is secret material, report only its position
			return nil, fmt.Errorf("%w: unknown word at position %d", ErrInvalidPhrase, i+1)
		}
	}

	entropy, err := bip39.EntropyFromMnemonic(Join(words))
	if errors.Is(err, bip39.ErrChecksumIncorrect) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPhrase, ErrChecksumMismatch)
	}
	if err != nil {
		return nil, ErrInvalidPhrase
	}
	return entropy, nil
}

// Validate reports whether words form a valid 12 or 24 word phrase
func Validate(words []string) bool {
	entropy, err := ToEntropy(words)
	if err != nil {
		return false
	}
	clear(entropy)
	return true
}

// ToSeed derives the 64-byte BIP39 seed:
// PBKDF2-HMAC-SHA512(NFKD(phrase), "mnemonic" + NFKD(passphrase), 2048).
func ToSeed(words []string, passphrase string) ([]byte, error) {
	entropy, err := ToEntropy(words)
	if err != nil {
		return nil, err
	}
	clear(entropy)

	phrase := norm.NFKD.String(Join(words))
	seed, err := bip39.NewSeedWithErrorChecking(phrase, norm.NFKD.String(passphrase))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPhrase, err)
	}
	return seed, nil
}

// Split turns user input into words, normalising case and whitespace
func Split(phrase string) []string {
	return strings.Fields(strings.ToLower(norm.NFKD.String(phrase)))
}

// Join renders words as a single space-separated phrase
func Join(words []string) string {
	return strings.Join(words, " ")
}
