package core

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/JohnUja/just-vault/internal/crypto"
)

const (
	textSampleSize   = 8192 // bytes sampled for text/binary detection
	binaryControlPct = 10   // max % control chars in a text file
)

// IsText reports whether data looks like text: no NUL bytes, valid UTF-8
// and few control characters in the first textSampleSize bytes.
func IsText(data []byte) bool {
	if len(data) == 0 {
		return true
	}
	if bytes.IndexByte(data, 0) != -1 {
		return false
	}

	sample := data[:min(len(data), textSampleSize)]
	if !utf8.Valid(sample) {
		return false
	}

	control := 0
	for _, b := range sample {
		if (b < 32 && b != '\t' && b != '\n' && b != '\r') || b == 127 {
			control++
		}
	}
	return control <= len(sample)*binaryControlPct/100
}

// SameContent compares two contents by SHA-256
func SameContent(a, b []byte) bool {
	ha, hb := sha256.Sum256(a), sha256.Sum256(b)
	return bytes.Equal(ha[:], hb[:])
}

// UnifiedDiff renders a line diff from vault to local content. It returns ""
// when the contents match and a one-line notice for binary content.
func UnifiedDiff(name string, vaultData, localData []byte) string {
	if SameContent(vaultData, localData) {
		return ""
	}
	if !IsText(vaultData) || !IsText(localData) {
		return fmt.Sprintf("Binary file %s has changed\n", name)
	}

	dmp := diffmatchpatch.New()

	vaultStr, localStr := string(vaultData), string(localData)
	a, b, lines := dmp.DiffLinesToChars(vaultStr, localStr)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	patches := dmp.PatchMake(vaultStr, diffs)
	if len(patches) == 0 {
		return ""
	}

	var out strings.Builder
	fmt.Fprintf(&out, "--- vault/%s\n", name)
	fmt.Fprintf(&out, "+++ local/%s\n", name)
	out.WriteString(dmp.PatchToText(patches))
	return out.String()
}

// Diff compares a vault file with local content. The vault copy is
// decrypted and integrity-checked but its access time is left alone.
func (v *Vault) Diff(ctx context.Context, id string, local []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	db, err := v.open()
	if err != nil {
		return "", err
	}
	defer db.Close()

	plaintext, entry, err := v.decrypt(db, id)
	if err != nil {
		return "", err
	}
	defer crypto.ClearBytes(plaintext)

	return UnifiedDiff(entry.DisplayName, plaintext, local), nil
}
