package core

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/JohnUja/just-vault/internal/mnemonic"
)

// PhraseEnv names the environment variable read by PhraseFromEnv
const PhraseEnv = "JUSTVAULT_PHRASE"

// ReadPhrase prompts for a recovery phrase. Input is not echoed when stdin
// is a terminal; otherwise one line is read.
func ReadPhrase(prompt string) ([]string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return readPhraseLine(os.Stdin)
	}

	fmt.Fprint(os.Stderr, prompt)
	line, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("failed to read recovery phrase: %w", err)
	}
	return mnemonic.Split(string(line)), nil
}

func readPhraseLine(r io.Reader) ([]string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return nil, fmt.Errorf("failed to read recovery phrase: %w", err)
	}
	return mnemonic.Split(line), nil
}

// PhraseFromEnv returns the words in JUSTVAULT_PHRASE, or nil if unset
func PhraseFromEnv() []string {
	phrase := os.Getenv(PhraseEnv)
	if strings.TrimSpace(phrase) == "" {
		return nil
	}
	return mnemonic.Split(phrase)
}

// Confirm asks a yes/no question on stderr and reads the answer from r
func Confirm(r io.Reader, question string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N]: ", question)
	answer, _ := bufio.NewReader(r).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
