package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/JohnUja/just-vault/internal/config"
	"github.com/JohnUja/just-vault/internal/core"
	"github.com/JohnUja/just-vault/internal/crypto"
	"github.com/JohnUja/just-vault/internal/keyring"
	"github.com/JohnUja/just-vault/internal/logging"
	"github.com/JohnUja/just-vault/internal/mnemonic"
	"github.com/JohnUja/just-vault/internal/storage"
)

// App bundles what every command needs
type App struct {
	Config     *config.Config
	ConfigPath string
	Log        *logging.Logger
	Keys       keyring.KeyStore
	Vault      *core.Vault
}

// NewApp loads configuration and wires the key store and vault.
// The -v/-debug flags only ever turn logging on.
func NewApp(configPath string, verbose, debug bool) (*App, error) {
	if configPath == "" {
		configPath = config.DefaultPath()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	cfg.Log.Verbose = cfg.Log.Verbose || verbose
	cfg.Log.Debug = cfg.Log.Debug || debug

	log := logging.New(cfg.Log.Verbose, cfg.Log.Debug)

	keys, err := newKeyStore(cfg)
	if err != nil {
		return nil, err
	}
	log.Debugf("config %s, vault %s, key store %s", configPath, cfg.VaultPath, cfg.Keyring.Backend)

	vault := core.New(core.Options{
		Path:   cfg.VaultPath,
		Keys:   keys,
		Log:    log,
		Salt:   []byte(cfg.Recovery.Salt),
		UserID: cfg.UserID,
	})

	// A memory key store starts empty in every process; headless runs load
	// it from JUSTVAULT_PHRASE.
	if cfg.Keyring.Backend == config.BackendMemory {
		if words := core.PhraseFromEnv(); words != nil {
			if err := vault.Recover(words); err != nil {
				return nil, err
			}
		}
	}

	return &App{
		Config:     cfg,
		ConfigPath: configPath,
		Log:        log,
		Keys:       keys,
		Vault:      vault,
	}, nil
}

func newKeyStore(cfg *config.Config) (keyring.KeyStore, error) {
	if cfg.Keyring.Backend == config.BackendMemory {
		return keyring.NewMemory(), nil
	}
	timeout, err := cfg.KeyringTimeout()
	if err != nil {
		return nil, err
	}
	return keyring.New(cfg.Keyring.Service, timeout), nil
}

// GetPhrase reads a recovery phrase from JUSTVAULT_PHRASE or the terminal
func GetPhrase(prompt string) ([]string, error) {
	if words := core.PhraseFromEnv(); words != nil {
		return words, nil
	}
	return core.ReadPhrase(prompt)
}

// ExitOnError prints err and exits when it is non-nil
func ExitOnError(err error) {
	if err != nil {
		HandleError(err)
	}
}

// HandleError prints a user-facing message for err and exits
func HandleError(err error) {
	switch {
	case errors.Is(err, core.ErrNotInitialized), errors.Is(err, storage.ErrNotInitialized):
		fmt.Fprintf(os.Stderr, "Error: vault not initialized\n")
		fmt.Fprintf(os.Stderr, "Run 'justvault init' first, or 'justvault recover' on a new device\n")
	case errors.Is(err, core.ErrAlreadyProvisioned):
		fmt.Fprintf(os.Stderr, "Error: a master key is already provisioned\n")
		fmt.Fprintf(os.Stderr, "Use 'justvault reset' first if you really want a new key\n")
	case errors.Is(err, keyring.ErrKeyNotFound):
		fmt.Fprintf(os.Stderr, "Error: vault locked, no master key in the key store\n")
		fmt.Fprintf(os.Stderr, "Run 'justvault recover' with your recovery phrase\n")
	case errors.Is(err, keyring.ErrKeyCreationFailed),
		errors.Is(err, keyring.ErrKeyRetrievalFailed),
		errors.Is(err, keyring.ErrKeyDeletionFailed):
		fmt.Fprintf(os.Stderr, "Error: key store unavailable: %s\n", err)
	case errors.Is(err, mnemonic.ErrChecksumMismatch):
		fmt.Fprintf(os.Stderr, "Error: recovery phrase checksum does not match\n")
		fmt.Fprintf(os.Stderr, "Check the word order and spelling\n")
	case errors.Is(err, mnemonic.ErrInvalidPhrase):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	case errors.Is(err, crypto.ErrDecryptionFailed):
		fmt.Fprintf(os.Stderr, "Error: cannot decrypt: the data was modified or belongs to another key\n")
	case errors.Is(err, core.ErrIntegrity):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		fmt.Fprintf(os.Stderr, "The decrypted file does not match its manifest entry\n")
	case errors.Is(err, core.ErrFileNotFound):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		fmt.Fprintf(os.Stderr, "Use 'justvault ls' to see file ids\n")
	default:
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
	os.Exit(1)
}

// Usagef prints a usage error and exits
func Usagef(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(2)
}

// formatSize formats a file size in human-readable form
func formatSize(size int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case size >= GB:
		return fmt.Sprintf("%.1f GB", float64(size)/GB)
	case size >= MB:
		return fmt.Sprintf("%.1f MB", float64(size)/MB)
	case size >= KB:
		return fmt.Sprintf("%.1f KB", float64(size)/KB)
	default:
		return fmt.Sprintf("%d bytes", size)
	}
}
