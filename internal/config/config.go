// Package config loads justvault settings from a TOML file and JUSTVAULT_*
// environment variables. Environment values win over the file, the file
// wins over defaults.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/JohnUja/just-vault/internal/keyring"
)

const (
	BackendOS     = "os"     // OS credential store
	BackendMemory = "memory" // in-process, lost on exit

	// DefaultRecoverySalt is the PBKDF2 salt for phrase-derived master keys.
	// It is recorded in each vault so recovery works after it changes.
	DefaultRecoverySalt = "justvault-master-key-v1"
)

// ErrInvalidConfig is returned when a loaded value is out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	VaultPath string         `toml:"vault_path"`
	UserID    string         `toml:"user_id"`
	Keyring   KeyringConfig  `toml:"keyring"`
	Recovery  RecoveryConfig `toml:"recovery"`
	Log       LogConfig      `toml:"log"`
}

type KeyringConfig struct {
	Backend string `toml:"backend"`
	Service string `toml:"service"`
	Timeout string `toml:"timeout"` // Go duration, e.g. "5s"
}

type RecoveryConfig struct {
	WordCount int    `toml:"word_count"`
	Salt      string `toml:"salt"`
}

type LogConfig struct {
	Verbose bool `toml:"verbose"`
	Debug   bool `toml:"debug"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		VaultPath: defaultVaultPath(),
		Keyring: KeyringConfig{
			Backend: BackendOS,
			Service: keyring.DefaultService,
			Timeout: keyring.DefaultTimeout.String(),
		},
		Recovery: RecoveryConfig{
			WordCount: 12,
			Salt:      DefaultRecoverySalt,
		},
	}
}

// DefaultPath returns the config file location under the user config dir
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "justvault.toml"
	}
	return filepath.Join(dir, "justvault", "config.toml")
}

func defaultVaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".justvault", "vault.db")
	}
	return filepath.Join(home, ".justvault", "vault.db")
}

// Load reads path (a missing file is not an error), applies environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as TOML, readable by the owner only
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer file.Close()

	return c.Encode(file)
}

// Encode writes the configuration as TOML to w
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.VaultPath == "" {
		return fmt.Errorf("%w: vault_path is empty", ErrInvalidConfig)
	}
	if c.Recovery.WordCount != 12 && c.Recovery.WordCount != 24 {
		return fmt.Errorf("%w: recovery.word_count must be 12 or 24, got %d", ErrInvalidConfig, c.Recovery.WordCount)
	}
	if c.Recovery.Salt == "" {
		return fmt.Errorf("%w: recovery.salt is empty", ErrInvalidConfig)
	}
	switch c.Keyring.Backend {
	case BackendOS, BackendMemory:
	default:
		return fmt.Errorf("%w: keyring.backend must be %q or %q, got %q", ErrInvalidConfig, BackendOS, BackendMemory, c.Keyring.Backend)
	}
	if _, err := c.KeyringTimeout(); err != nil {
		return err
	}
	return nil
}

// KeyringTimeout parses keyring.timeout
func (c *Config) KeyringTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Keyring.Timeout)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: keyring.timeout %q is not a positive duration", ErrInvalidConfig, c.Keyring.Timeout)
	}
	return d, nil
}

// applyEnv overrides fields from JUSTVAULT_* environment variables
func (c *Config) applyEnv() error {
	setString := func(name string, dst *string) {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
	setString("JUSTVAULT_VAULT_PATH", &c.VaultPath)
	setString("JUSTVAULT_USER", &c.UserID)
	setString("JUSTVAULT_KEYRING_BACKEND", &c.Keyring.Backend)
	setString("JUSTVAULT_KEYRING_SERVICE", &c.Keyring.Service)
	setString("JUSTVAULT_KEYRING_TIMEOUT", &c.Keyring.Timeout)
	setString("JUSTVAULT_SALT", &c.Recovery.Salt)

	if v := os.Getenv("JUSTVAULT_WORDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: JUSTVAULT_WORDS=%q", ErrInvalidConfig, v)
		}
		c.Recovery.WordCount = n
	}

	for name, dst := range map[string]*bool{
		"JUSTVAULT_VERBOSE": &c.Log.Verbose,
		"JUSTVAULT_DEBUG":   &c.Log.Debug,
	} {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidConfig, name, v)
		}
		*dst = b
	}
	return nil
}
