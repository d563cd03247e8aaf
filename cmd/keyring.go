package cmd

import (
	"fmt"

	"github.com/JohnUja/just-vault/internal/config"
)

// KeyringStatus reports where the master key lives and whether it is stored
func KeyringStatus(app *App) {
	cfg := app.Config.Keyring
	if cfg.Backend == config.BackendMemory {
		fmt.Println("Key store: in-memory (not persisted)")
	} else {
		fmt.Printf("Key store: OS credential store, service %q\n", cfg.Service)
		fmt.Printf("Timeout:   %s\n", cfg.Timeout)
	}

	present, err := app.Vault.HasKey()
	switch {
	case err != nil:
		fmt.Printf("Master key: unreadable (%v)\n", err)
	case present:
		fmt.Println("Master key: stored")
	default:
		fmt.Println("Master key: not stored")
	}
}
