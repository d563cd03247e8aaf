package cmd

import (
	"fmt"
	"os"

	"github.com/JohnUja/just-vault/internal/core"
)

// Recover rebuilds the master key from a recovery phrase
func Recover(app *App) {
	words, err := GetPhrase("Enter recovery phrase: ")
	ExitOnError(err)

	ExitOnError(app.Vault.Recover(words))
	fmt.Println("✓ Master key recovered")
}

// Reset deletes the master key after confirmation
func Reset(app *App, force bool) {
	present, err := app.Vault.HasKey()
	ExitOnError(err)
	if !present {
		fmt.Println("No master key stored")
		return
	}

	if !force {
		fmt.Println("This deletes the master key from the key store.")
		fmt.Println("Files stay encrypted in the vault and need the recovery phrase to open again.")
		if !core.Confirm(os.Stdin, "Delete the master key?") {
			fmt.Println("Aborted")
			return
		}
	}

	ExitOnError(app.Vault.Reset())
	fmt.Println("✓ Master key deleted")
}
