package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Init provisions a master key. Unless random is set, the key is derived
// from a new recovery phrase that is shown once.
func Init(app *App, words int, random bool) {
	if random {
		ExitOnError(app.Vault.SetupRandom())
		fmt.Println("✓ Initialized vault with a random master key")
		fmt.Printf("  Vault: %s\n", app.Vault.Path())
		return
	}

	if words == 0 {
		words = app.Config.Recovery.WordCount
	}

	phrase, err := app.Vault.Setup(words)
	ExitOnError(err)

	fmt.Println("✓ Initialized vault")
	fmt.Printf("  Vault: %s\n", app.Vault.Path())
	fmt.Println()
	color.New(color.Bold).Println("Recovery phrase (write it down, it is shown only once):")
	fmt.Println()
	printPhrase(phrase)
	fmt.Println()
	fmt.Println("Anyone with these words can decrypt your vault.")
	fmt.Println("Without them, a lost key store means lost files.")

	// First run: leave a config file behind so later runs use the same settings
	if _, err := os.Stat(app.ConfigPath); os.IsNotExist(err) {
		if err := app.Config.Save(app.ConfigPath); err != nil {
			app.Log.Warnf("failed to write %s: %v", app.ConfigPath, err)
		} else {
			app.Log.Infof("wrote %s", app.ConfigPath)
		}
	}
}

// printPhrase prints words numbered in four columns
func printPhrase(words []string) {
	const columns = 4
	for i, w := range words {
		fmt.Printf("  %2d. %-10s", i+1, w)
		if (i+1)%columns == 0 || i == len(words)-1 {
			fmt.Println()
		}
	}
}
