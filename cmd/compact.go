package cmd

import (
	"fmt"
)

// Compact compacts the vault database to reclaim unused space
func Compact(app *App) {
	before, after, err := app.Vault.Compact()
	ExitOnError(err)

	fmt.Printf("Compacted: %s -> %s\n", formatSize(before), formatSize(after))
}
