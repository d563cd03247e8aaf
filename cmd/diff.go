package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/JohnUja/just-vault/internal/crypto"
)

// Diff compares a vault file with a local file
func Diff(ctx context.Context, app *App, id, localPath string) {
	local, err := os.ReadFile(localPath)
	ExitOnError(err)
	defer crypto.ClearBytes(local)

	diff, err := app.Vault.Diff(ctx, id, local)
	ExitOnError(err)

	if diff == "" {
		fmt.Println("No changes detected")
		return
	}
	fmt.Print(diff)
}
