package cmd

import (
	"context"
	"fmt"
	"os"
)

// Remove deletes files from the vault
func Remove(ctx context.Context, app *App, ids []string) {
	if len(ids) == 0 {
		fmt.Fprintf(os.Stderr, "Error: rm requires at least one file id\n")
		fmt.Fprintf(os.Stderr, "Usage: justvault rm <id> [id...]\n")
		os.Exit(1)
	}

	failed := false
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			HandleError(err)
		}
		if err := app.Vault.Remove(ctx, id); err != nil {
			app.Log.Errorf("%s: %v", id, err)
			failed = true
			continue
		}
		fmt.Printf("removed: %s\n", id)
	}

	// Reclaim space
	if _, _, err := app.Vault.Compact(); err != nil {
		app.Log.Warnf("compaction failed: %v", err)
	}

	if failed {
		os.Exit(1)
	}
}
