package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
)

// Status shows vault and key state (no key required)
func Status(ctx context.Context, app *App) {
	status, err := app.Vault.Status(ctx)
	ExitOnError(err)

	fmt.Printf("Vault:      %s\n", status.Path)
	fmt.Printf("Vault ID:   %s\n", status.VaultID)
	fmt.Printf("Format:     v%s\n", status.FormatVersion)
	if !status.Created.IsZero() {
		fmt.Printf("Created:    %s\n", status.Created.Local().Format(time.RFC3339))
	}
	if !status.Modified.IsZero() {
		fmt.Printf("Modified:   %s\n", status.Modified.Local().Format(time.RFC3339))
	}

	if status.KeyPresent {
		fmt.Printf("Master key: %s\n", color.GreenString("present"))
	} else {
		fmt.Printf("Master key: %s (run 'justvault recover')\n", color.RedString("missing"))
	}

	fmt.Printf("Encryption: %s\n", status.Algorithm)
	fmt.Printf("KDF:        %s\n", status.KDF)
	fmt.Println()
	fmt.Printf("Files:      %d (%d starred)\n", status.FileCount, status.StarredCount)
	fmt.Printf("Plaintext:  %s\n", formatSize(status.PlaintextBytes))
	fmt.Printf("Stored:     %s\n", formatSize(status.StoredBytes))

	for _, id := range status.Missing {
		app.Log.Warnf("%s is listed but has no stored data", id)
	}
	for _, id := range status.Orphaned {
		app.Log.Warnf("%s is stored but not listed", id)
	}
}
