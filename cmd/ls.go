package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
)

// Ls lists vault files (no key required). Quiet prints ids only.
func Ls(ctx context.Context, app *App, starredOnly, quiet bool) {
	entries, err := app.Vault.List(ctx)
	ExitOnError(err)

	star := color.YellowString("*")
	shown := 0
	for _, e := range entries {
		if starredOnly && !e.Starred {
			continue
		}
		if quiet {
			fmt.Println(e.ID)
			continue
		}
		if shown == 0 {
			fmt.Println("Files in vault:")
		}
		shown++

		mark := " "
		if e.Starred {
			mark = star
		}
		fmt.Printf("  %s %s  %s (%s, %s, %s)\n",
			mark, e.ID, e.DisplayName, formatSize(e.SizeBytes), e.MimeType,
			e.CreatedAt.Local().Format("2006-01-02 15:04"))
	}

	if shown == 0 && !quiet {
		fmt.Println("No files in vault")
	}
}

// Star marks or unmarks a file
func Star(ctx context.Context, app *App, ids []string, starred bool) {
	if len(ids) == 0 {
		Usagef("star requires at least one file id")
	}
	for _, id := range ids {
		ExitOnError(app.Vault.Star(ctx, id, starred))
	}
}
