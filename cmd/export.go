package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/JohnUja/just-vault/internal/crypto"
	"github.com/JohnUja/just-vault/internal/security"
)

// Export decrypts a vault file to out. An empty out uses the file's display
// name in the current directory; "-" writes to stdout.
func Export(ctx context.Context, app *App, id, out string, force bool) {
	data, entry, err := app.Vault.Export(ctx, id)
	ExitOnError(err)
	defer crypto.ClearBytes(data)

	if out == "-" {
		_, err := os.Stdout.Write(data)
		ExitOnError(err)
		return
	}

	dirPath, name := ".", entry.DisplayName
	if out != "" {
		dirPath, name = filepath.Dir(out), filepath.Base(out)
	}

	dir, err := security.OpenOutputDir(dirPath)
	ExitOnError(err)
	defer dir.Close()

	path, err := dir.WriteFile(name, data, force)
	if os.IsExist(err) {
		fmt.Fprintf(os.Stderr, "Error: %s already exists (use -force to overwrite)\n", name)
		os.Exit(1)
	}
	ExitOnError(err)

	fmt.Printf("exported: %s -> %s (%s)\n", entry.ID, path, formatSize(entry.SizeBytes))
}
