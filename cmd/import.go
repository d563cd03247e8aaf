package cmd

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/JohnUja/just-vault/internal/core"
	"github.com/JohnUja/just-vault/internal/crypto"
)

// Import encrypts local files into the vault
func Import(ctx context.Context, app *App, paths []string, name, mimeType string) {
	if len(paths) == 0 {
		Usagef("import requires at least one file argument")
	}
	if name != "" && len(paths) > 1 {
		Usagef("-name can only be used with a single file")
	}

	reqs := make([]core.ImportRequest, 0, len(paths))
	defer func() {
		for _, r := range reqs {
			crypto.ClearBytes(r.Data)
		}
	}()

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			app.Log.Warnf("cannot access %s: %v", path, err)
			continue
		}
		if info.IsDir() {
			app.Log.Warnf("skipping directory %s", path)
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			app.Log.Warnf("cannot read %s: %v", path, err)
			continue
		}

		displayName := name
		if displayName == "" {
			displayName = filepath.Base(path)
		}
		fileType := mimeType
		if fileType == "" {
			fileType = detectMimeType(path, data)
		}

		reqs = append(reqs, core.ImportRequest{Name: displayName, MimeType: fileType, Data: data})
	}

	if len(reqs) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no files could be read")
		os.Exit(1)
	}

	entries, err := app.Vault.ImportAll(ctx, reqs)
	ExitOnError(err)

	for _, e := range entries {
		fmt.Printf("imported: %s -> %s (%s)\n", e.DisplayName, e.ID, formatSize(e.SizeBytes))
	}
}

// detectMimeType uses the extension, then content sniffing
func detectMimeType(path string, data []byte) string {
	if t := mime.TypeByExtension(filepath.Ext(path)); t != "" {
		return t
	}
	return http.DetectContentType(data)
}
