// Package security confines files written from vault data to a chosen
// directory.
package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrEmptyName  = errors.New("empty file name")
	ErrUnsafeName = errors.New("unsafe file name")
)

// OutputDir writes files inside one directory using the os.Root API.
// Names come from the vault manifest, which is stored unencrypted, so they
// are reduced to a single path element and symlinks may not leave the root.
type OutputDir struct {
	root *os.Root
	path string
}

// OpenOutputDir opens dir for writing
func OpenOutputDir(dir string) (*OutputDir, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	root, err := os.OpenRoot(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open output directory: %w", err)
	}

	return &OutputDir{root: root, path: absPath}, nil
}

// Close releases the directory handle
func (d *OutputDir) Close() error {
	return d.root.Close()
}

// Path returns the absolute directory path
func (d *OutputDir) Path() string {
	return d.path
}

// LocalName reduces a display name to its last path element. Both slash
// styles count as separators regardless of platform.
func LocalName(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", ErrEmptyName
	}

	name = strings.ReplaceAll(name, "\\", "/")
	base := name[strings.LastIndex(name, "/")+1:]
	if base == "" || base == "." || base == ".." || !filepath.IsLocal(base) {
		return "", fmt.Errorf("%w: %q", ErrUnsafeName, name)
	}
	return base, nil
}

// WriteFile writes data to name inside the directory with mode 0600 and
// returns the full path. An existing file is an os.ErrExist error unless
// overwrite is set.
func (d *OutputDir) WriteFile(name string, data []byte, overwrite bool) (string, error) {
	local, err := LocalName(name)
	if err != nil {
		return "", err
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if !overwrite {
		flags |= os.O_EXCL
	}

	file, err := d.root.OpenFile(local, flags, 0600)
	if err != nil {
		return "", err
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", err
	}
	return filepath.Join(d.path, local), nil
}
