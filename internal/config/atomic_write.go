package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// ErrConfigExists is returned by WriteDefault when the file exists and
// overwriting was not requested.
var ErrConfigExists = errors.New("config file already exists")

// AtomicWrite writes data to path through a temp file renamed into place.
// Existing files keep their permissions; new files are created 0600 since
// they may hold database credentials.
func AtomicWrite(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	perm := os.FileMode(0o600)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	return renameio.WriteFile(path, data, perm)
}

// WriteDefault writes DefaultConfigYAML to path.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s: %w", path, ErrConfigExists)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("checking %s: %w", path, err)
		}
	}
	return AtomicWrite(path, []byte(DefaultConfigYAML))
}
