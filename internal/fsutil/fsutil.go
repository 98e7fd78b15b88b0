// Package fsutil reads files confined to a directory.
package fsutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ReadInDir reads name relative to dir. The read goes through an os.Root
// opened at dir, so names that resolve outside it fail.
func ReadInDir(dir, name string) ([]byte, error) {
	cleaned := filepath.Clean(name)
	if cleaned == "." || filepath.IsAbs(cleaned) {
		return nil, fmt.Errorf("invalid file name: %q", name)
	}

	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, err
	}
	defer root.Close()

	f, err := root.Open(cleaned)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(f)
}
