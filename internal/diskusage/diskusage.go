// Package diskusage computes the total size of a cache's on-disk tree.
package diskusage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// Bytes walks root and returns the total size, in bytes, of every
// regular file beneath it. A missing root reports zero bytes rather
// than an error, since an empty or not-yet-created base directory is a
// normal starting state for the cache.
func Bytes(root string) (int64, error) {
	var total int64
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	return total, err
}
