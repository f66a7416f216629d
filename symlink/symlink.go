// Package symlink projects localized cache entries into a task's
// working directory.
package symlink

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Create makes a symlink at workDir/name pointing to target. An
// already-existing link at that path is treated as success; Create
// never overwrites an existing path.
func Create(workDir, name, target string) error {
	linkPath := filepath.Join(workDir, name)

	if _, err := os.Lstat(linkPath); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("symlink: stat %s: %w", linkPath, err)
	}

	if err := os.Symlink(target, linkPath); err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil
		}
		return fmt.Errorf("symlink: create %s -> %s: %w", linkPath, target, err)
	}
	return nil
}

// ProjectAll creates, for every direct child of jobCacheDir, a symlink
// workDir/<name> -> <absolute path of the child>. It skips silently if
// jobCacheDir or workDir is absent or not a directory, rather than
// failing the caller.
func ProjectAll(jobCacheDir, workDir string) error {
	jobInfo, err := os.Stat(jobCacheDir)
	if err != nil || !jobInfo.IsDir() {
		return nil
	}
	workInfo, err := os.Stat(workDir)
	if err != nil || !workInfo.IsDir() {
		return nil
	}

	entries, err := os.ReadDir(jobCacheDir)
	if err != nil {
		return fmt.Errorf("symlink: read %s: %w", jobCacheDir, err)
	}

	absJobCacheDir, err := filepath.Abs(jobCacheDir)
	if err != nil {
		return fmt.Errorf("symlink: resolve %s: %w", jobCacheDir, err)
	}

	for _, e := range entries {
		target := filepath.Join(absJobCacheDir, e.Name())
		if err := Create(workDir, e.Name(), target); err != nil {
			return err
		}
	}
	return nil
}
