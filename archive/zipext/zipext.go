// Package zipext extracts zip and jar archives using
// github.com/klauspost/compress/zip, the same compression library the
// teacher repo uses for its own archive codecs (internal/fileops,
// internal/batch). A jar file is a zip archive, so one implementation
// serves both extensions.
package zipext

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
)

// Extractor implements archive.Extractor for .zip and .jar files.
type Extractor struct{}

// New creates a zip/jar extractor.
func New() *Extractor { return &Extractor{} }

// Extract expands the zip archive at archivePath into destDir, creating
// destDir's subdirectories as needed. Entries that would escape destDir
// via ".." path components are rejected rather than silently skipped,
// since a crafted archive escaping the entry's directory would corrupt
// a sibling cache entry. An absolute entry name is joined under destDir
// like a relative one.
func (e *Extractor) Extract(ctx context.Context, archivePath, destDir string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("zipext: open %s: %w", archivePath, err)
	}
	defer r.Close()

	for _, f := range r.File {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := extractEntry(f, destDir); err != nil {
			return fmt.Errorf("zipext: extract %s from %s: %w", f.Name, archivePath, err)
		}
	}
	return nil
}

func extractEntry(f *zip.File, destDir string) error {
	target, err := safeJoin(destDir, f.Name)
	if err != nil {
		return err
	}

	if f.FileInfo().IsDir() {
		return os.MkdirAll(target, 0o755)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode().Perm()|0o600)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil { //nolint:gosec // size bound is the caller's responsibility; no limit enforced here
		return err
	}
	return nil
}

// safeJoin joins destDir and name, rejecting any result that would
// escape destDir.
func safeJoin(destDir, name string) (string, error) {
	cleaned := filepath.Clean(filepath.Join(destDir, name))
	destClean := filepath.Clean(destDir)
	if cleaned != destClean && !strings.HasPrefix(cleaned, destClean+string(os.PathSeparator)) {
		return "", fmt.Errorf("entry %q escapes destination directory", name)
	}
	return cleaned, nil
}
