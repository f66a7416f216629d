package zipext

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTestZip(t *testing.T, path string, files map[string]string) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range files {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
}

func TestExtract_NestedEntries(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	archivePath := filepath.Join(dir, "m.zip")
	writeTestZip(t, archivePath, map[string]string{
		"x/y.txt": "hello",
		"root.txt": "world",
	})

	destDir := filepath.Join(dir, "extracted")
	require.NoError(t, os.MkdirAll(destDir, 0o755))

	e := New()
	require.NoError(t, e.Extract(context.Background(), archivePath, destDir))

	got, err := os.ReadFile(filepath.Join(destDir, "x", "y.txt"))
	require.NoError(t, err)
	require.Equal(t, "hello", string(got))

	got, err = os.ReadFile(filepath.Join(destDir, "root.txt"))
	require.NoError(t, err)
	require.Equal(t, "world", string(got))
}

func TestExtract_RejectsPathTraversal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	archivePath := filepath.Join(dir, "evil.zip")
	writeTestZip(t, archivePath, map[string]string{
		"../escape.txt": "pwned",
	})

	destDir := filepath.Join(dir, "extracted")
	require.NoError(t, os.MkdirAll(destDir, 0o755))

	e := New()
	err := e.Extract(context.Background(), archivePath, destDir)
	require.Error(t, err)
	require.Contains(t, err.Error(), "escapes destination directory")
}
