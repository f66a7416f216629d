package localize

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// executableBits is or'd into a file's existing mode bits, mirroring
// the Hadoop source's recursive chmod +x without otherwise touching
// read/write permissions.
const executableBits = 0o111

// chmodExecutableRecursive walks root and sets executableBits on every
// regular file. It is best-effort: a failure here, including being
// interrupted partway through, is logged and swallowed rather than
// failing the acquire it is part of, since the artifact is already
// usable without the bit set.
func chmodExecutableRecursive(ctx context.Context, root string, logger *slog.Logger) {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		return os.Chmod(path, info.Mode()|executableBits)
	})

	if err == nil {
		return
	}
	if ctx.Err() != nil {
		logger.Warn("chmod: interrupted while setting executable permissions", "root", root, "error", err)
		return
	}
	logger.Warn("chmod: failed to set executable permissions", "root", root, "error", err)
}
