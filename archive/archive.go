// Package archive defines the extractor boundary used to expand
// archive artifacts into a cache entry's directory, and ships the
// reference zip/jar implementation in archive/zipext.
package archive

import "context"

// Extractor expands an archive file into destDir.
//
// Implementations must be safe for concurrent use across distinct
// archivePath/destDir pairs; the localizer never calls the same
// Extractor concurrently for the same destDir, since that path is
// serialized by the entry lock.
type Extractor interface {
	Extract(ctx context.Context, archivePath, destDir string) error
}
