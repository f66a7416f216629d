// Package remotefs defines the boundary interface the cache manager
// uses to reach the remote distributed filesystem. Resolution, auth,
// and transport are explicitly out of scope for the core; this package
// only names the shape the core calls through, plus two
// concrete implementations the rest of this module ships: remotefs/orasfs,
// backed by an OCI registry, and remotefs/memfs, an in-memory fake for
// unit tests.
package remotefs

import (
	"context"

	"github.com/nodecache/filecache/internal/identity"
)

// Stat is the subset of remote metadata the freshness oracle and
// localizer need.
type Stat struct {
	// ModTime is the remote modification timestamp, in the same unit
	// the job's expectedStamp and the recorded entry mtime use. This
	// module treats it as an opaque int64 and never interprets it as a
	// wall-clock time itself.
	ModTime int64
	// Size is the remote object size in bytes, informational only.
	Size int64
}

// FS is the remote filesystem boundary interface. Implementations
// must be safe for concurrent use; the cache manager
// calls Stat and CopyToLocal for distinct artifacts concurrently.
type FS interface {
	// Stat retrieves the remote artifact's current metadata.
	Stat(ctx context.Context, uri *identity.URI) (Stat, error)

	// CopyToLocal copies the remote artifact named by uri to destFile,
	// a path on the local filesystem. CopyToLocal must create destFile
	// and must not leave a partial file behind on error.
	CopyToLocal(ctx context.Context, uri *identity.URI, destFile string) error

	// DefaultHost returns the host substituted for URIs that omit a
	// scheme or use a scheme other than identity.DFSScheme. A
	// configuration with no default filesystem returns "".
	DefaultHost() string
}
