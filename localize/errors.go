package localize

import "errors"

// Sentinel errors Callers distinguish with errors.Is. StaleRemoteArtifact
// must stay distinct from IO because the framework treats it as fatal
// to the job while an ordinary IO failure may be retried by the caller.
var (
	// ErrConfig is returned when cacheId derivation fails: neither the
	// URI nor the configured default filesystem yields a host, or the
	// URI itself is malformed.
	ErrConfig = errors.New("localize: configuration error")

	// ErrIO is returned when a remote stat/copy, local mkdir/delete, or
	// extractor call fails.
	ErrIO = errors.New("localize: io error")

	// ErrStaleRemoteArtifact is returned when the remote artifact's
	// modification time no longer matches the expectedStamp the job
	// recorded. It is fatal to the job; callers must not retry.
	ErrStaleRemoteArtifact = errors.New("localize: remote artifact is stale relative to the job's expected timestamp")

	// ErrCacheInUse is returned when a refresh is required but the
	// stale entry's refcount is still >= 1.
	ErrCacheInUse = errors.New("localize: cache entry in use, cannot refresh")
)
