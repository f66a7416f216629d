// Package memfs is an in-memory remotefs.FS fake for unit tests: it
// lets tests drive freshness and localization behavior deterministically
// without a network or a registry container, the way the teacher's
// registry.NewTestManifest stands in for a real OCI manifest in tests.
package memfs

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/nodecache/filecache/internal/identity"
	"github.com/nodecache/filecache/remotefs"
)

// Object is a fake remote artifact.
type Object struct {
	Content []byte
	ModTime int64
}

// FS is an in-memory remotefs.FS. The zero value is not usable; create
// one with New.
type FS struct {
	defaultHost string

	mu      sync.Mutex
	objects map[string]Object
	stats   int // number of Stat calls observed, for dedup assertions
	copies  int // number of CopyToLocal calls observed
}

// New creates an empty in-memory filesystem whose default filesystem
// host is defaultHost.
func New(defaultHost string) *FS {
	return &FS{defaultHost: defaultHost, objects: make(map[string]Object)}
}

// Put registers an object reachable at uri (scheme and host are
// ignored; only the path is keyed).
func (f *FS) Put(path string, obj Object) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[path] = obj
}

// Touch updates the mtime of an already-registered object, simulating
// the remote artifact changing after a job was configured.
func (f *FS) Touch(path string, modTime int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj := f.objects[path]
	obj.ModTime = modTime
	f.objects[path] = obj
}

// DefaultHost implements remotefs.FS.
func (f *FS) DefaultHost() string { return f.defaultHost }

// Stat implements remotefs.FS.
func (f *FS) Stat(_ context.Context, uri *identity.URI) (remotefs.Stat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stats++

	obj, ok := f.objects[uri.Path]
	if !ok {
		return remotefs.Stat{}, fmt.Errorf("memfs: no object at %q", uri.Path)
	}
	return remotefs.Stat{ModTime: obj.ModTime, Size: int64(len(obj.Content))}, nil
}

// CopyToLocal implements remotefs.FS.
func (f *FS) CopyToLocal(_ context.Context, uri *identity.URI, destFile string) error {
	f.mu.Lock()
	obj, ok := f.objects[uri.Path]
	f.copies++
	f.mu.Unlock()

	if !ok {
		return fmt.Errorf("memfs: no object at %q", uri.Path)
	}
	return os.WriteFile(destFile, obj.Content, 0o644) //nolint:gosec // test fake, not production path handling
}

// Stats returns the number of Stat calls observed so far, letting tests
// count how often the remote was consulted. The cache manager stats the
// remote on every acquire, including one that reuses a fresh entry.
func (f *FS) Stats() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stats
}

// Copies returns the number of CopyToLocal calls observed so far.
func (f *FS) Copies() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.copies
}
