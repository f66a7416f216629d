// Package registry holds the process-wide cacheId -> Status mapping and
// the per-entry state it guards.
package registry

import (
	"path/filepath"
	"sync"

	"github.com/nodecache/filecache/internal/identity"
)

// Registry maps cacheId to Status, guarded by a single mutex held only
// for the duration of map access: it is never held across disk I/O, and
// no entry lock is ever taken while it is held. The reverse nesting does
// occur: Manager.Reclaim calls Remove while holding the entry's lock.
type Registry struct {
	mu      sync.Mutex
	entries map[identity.ID]*Status
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[identity.ID]*Status)}
}

// GetOrCreate returns the existing Status for id, or inserts and returns
// a fresh one rooted at baseDir/id if absent.
func (r *Registry) GetOrCreate(id identity.ID, baseDir string) *Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.entries[id]; ok {
		return s
	}
	s := newStatus(filepath.Join(baseDir, string(id)))
	r.entries[id] = s
	return s
}

// Get returns the Status for id, if any, without creating one.
func (r *Registry) Get(id identity.ID) (*Status, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.entries[id]
	return s, ok
}

// Remove drops id's entry from the registry. It does not touch disk.
func (r *Registry) Remove(id identity.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, id)
}

// Snapshot returns a copy of the id -> Status mapping at this instant.
// Callers iterate the copy and take each entry's lock individually,
// so the registry lock is never held across the per-entry I/O that
// Reclaim and Purge perform.
func (r *Registry) Snapshot() map[identity.ID]*Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[identity.ID]*Status, len(r.entries))
	for id, s := range r.entries {
		out[id] = s
	}
	return out
}

// Len returns the number of registered entries.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.entries)
}

// Clear removes every entry from the registry. It does not touch disk;
// callers that need to delete LocalLoadPath trees must do so themselves
// before or after calling Clear.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = make(map[identity.ID]*Status)
}
