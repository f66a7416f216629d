package registry

import "sync"

// NeverMaterialized is the sentinel mtime of a Status that has not yet
// been successfully localized.
const NeverMaterialized int64 = -1

// Status is the per-artifact record tracking a cache entry's on-disk
// state and liveness.
//
// LocalLoadPath is immutable after creation. The remaining fields are
// guarded by the Status's own mutex, its entry lock: callers must hold
// Lock for the duration of any read or write of Materialized,
// Refcount, Mtime, or the on-disk contents at LocalLoadPath.
type Status struct {
	// LocalLoadPath is the local directory allocated to this entry.
	LocalLoadPath string

	mu           sync.Mutex
	materialized bool
	refcount     int
	mtime        int64
}

func newStatus(localLoadPath string) *Status {
	return &Status{
		LocalLoadPath: localLoadPath,
		mtime:         NeverMaterialized,
	}
}

// Lock acquires the entry lock. Disk I/O against LocalLoadPath and any
// read or write of the mutable fields below must happen between Lock
// and Unlock.
func (s *Status) Lock() { s.mu.Lock() }

// Unlock releases the entry lock.
func (s *Status) Unlock() { s.mu.Unlock() }

// Materialized reports whether the entry has ever been successfully
// localized. Callers must hold the entry lock.
func (s *Status) Materialized() bool { return s.materialized }

// Mtime returns the remote modification timestamp captured at the last
// successful materialization, or NeverMaterialized. Callers must hold
// the entry lock.
func (s *Status) Mtime() int64 { return s.mtime }

// Refcount returns the number of live acquirers. Callers must hold the
// entry lock.
func (s *Status) Refcount() int { return s.refcount }

// SetMaterialized records that localization completed (or was reset by
// a refresh). Callers must hold the entry lock.
func (s *Status) SetMaterialized(v bool) { s.materialized = v }

// SetMtime records the remote modification timestamp observed at the
// last successful materialization. Callers must hold the entry lock.
func (s *Status) SetMtime(t int64) { s.mtime = t }

// IncRef increments the refcount. Callers must hold the entry lock.
func (s *Status) IncRef() { s.refcount++ }

// DecRef decrements the refcount, floored at zero: the refcount never
// goes negative. Callers must hold the entry lock.
func (s *Status) DecRef() {
	if s.refcount > 0 {
		s.refcount--
	}
}
