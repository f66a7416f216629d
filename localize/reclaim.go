package localize

import (
	"context"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/nodecache/filecache/internal/identity"
	"github.com/nodecache/filecache/internal/registry"
)

// Reclaim makes a single pass over the currently registered entries,
// deleting every idle one (refcount 0) from disk and from the registry.
// It is a single idle-sweep rather than an iterative "evict until under
// budget" loop: there's no defined ordering to iterate by, so one pass
// over whatever is idle right now is what runs.
//
// Each entry's disk delete and its removal from the registry happen
// under the entry's own lock, held for the duration of both: a
// concurrent Acquire that obtained this Status blocks on the entry
// lock until reclaimOne finishes, so it can never observe a refcount
// increment racing against the delete, and can never see the entry
// removed from the registry while it still holds a reference with a
// nonzero refcount. registry.Remove only takes the registry's own
// mutex internally and briefly, so nesting it inside the entry lock
// cannot deadlock against GetOrCreate/Get/Snapshot/Clear, none of
// which ever take an entry lock while holding the registry's. Distinct
// entries are independent and are reclaimed concurrently.
func (m *Manager) Reclaim() error {
	snapshot := m.registry.Snapshot()

	g := new(errgroup.Group)
	for id, status := range snapshot {
		id, status := id, status
		g.Go(func() error {
			return m.reclaimOne(id, status)
		})
	}
	return g.Wait()
}

func (m *Manager) reclaimOne(id identity.ID, status *registry.Status) error {
	status.Lock()
	defer status.Unlock()

	if status.Refcount() != 0 {
		return nil
	}
	if err := os.RemoveAll(status.LocalLoadPath); err != nil {
		return err
	}

	status.SetMaterialized(false)
	m.registry.Remove(id)
	return nil
}

// Purge deletes every registered entry from disk regardless of
// refcount, logging and swallowing failures rather than aborting the
// sweep, and clears the registry once every deletion has been
// attempted. Unlike Reclaim, Purge runs serially: it is a
// once-per-worker-lifetime teardown operation, not a hot path worth
// parallelizing.
func (m *Manager) Purge(ctx context.Context) {
	snapshot := m.registry.Snapshot()

	for id, status := range snapshot {
		status.Lock()
		if err := os.RemoveAll(status.LocalLoadPath); err != nil {
			m.log().Warn("purge: failed to remove cache entry", "cacheId", string(id), "path", status.LocalLoadPath, "error", err)
		}
		status.Unlock()
	}

	m.registry.Clear()
}
