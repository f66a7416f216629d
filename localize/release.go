package localize

import (
	"github.com/nodecache/filecache/config"
	"github.com/nodecache/filecache/internal/identity"
)

// Release decrements the refcount of the entry identified by rawURI.
// Releasing an id the registry has never seen is a no-op, not an
// error: that covers a task that never successfully acquired, or whose
// entry was already reclaimed out from under it.
func (m *Manager) Release(rawURI string, cfg *config.Accessor) error {
	cid, _, err := identity.Derive(rawURI, cfg.DefaultFSHost())
	if err != nil {
		return nil
	}

	status, ok := m.registry.Get(cid)
	if !ok {
		return nil
	}

	status.Lock()
	defer status.Unlock()
	status.DecRef()
	return nil
}
