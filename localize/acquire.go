package localize

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nodecache/filecache/config"
	"github.com/nodecache/filecache/internal/diskusage"
	"github.com/nodecache/filecache/internal/freshness"
	"github.com/nodecache/filecache/internal/identity"
	"github.com/nodecache/filecache/internal/registry"
	"github.com/nodecache/filecache/symlink"
)

// Acquire localizes the artifact named by rawURI if needed, projects a
// symlink when enabled, increments the entry's refcount, and returns
// the local path a task should read from.
//
// expectedStamp is the job's recorded modification timestamp for this
// artifact; a mismatch against the remote filesystem's current
// timestamp is fatal (ErrStaleRemoteArtifact), distinct from an
// ordinary refresh triggered by drift between the remote and the
// locally cached copy.
func (m *Manager) Acquire(ctx context.Context, cfg *config.Accessor, rawURI string, isArchive bool, expectedStamp int64, workDir string) (string, error) {
	cid, uri, err := identity.Derive(rawURI, cfg.DefaultFSHost())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrConfig, err)
	}

	status := m.registry.GetOrCreate(cid, m.baseDir)

	resultPath, err := m.materializeAndRef(ctx, status, uri, isArchive, expectedStamp, workDir, cfg)
	if err != nil {
		return "", err
	}

	// Eviction runs after the acquire is already complete (refcount
	// incremented, resultPath ready): a reclaim failure here is logged
	// and a disk-usage failure skips eviction, rather than turning a
	// successful acquire into a failed one, and callers must Release
	// the returned path even though err is nil here.
	if usage, uerr := diskusage.Bytes(m.baseDir); uerr == nil && usage > cfg.CacheSizeBytes() {
		if rerr := m.Reclaim(); rerr != nil {
			m.log().Warn("acquire: reclaim after acquiring artifact failed", "uri", rawURI, "error", rerr)
		}
	}

	return resultPath, nil
}

func (m *Manager) materializeAndRef(ctx context.Context, status *registry.Status, uri *identity.URI, isArchive bool, expectedStamp int64, workDir string, cfg *config.Accessor) (string, error) {
	status.Lock()
	defer status.Unlock()

	stat, err := m.remote.Stat(ctx, uri)
	if err != nil {
		return "", fmt.Errorf("%w: stat %s: %v", ErrIO, uri.Path, err)
	}
	dfsStamp := stat.ModTime

	outcome, err := freshness.Check(status.Materialized(), status.Mtime(), expectedStamp, dfsStamp)
	if err != nil {
		if errors.Is(err, freshness.ErrStale) {
			return "", fmt.Errorf("%w: %s (expected mtime %d, remote mtime %d)", ErrStaleRemoteArtifact, uri.Path, expectedStamp, dfsStamp)
		}
		return "", fmt.Errorf("%w: %v", ErrIO, err)
	}

	if outcome != freshness.Fresh {
		if status.Refcount() >= 1 && status.Materialized() {
			return "", fmt.Errorf("%w: %s", ErrCacheInUse, uri.Path)
		}
		if err := m.materialize(ctx, status, uri, isArchive, dfsStamp); err != nil {
			return "", err
		}
	}

	resultPath := resultPathFor(status, isArchive)

	if cfg.SymlinkEnabled() && uri.Fragment != "" {
		if err := symlink.Create(workDir, uri.Fragment, resultPath); err != nil {
			return "", fmt.Errorf("%w: %v", ErrIO, err)
		}
	}

	status.IncRef()
	return resultPath, nil
}

// resultPathFor derives the path a caller should read from. The
// basename of localLoadPath mirrors cacheId's last path component, so
// the non-archive result path is simply that basename joined back onto
// localLoadPath, with no separate identity lookup needed.
func resultPathFor(status *registry.Status, isArchive bool) string {
	if isArchive {
		return status.LocalLoadPath
	}
	return filepath.Join(status.LocalLoadPath, filepath.Base(status.LocalLoadPath))
}

func (m *Manager) materialize(ctx context.Context, status *registry.Status, uri *identity.URI, isArchive bool, dfsStamp int64) error {
	if err := os.RemoveAll(status.LocalLoadPath); err != nil {
		return fmt.Errorf("%w: remove %s: %v", ErrIO, status.LocalLoadPath, err)
	}
	if err := os.MkdirAll(status.LocalLoadPath, 0o755); err != nil {
		return fmt.Errorf("%w: mkdir %s: %v", ErrIO, status.LocalLoadPath, err)
	}

	parchive := filepath.Join(status.LocalLoadPath, filepath.Base(status.LocalLoadPath))
	if err := m.remote.CopyToLocal(ctx, uri, parchive); err != nil {
		return fmt.Errorf("%w: copy %s: %v", ErrIO, uri.Path, err)
	}

	if isArchive {
		ext := strings.ToLower(filepath.Ext(parchive))
		if extractor, ok := m.extractors[ext]; ok {
			if err := extractor.Extract(ctx, parchive, status.LocalLoadPath); err != nil {
				return fmt.Errorf("%w: extract %s: %v", ErrIO, parchive, err)
			}
		}
	}

	chmodExecutableRecursive(ctx, parchive, m.log())

	status.SetMaterialized(true)
	status.SetMtime(dfsStamp)
	return nil
}
