package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodecache/filecache/internal/identity"
)

func TestGetOrCreate_ReturnsSameEntryForSameID(t *testing.T) {
	t.Parallel()

	r := New()
	id := identity.ID("h/a/b.dat")

	first := r.GetOrCreate(id, "/base")
	second := r.GetOrCreate(id, "/base")

	assert.Same(t, first, second)
	assert.Equal(t, "/base/h/a/b.dat", first.LocalLoadPath)
	assert.Equal(t, NeverMaterialized, first.Mtime())
}

func TestRemove_DropsEntry(t *testing.T) {
	t.Parallel()

	r := New()
	id := identity.ID("h/a/b.dat")
	r.GetOrCreate(id, "/base")
	require.Equal(t, 1, r.Len())

	r.Remove(id)

	_, ok := r.Get(id)
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())
}

func TestSnapshot_IsIndependentOfLaterMutation(t *testing.T) {
	t.Parallel()

	r := New()
	r.GetOrCreate(identity.ID("h/a"), "/base")

	snap := r.Snapshot()
	r.GetOrCreate(identity.ID("h/b"), "/base")

	assert.Len(t, snap, 1)
	assert.Equal(t, 2, r.Len())
}

func TestClear_RemovesAllEntries(t *testing.T) {
	t.Parallel()

	r := New()
	r.GetOrCreate(identity.ID("h/a"), "/base")
	r.GetOrCreate(identity.ID("h/b"), "/base")

	r.Clear()

	assert.Equal(t, 0, r.Len())
}

func TestStatus_RefcountNeverGoesNegative(t *testing.T) {
	t.Parallel()

	s := newStatus("/base/h/a")
	s.Lock()
	defer s.Unlock()

	s.DecRef()
	assert.Equal(t, 0, s.Refcount())

	s.IncRef()
	s.IncRef()
	s.DecRef()
	assert.Equal(t, 1, s.Refcount())
}
