package orasfs

import (
	"testing"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodecache/filecache/internal/identity"
)

func TestHostPort(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "registry.example.com", hostPort(&identity.URI{Host: "registry.example.com"}))
	assert.Equal(t, "localhost:5000", hostPort(&identity.URI{Host: "localhost", Port: "5000"}))
}

func TestRepository_InvalidReference(t *testing.T) {
	t.Parallel()

	fs := New("defaultfs", WithAnonymous(true))
	_, err := fs.repository(&identity.URI{Host: "Not Valid Host", Path: "/a/b"})
	require.Error(t, err)
}

func TestManifestModTime_MissingAnnotation(t *testing.T) {
	t.Parallel()

	_, err := manifestModTime(ocispec.Manifest{})
	require.Error(t, err)
}
