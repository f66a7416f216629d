//go:build integration

package orasfs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/opencontainers/go-digest"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"oras.land/oras-go/v2/registry/remote"

	"github.com/nodecache/filecache/internal/identity"
)

// startRegistryContainer starts a registry:2 container and returns its
// host:port address, mirroring the teacher's integration test harness.
func startRegistryContainer(ctx context.Context, tb testing.TB) string {
	tb.Helper()

	if os.Getenv("SKIP_DOCKER_TESTS") == "1" {
		tb.Skip("SKIP_DOCKER_TESTS is set")
	}

	req := testcontainers.ContainerRequest{
		Image:        "registry:2",
		ExposedPorts: []string{"5000/tcp"},
		WaitingFor:   wait.ForHTTP("/v2/").WithPort("5000/tcp"),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(tb, err, "start registry container")
	tb.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(tb, err)
	port, err := container.MappedPort(ctx, "5000/tcp")
	require.NoError(tb, err)

	return fmt.Sprintf("%s:%s", host, port.Port())
}

// pushTestArtifact pushes a single-layer manifest with the given
// content and creation time, so Stat/CopyToLocal have something real to
// resolve against.
func pushTestArtifact(ctx context.Context, tb testing.TB, registryAddr, repoPath string, content []byte, created time.Time) {
	tb.Helper()

	ref := fmt.Sprintf("%s/%s:%s", registryAddr, repoPath, defaultTag)
	repo, err := remote.NewRepository(ref)
	require.NoError(tb, err)
	repo.PlainHTTP = true

	layerDesc := ocispec.Descriptor{
		MediaType: "application/octet-stream",
		Digest:    digest.FromBytes(content),
		Size:      int64(len(content)),
	}
	require.NoError(tb, repo.Push(ctx, layerDesc, bytes.NewReader(content)))

	manifest := ocispec.Manifest{
		MediaType: ocispec.MediaTypeImageManifest,
		Config:    ocispec.DescriptorEmptyJSON,
		Layers:    []ocispec.Descriptor{layerDesc},
		Annotations: map[string]string{
			ocispec.AnnotationCreated: created.Format(time.RFC3339),
		},
	}
	manifestJSON := mustMarshal(tb, manifest)
	manifestDesc := ocispec.Descriptor{
		MediaType: ocispec.MediaTypeImageManifest,
		Digest:    digest.FromBytes(manifestJSON),
		Size:      int64(len(manifestJSON)),
	}
	require.NoError(tb, repo.PushReference(ctx, manifestDesc, bytes.NewReader(manifestJSON), defaultTag))
}

func mustMarshal(tb testing.TB, v any) []byte {
	tb.Helper()
	b, err := json.Marshal(v)
	require.NoError(tb, err)
	return b
}

func TestFS_StatAndCopyToLocal(t *testing.T) {
	ctx := context.Background()
	addr := startRegistryContainer(ctx, t)

	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	content := []byte("hello from the distributed filesystem")
	pushTestArtifact(ctx, t, addr, "artifacts/greeting", content, created)

	fs := New("defaultfs", WithPlainHTTP(true), WithAnonymous(true))
	uri := &identity.URI{Scheme: identity.DFSScheme, Host: addr, Path: "/artifacts/greeting"}

	stat, err := fs.Stat(ctx, uri)
	require.NoError(t, err)
	require.Equal(t, created.Unix(), stat.ModTime)
	require.Equal(t, int64(len(content)), stat.Size)

	destFile := filepath.Join(t.TempDir(), "greeting")
	require.NoError(t, fs.CopyToLocal(ctx, uri, destFile))

	got, err := os.ReadFile(destFile)
	require.NoError(t, err)
	require.Equal(t, content, got)
}
