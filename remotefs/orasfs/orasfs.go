// Package orasfs implements remotefs.FS against an OCI registry via
// oras-go, the way client/oci.Client wraps ORAS for the teacher's own
// blob-archive registry operations. An artifact's cacheId host/path
// addresses a repository; its remote modification timestamp travels as
// the manifest's org.opencontainers.image.created annotation, the same
// annotation the teacher's registry.NewTestManifest stamps for tests.
package orasfs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/opencontainers/go-digest"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"
	"oras.land/oras-go/v2/registry/remote/retry"

	"github.com/nodecache/filecache/internal/identity"
	"github.com/nodecache/filecache/remotefs"
)

// defaultTag is used when a cacheId's path maps to a repository without
// an explicit tag; this module does not carve a tag out of the path, so
// every artifact currently resolves to its repository's "latest" tag.
const defaultTag = "latest"

// FS implements remotefs.FS against an OCI registry.
type FS struct {
	defaultHost string
	plainHTTP   bool
	userAgent   string
	anonymous   bool
	credStore   credentials.Store
	authClient  *auth.Client
}

// Option configures an FS.
type Option func(*FS)

// WithPlainHTTP disables TLS when talking to the registry, for
// development registries and the testcontainers-backed integration test.
func WithPlainHTTP(plain bool) Option {
	return func(f *FS) { f.plainHTTP = plain }
}

// WithUserAgent overrides the HTTP User-Agent sent to the registry.
func WithUserAgent(ua string) Option {
	return func(f *FS) { f.userAgent = ua }
}

// WithAnonymous skips credential lookup entirely.
func WithAnonymous(anon bool) Option {
	return func(f *FS) { f.anonymous = anon }
}

// WithCredentialStore supplies registry credentials, e.g. from
// credentials.NewStoreFromDocker.
func WithCredentialStore(store credentials.Store) Option {
	return func(f *FS) { f.credStore = store }
}

// New creates an OCI-backed remotefs.FS. defaultFSHost is substituted
// for artifact URIs that omit a scheme or use one other than
// identity.DFSScheme.
func New(defaultFSHost string, opts ...Option) *FS {
	f := &FS{
		defaultHost: defaultFSHost,
		userAgent:   "filecache/1.0",
	}
	for _, opt := range opts {
		opt(f)
	}

	f.authClient = &auth.Client{
		Client: retry.DefaultClient,
		Cache:  auth.NewCache(),
		Credential: func(ctx context.Context, hostport string) (auth.Credential, error) {
			if f.anonymous || f.credStore == nil {
				return auth.EmptyCredential, nil
			}
			return f.credStore.Get(ctx, hostport)
		},
		Header: http.Header{"User-Agent": []string{f.userAgent}},
	}
	return f
}

// DefaultHost implements remotefs.FS.
func (f *FS) DefaultHost() string { return f.defaultHost }

func (f *FS) repository(uri *identity.URI) (*remote.Repository, error) {
	ref := fmt.Sprintf("%s/%s:%s", hostPort(uri), strings.Trim(uri.Path, "/"), defaultTag)
	repo, err := remote.NewRepository(ref)
	if err != nil {
		return nil, fmt.Errorf("orasfs: parse reference %q: %w", ref, err)
	}
	repo.PlainHTTP = f.plainHTTP
	repo.Client = f.authClient
	return repo, nil
}

func hostPort(uri *identity.URI) string {
	if uri.Port == "" {
		return uri.Host
	}
	return uri.Host + ":" + uri.Port
}

// Stat implements remotefs.FS by resolving the repository's tag to a
// manifest descriptor and reading its creation-time annotation.
func (f *FS) Stat(ctx context.Context, uri *identity.URI) (remotefs.Stat, error) {
	repo, err := f.repository(uri)
	if err != nil {
		return remotefs.Stat{}, err
	}

	desc, rc, err := repo.FetchReference(ctx, defaultTag)
	if err != nil {
		return remotefs.Stat{}, fmt.Errorf("orasfs: resolve %s: %w", uri.Path, err)
	}
	defer rc.Close()

	var manifest ocispec.Manifest
	if err := decodeManifest(io.LimitReader(rc, desc.Size), &manifest); err != nil {
		return remotefs.Stat{}, fmt.Errorf("orasfs: decode manifest for %s: %w", uri.Path, err)
	}

	modTime, err := manifestModTime(manifest)
	if err != nil {
		return remotefs.Stat{}, fmt.Errorf("orasfs: %s: %w", uri.Path, err)
	}

	size := int64(0)
	for _, l := range manifest.Layers {
		size += l.Size
	}
	return remotefs.Stat{ModTime: modTime, Size: size}, nil
}

// CopyToLocal implements remotefs.FS by fetching the repository's
// single content layer and streaming it to destFile.
func (f *FS) CopyToLocal(ctx context.Context, uri *identity.URI, destFile string) error {
	repo, err := f.repository(uri)
	if err != nil {
		return err
	}

	_, rc, err := repo.FetchReference(ctx, defaultTag)
	if err != nil {
		return fmt.Errorf("orasfs: fetch manifest for %s: %w", uri.Path, err)
	}
	defer rc.Close()

	var manifest ocispec.Manifest
	if err := decodeManifest(rc, &manifest); err != nil {
		return fmt.Errorf("orasfs: decode manifest for %s: %w", uri.Path, err)
	}
	if len(manifest.Layers) == 0 {
		return fmt.Errorf("orasfs: manifest for %s has no layers", uri.Path)
	}

	blobRC, err := repo.Fetch(ctx, manifest.Layers[0])
	if err != nil {
		return fmt.Errorf("orasfs: fetch blob for %s: %w", uri.Path, err)
	}
	defer blobRC.Close()

	out, err := os.Create(destFile) //nolint:gosec // destFile is derived from cacheId, not user input
	if err != nil {
		return fmt.Errorf("orasfs: create %s: %w", destFile, err)
	}
	verified := digest.Canonical.Digester()
	tee := io.TeeReader(blobRC, verified.Hash())

	if _, err := io.Copy(out, tee); err != nil {
		out.Close()
		os.Remove(destFile) //nolint:errcheck // best-effort cleanup of a partial copy
		return fmt.Errorf("orasfs: copy %s: %w", uri.Path, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("orasfs: close %s: %w", destFile, err)
	}
	if verified.Digest() != manifest.Layers[0].Digest {
		os.Remove(destFile) //nolint:errcheck // best-effort cleanup of corrupt content
		return fmt.Errorf("orasfs: digest mismatch for %s", uri.Path)
	}
	return nil
}

func decodeManifest(r io.Reader, m *ocispec.Manifest) error {
	return json.NewDecoder(r).Decode(m)
}

func manifestModTime(m ocispec.Manifest) (int64, error) {
	created, ok := m.Annotations[ocispec.AnnotationCreated]
	if !ok {
		return 0, fmt.Errorf("manifest has no %s annotation", ocispec.AnnotationCreated)
	}
	t, err := time.Parse(time.RFC3339, created)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", ocispec.AnnotationCreated, err)
	}
	return t.Unix(), nil
}
