// Package identity derives the canonical cache identity and local path
// for a remote artifact URI.
package identity

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// DFSScheme is the URI scheme that denotes the distributed filesystem.
// Any other scheme (including an absent one) defers host resolution to
// the configured default filesystem, reproducing the source's
// unconditional host substitution for non-distributed-filesystem
// schemes.
const DFSScheme = "dfs"

// ID is the canonical registry key for a localized artifact.
//
// It is "<host><absolute-path>" and deliberately excludes any URI
// fragment: the fragment names a symlink in the caller's working
// directory, not the artifact.
type ID string

// URI is a parsed artifact reference.
//
//	scheme://host[:port]/absolute/path[#fragment]
type URI struct {
	Scheme   string
	Host     string
	Port     string
	Path     string
	Fragment string
}

// ParseURI parses raw into a URI without resolving a default host.
func ParseURI(raw string) (*URI, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("identity: parse uri %q: %w", raw, err)
	}
	if u.Path == "" {
		return nil, fmt.Errorf("identity: uri %q has no path", raw)
	}
	if !path.IsAbs(u.Path) {
		return nil, fmt.Errorf("identity: uri %q has a non-absolute path", raw)
	}
	return &URI{
		Scheme:   u.Scheme,
		Host:     u.Hostname(),
		Port:     u.Port(),
		Path:     u.Path,
		Fragment: u.Fragment,
	}, nil
}

// Derive canonicalizes raw into a stable cache ID and its parsed URI,
// substituting defaultFSHost for the host when the URI omits a scheme
// or uses a scheme other than DFSScheme, or when it simply has no host.
//
// Derive fails with a wrapped ErrNoHost when neither the URI nor
// defaultFSHost yields a usable host: the caller's configuration is
// invalid in that case, not the artifact reference.
func Derive(raw, defaultFSHost string) (ID, *URI, error) {
	u, err := ParseURI(raw)
	if err != nil {
		return "", nil, err
	}

	host := u.Host
	if u.Scheme != DFSScheme || host == "" {
		host = defaultFSHost
	}
	if host == "" {
		return "", nil, fmt.Errorf("identity: no host for %q and no default filesystem host configured: %w", raw, ErrNoHost)
	}
	u.Host = host

	id := ID(host + u.Path)
	return id, u, nil
}

// Basename returns the last path component of an ID, used as the name
// of the file copied under the entry's local directory: the basename
// of localLoadPath mirrors cacheId's last path component by design, to
// preserve on-disk layout compatibility with the source.
func Basename(id ID) string {
	return path.Base(strings.TrimRight(string(id), "/"))
}

