// Package config provides a narrow, typed surface over the framework's
// string-keyed job/task configuration. All encoding and decoding of
// that wire format lives here; callers never touch the underlying map
// directly.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Keys recognized by Accessor.
const (
	KeyCacheArchives           = "mapred.cache.archives"
	KeyCacheFiles              = "mapred.cache.files"
	KeyCacheArchivesTimestamps = "mapred.cache.archives.timestamps"
	KeyCacheFilesTimestamps    = "mapred.cache.files.timestamps"
	KeyLocalCacheArchives      = "mapred.cache.localArchives"
	KeyLocalCacheFiles         = "mapred.cache.localFiles"
	KeyClasspathFiles          = "mapred.job.classpath.files"
	KeyClasspathArchives       = "mapred.job.classpath.archives"
	KeyCreateSymlink           = "mapred.create.symlink"
	KeyCacheSize               = "local.cache.size"
)

// DefaultCacheSizeBytes is the byte budget for baseDir when
// local.cache.size is unset.
const DefaultCacheSizeBytes int64 = 1 << 20 // 1 MiB

// symlinkYes is the only value of mapred.create.symlink that enables
// symlinking; anything else, including unset, disables it.
const symlinkYes = "yes"

// Accessor is a typed, thread-safe view over a string-keyed
// configuration map. The zero value is not usable; create one with
// New or FromMap.
type Accessor struct {
	defaultFSHost string

	mu     sync.RWMutex
	values map[string]string
}

// Option configures an Accessor.
type Option func(*Accessor)

// WithDefaultFSHost sets the host substituted for artifact URIs that
// omit a scheme or use one other than identity.DFSScheme. It is not
// one of the string-keyed settings: the framework supplies it
// directly, as the name of the cluster's default distributed
// filesystem.
func WithDefaultFSHost(host string) Option {
	return func(a *Accessor) { a.defaultFSHost = host }
}

// New creates an empty Accessor.
func New(opts ...Option) *Accessor {
	a := &Accessor{values: make(map[string]string)}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// FromMap creates an Accessor backed by a copy of m.
func FromMap(m map[string]string, opts ...Option) *Accessor {
	a := New(opts...)
	for k, v := range m {
		a.values[k] = v
	}
	return a
}

// DefaultFSHost returns the configured default filesystem host, or ""
// if none was configured.
func (a *Accessor) DefaultFSHost() string { return a.defaultFSHost }

// Get returns the raw string value for key, for keys this package does
// not otherwise type.
func (a *Accessor) Get(key string) (string, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	v, ok := a.values[key]
	return v, ok
}

// Set stores the raw string value for key.
func (a *Accessor) Set(key, value string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.values[key] = value
}

func (a *Accessor) getList(key string) []string {
	raw, ok := a.Get(key)
	if !ok || raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

func (a *Accessor) setList(key string, items []string) {
	a.Set(key, strings.Join(items, ","))
}

// CacheArchives returns the URIs listed under mapred.cache.archives.
func (a *Accessor) CacheArchives() []string { return a.getList(KeyCacheArchives) }

// SetCacheArchives encodes uris into mapred.cache.archives.
func (a *Accessor) SetCacheArchives(uris []string) { a.setList(KeyCacheArchives, uris) }

// CacheFiles returns the URIs listed under mapred.cache.files.
func (a *Accessor) CacheFiles() []string { return a.getList(KeyCacheFiles) }

// SetCacheFiles encodes uris into mapred.cache.files.
func (a *Accessor) SetCacheFiles(uris []string) { a.setList(KeyCacheFiles, uris) }

// LocalCacheArchives returns the local paths listed under
// mapred.cache.localArchives.
func (a *Accessor) LocalCacheArchives() []string { return a.getList(KeyLocalCacheArchives) }

// SetLocalCacheArchives encodes paths into mapred.cache.localArchives.
func (a *Accessor) SetLocalCacheArchives(paths []string) {
	a.setList(KeyLocalCacheArchives, paths)
}

// LocalCacheFiles returns the local paths listed under
// mapred.cache.localFiles.
func (a *Accessor) LocalCacheFiles() []string { return a.getList(KeyLocalCacheFiles) }

// SetLocalCacheFiles encodes paths into mapred.cache.localFiles.
func (a *Accessor) SetLocalCacheFiles(paths []string) { a.setList(KeyLocalCacheFiles, paths) }

// CacheArchivesTimestamps returns the decimal mtimes listed under
// mapred.cache.archives.timestamps, positional with CacheArchives.
func (a *Accessor) CacheArchivesTimestamps() ([]int64, error) {
	return parseTimestamps(a.getList(KeyCacheArchivesTimestamps))
}

// SetCacheArchivesTimestamps encodes timestamps into
// mapred.cache.archives.timestamps.
func (a *Accessor) SetCacheArchivesTimestamps(timestamps []int64) {
	a.setList(KeyCacheArchivesTimestamps, formatTimestamps(timestamps))
}

// CacheFilesTimestamps returns the decimal mtimes listed under
// mapred.cache.files.timestamps, positional with CacheFiles.
func (a *Accessor) CacheFilesTimestamps() ([]int64, error) {
	return parseTimestamps(a.getList(KeyCacheFilesTimestamps))
}

// SetCacheFilesTimestamps encodes timestamps into
// mapred.cache.files.timestamps.
func (a *Accessor) SetCacheFilesTimestamps(timestamps []int64) {
	a.setList(KeyCacheFilesTimestamps, formatTimestamps(timestamps))
}

func parseTimestamps(raw []string) ([]int64, error) {
	out := make([]int64, 0, len(raw))
	for _, s := range raw {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("config: invalid timestamp %q: %w", s, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func formatTimestamps(ts []int64) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = strconv.FormatInt(t, 10)
	}
	return out
}

// ClasspathFiles returns the paths listed under
// mapred.job.classpath.files, split on the host OS's path-list
// separator.
func (a *Accessor) ClasspathFiles() []string { return a.getClasspath(KeyClasspathFiles) }

// SetClasspathFiles encodes paths into mapred.job.classpath.files.
func (a *Accessor) SetClasspathFiles(paths []string) { a.setClasspath(KeyClasspathFiles, paths) }

// ClasspathArchives returns the paths listed under
// mapred.job.classpath.archives.
func (a *Accessor) ClasspathArchives() []string { return a.getClasspath(KeyClasspathArchives) }

// SetClasspathArchives encodes paths into mapred.job.classpath.archives.
func (a *Accessor) SetClasspathArchives(paths []string) {
	a.setClasspath(KeyClasspathArchives, paths)
}

func (a *Accessor) getClasspath(key string) []string {
	raw, ok := a.Get(key)
	if !ok || raw == "" {
		return nil
	}
	return strings.Split(raw, string(os.PathListSeparator))
}

func (a *Accessor) setClasspath(key string, paths []string) {
	a.Set(key, strings.Join(paths, string(os.PathListSeparator)))
}

// SymlinkEnabled reports whether mapred.create.symlink is "yes".
func (a *Accessor) SymlinkEnabled() bool {
	v, _ := a.Get(KeyCreateSymlink)
	return v == symlinkYes
}

// SetSymlinkEnabled encodes enabled into mapred.create.symlink.
func (a *Accessor) SetSymlinkEnabled(enabled bool) {
	if enabled {
		a.Set(KeyCreateSymlink, symlinkYes)
		return
	}
	a.Set(KeyCreateSymlink, "no")
}

// CacheSizeBytes returns local.cache.size, or DefaultCacheSizeBytes if
// unset or malformed.
func (a *Accessor) CacheSizeBytes() int64 {
	v, ok := a.Get(KeyCacheSize)
	if !ok {
		return DefaultCacheSizeBytes
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return DefaultCacheSizeBytes
	}
	return n
}

// SetCacheSizeBytes encodes bytes into local.cache.size.
func (a *Accessor) SetCacheSizeBytes(bytes int64) {
	a.Set(KeyCacheSize, strconv.FormatInt(bytes, 10))
}
