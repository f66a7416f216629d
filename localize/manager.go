package localize

import (
	"log/slog"
	"strings"

	"github.com/nodecache/filecache/archive"
	"github.com/nodecache/filecache/archive/zipext"
	"github.com/nodecache/filecache/internal/registry"
	"github.com/nodecache/filecache/remotefs"
)

// jarExtension and zipExtension are the archive extensions dispatched
// on during extraction. Any other extension on an isArchive artifact
// is left in place, a no-op rather than an error.
const (
	jarExtension = ".jar"
	zipExtension = ".zip"
)

// Manager is the process-wide cache manager, constructed once per
// worker and shared by every task-setup goroutine.
type Manager struct {
	baseDir string
	remote  remotefs.FS

	registry   *registry.Registry
	extractors map[string]archive.Extractor

	logger *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the structured logger Manager uses for diagnostics
// that are logged rather than returned, such as a permission-set
// interruption or a purge delete failure.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithExtractor overrides the archive.Extractor used for a given
// lowercase extension (".zip" or ".jar"). Unset extensions fall back
// to the zipext default.
func WithExtractor(ext string, e archive.Extractor) Option {
	return func(m *Manager) {
		m.extractors[strings.ToLower(ext)] = e
	}
}

// New creates a Manager rooted at baseDir, using remote for all
// out-of-process I/O against the distributed filesystem.
func New(baseDir string, remote remotefs.FS, opts ...Option) *Manager {
	z := zipext.New()
	m := &Manager{
		baseDir:  baseDir,
		remote:   remote,
		registry: registry.New(),
		extractors: map[string]archive.Extractor{
			zipExtension: z,
			jarExtension: z,
		},
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) log() *slog.Logger { return m.logger }
