package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/GriffinCanCode/addonkit/internal/addon"
	"github.com/GriffinCanCode/addonkit/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/addonkit/internal/logging"
	"github.com/GriffinCanCode/addonkit/internal/shared/document"
	"github.com/GriffinCanCode/addonkit/internal/shared/paths"
	"go.uber.org/zap"
)

// Registry maps addon names to locations and capabilities
type Registry struct {
	roots      []string
	bundleRoot string
	basePath   string

	entries sync.Map // name -> entry
	mu      sync.Mutex
	probes  atomic.Int64

	caps   map[string]Capabilities
	capsMu sync.RWMutex
	hooks  sync.Map // name -> map[string]HookFunc

	logger  *logging.Logger
	metrics *monitoring.Metrics
}

type entry struct {
	location string
	found    bool
}

// Option configures a Registry
type Option func(*Registry)

// WithBundleRoot marks the directory holding first-party bundled addons
func WithBundleRoot(dir string) Option {
	return func(r *Registry) { r.bundleRoot = dir }
}

// WithBasePath sets the site base path used to derive logical paths
func WithBasePath(dir string) Option {
	return func(r *Registry) { r.basePath = dir }
}

// WithLogger sets the registry logger
func WithLogger(l *logging.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// WithMetrics enables lookup metrics
func WithMetrics(m *monitoring.Metrics) Option {
	return func(r *Registry) { r.metrics = m }
}

// New creates a registry searching roots in order
func New(roots []string, opts ...Option) *Registry {
	r := &Registry{
		roots:  append([]string(nil), roots...),
		caps:   make(map[string]Capabilities),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewFromLayout creates a registry over an installation layout
func NewFromLayout(l paths.Layout, opts ...Option) *Registry {
	base := []Option{WithBundleRoot(l.Bundles), WithBasePath(l.Base)}
	return New(l.Roots, append(base, opts...)...)
}

// Roots returns the search roots in priority order
func (r *Registry) Roots() []string {
	return append([]string(nil), r.roots...)
}

// Find returns the location of the named addon. The first root containing a
// directory with that name wins. Results, including absence, are cached.
func (r *Registry) Find(name string) (string, bool) {
	if e, ok := r.cached(name); ok {
		r.metrics.RecordLookup(true)
		return e.location, e.found
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.cached(name); ok {
		r.metrics.RecordLookup(true)
		return e.location, e.found
	}

	r.metrics.RecordLookup(false)
	e := r.probe(name)
	r.entries.Store(name, e)
	return e.location, e.found
}

func (r *Registry) cached(name string) (entry, bool) {
	v, ok := r.entries.Load(name)
	if !ok {
		return entry{}, false
	}
	return v.(entry), true
}

func (r *Registry) probe(name string) entry {
	if err := addon.ValidateName(name); err != nil {
		r.logger.Debug("Rejected addon name", zap.String("name", name), zap.Error(err))
		return entry{}
	}

	for _, root := range r.roots {
		r.probes.Add(1)
		r.metrics.RecordProbe()

		candidate := filepath.Join(root, name)
		if isDir(candidate) {
			r.logger.Debug("Addon located", zap.String("name", name), zap.String("location", candidate))
			return entry{location: candidate, found: true}
		}
	}
	return entry{}
}

// Probes returns how many filesystem probes lookups have performed
func (r *Registry) Probes() int64 {
	return r.probes.Load()
}

// IsInstalled reports whether the named addon can be found
func (r *Registry) IsInstalled(name string) bool {
	_, ok := r.Find(name)
	return ok
}

// IsBundle reports whether the named addon lives under the bundle root
func (r *Registry) IsBundle(name string) bool {
	loc, ok := r.Find(name)
	if !ok || r.bundleRoot == "" {
		return false
	}
	return filepath.Dir(loc) == filepath.Clean(r.bundleRoot)
}

// Identity resolves name to a full identity for the given unit type. The
// identity is returned even when the addon is not installed, with an empty
// location.
func (r *Registry) Identity(name string, typ addon.Type) addon.Identity {
	id := addon.Identity{Name: name, Type: typ}
	if loc, ok := r.Find(name); ok {
		id.Location = loc
		if r.basePath != "" {
			id.LogicalPath = paths.Logical(r.basePath, loc)
		} else {
			id.LogicalPath = filepath.ToSlash(loc)
		}
	}
	return id
}

// HasAPI reports whether the named addon ships an API manifest
func (r *Registry) HasAPI(name string) bool {
	loc, ok := r.Find(name)
	if !ok {
		return false
	}
	return isFile(paths.APIFile(loc, name))
}

// GetAPI returns the API object of the named addon
func (r *Registry) GetAPI(name string) (any, error) {
	loc, ok := r.Find(name)
	if !ok {
		return nil, &addon.NotInstalledError{Addon: name}
	}

	manifestPath := paths.APIFile(loc, name)
	if !isFile(manifestPath) {
		return nil, &addon.NoAPIError{Addon: name}
	}

	caps, _ := r.Capabilities(name)
	if caps.API == nil {
		return nil, &addon.NoAPIError{Addon: name}
	}

	manifest, err := document.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("read API manifest for %s: %w", name, err)
	}

	api, err := caps.API(r.Identity(name, addon.TypeAPI), manifest)
	if err != nil {
		return nil, fmt.Errorf("build API for %s: %w", name, err)
	}
	return api, nil
}

// Tasks returns the tasks handle of the named addon. It requires the
// tasks.<name>.yaml manifest and a registered tasks factory.
func (r *Registry) Tasks(name string) (any, bool, error) {
	loc, ok := r.Find(name)
	if !ok {
		return nil, false, nil
	}

	manifestPath := paths.TasksFile(loc, name)
	caps, _ := r.Capabilities(name)
	if caps.Tasks == nil || !isFile(manifestPath) {
		return nil, false, nil
	}

	manifest, err := document.ReadFile(manifestPath)
	if err != nil {
		return nil, false, fmt.Errorf("read tasks manifest for %s: %w", name, err)
	}

	tasks, err := caps.Tasks(r.Identity(name, addon.TypeTasks), manifest)
	if err != nil {
		return nil, false, fmt.Errorf("build tasks for %s: %w", name, err)
	}
	return tasks, true, nil
}

// Stats returns cache statistics
func (r *Registry) Stats() map[string]interface{} {
	installed, missing := 0, 0
	r.entries.Range(func(_, v interface{}) bool {
		if v.(entry).found {
			installed++
		} else {
			missing++
		}
		return true
	})

	r.capsMu.RLock()
	capabilities := len(r.caps)
	r.capsMu.RUnlock()

	return map[string]interface{}{
		"roots":        len(r.roots),
		"installed":    installed,
		"missing":      missing,
		"capabilities": capabilities,
		"probes":       r.Probes(),
	}
}

// Cached returns the names with a cached positive lookup, sorted
func (r *Registry) Cached() []string {
	var names []string
	r.entries.Range(func(k, v interface{}) bool {
		if v.(entry).found {
			names = append(names, k.(string))
		}
		return true
	})
	sort.Strings(names)
	return names
}

func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}

func isFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}
