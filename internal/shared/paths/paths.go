package paths

import (
	"path/filepath"
	"strings"
)

// Defaults relative to the installation base path
const (
	AddonsDir  = "_add-ons"
	BundlesDir = "_app/core/bundles"
	ConfigDir  = "_config"
	CacheDir   = "_cache/_add-ons"
)

// Config subdirectories
const (
	ConfigBundles = "bundles"
	ConfigAddons  = "add-ons"
)

// DefaultConfigName is the defaults document inside an addon directory
const DefaultConfigName = "default.yaml"

// Layout holds the resolved directories of one installation.
type Layout struct {
	Base    string
	Roots   []string
	Bundles string
	Config  string
	Cache   string
}

// NewLayout returns the default layout under base. The bundle root is
// searched before the addon root.
func NewLayout(base string) Layout {
	bundles := filepath.Join(base, BundlesDir)
	return Layout{
		Base:    base,
		Roots:   []string{bundles, filepath.Join(base, AddonsDir)},
		Bundles: bundles,
		Config:  filepath.Join(base, ConfigDir),
		Cache:   filepath.Join(base, CacheDir),
	}
}

// Resolve joins p onto base unless p is already absolute.
func Resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// Addon returns addon-specific paths
func (l Layout) Addon(name string) Addon {
	return Addon{Name: name, layout: l}
}

// Addon derives the per-addon directories from a layout
type Addon struct {
	Name   string
	layout Layout
}

// CacheDir returns the addon's cache namespace
func (a Addon) CacheDir() string {
	return filepath.Join(a.layout.Cache, a.Name)
}

// BundleDir returns where the addon would live if it were bundled
func (a Addon) BundleDir() string {
	return filepath.Join(a.layout.Bundles, a.Name)
}

// ConfigDirs returns the per-addon config directories in priority order
func (a Addon) ConfigDirs() []string {
	return []string{
		filepath.Join(a.layout.Config, ConfigBundles, a.Name),
		filepath.Join(a.layout.Config, ConfigAddons, a.Name),
	}
}

// OverrideFiles returns the override document candidates in priority order
func (a Addon) OverrideFiles() []string {
	file := a.Name + ".yaml"
	return []string{
		filepath.Join(a.layout.Config, ConfigBundles, a.Name, file),
		filepath.Join(a.layout.Config, ConfigAddons, a.Name, file),
		filepath.Join(a.layout.Config, ConfigAddons, file),
	}
}

// DefaultConfigFile returns the defaults document for an addon location
func DefaultConfigFile(location string) string {
	return filepath.Join(location, DefaultConfigName)
}

// APIFile returns the API manifest path for an addon location
func APIFile(location, name string) string {
	return filepath.Join(location, "api."+name+".yaml")
}

// TasksFile returns the tasks manifest path for an addon location
func TasksFile(location, name string) string {
	return filepath.Join(location, "tasks."+name+".yaml")
}

// Logical returns location relative to base as a slash separated path.
// Locations outside base are returned unchanged in slash form.
func Logical(base, location string) string {
	rel, err := filepath.Rel(base, location)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(location)
	}
	return filepath.ToSlash(rel)
}

// IsWithin reports whether p is root or below it
func IsWithin(root, p string) bool {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
