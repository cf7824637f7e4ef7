// Package addonconfig resolves an addon's effective configuration from its
// bundled defaults and the site's override documents.
package addonconfig

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/GriffinCanCode/addonkit/internal/addon"
	"github.com/GriffinCanCode/addonkit/internal/logging"
	"github.com/GriffinCanCode/addonkit/internal/shared/document"
	"github.com/GriffinCanCode/addonkit/internal/shared/paths"
	"go.uber.org/zap"
)

// Mapping is a decoded configuration document
type Mapping = document.Mapping

// Resolver computes the configuration of one addon
type Resolver struct {
	identity addon.Identity
	paths    paths.Addon
	log      *logging.AddonLogger

	once   sync.Once
	config Mapping
}

// New creates a resolver for id. configRoot is the installation's config
// directory.
func New(id addon.Identity, configRoot string, log *logging.AddonLogger) *Resolver {
	if log == nil {
		log = logging.NewNop().ForAddon(id.Type.String(), id.Name)
	}
	layout := paths.Layout{Config: configRoot}
	return &Resolver{
		identity: id,
		paths:    layout.Addon(id.Name),
		log:      log,
	}
}

// Config returns the addon's effective configuration: its default.yaml
// overlaid by the first existing override document. Override keys replace
// default keys wholesale. The result is computed once per Resolver and each
// call returns a deep copy of it.
func (r *Resolver) Config() Mapping {
	r.once.Do(func() {
		defaults := Mapping{}
		if r.identity.Installed() {
			defaults = r.readOptional(paths.DefaultConfigFile(r.identity.Location))
		}

		var overrides Mapping
		for _, candidate := range r.paths.OverrideFiles() {
			if fileExists(candidate) {
				overrides = r.readOptional(candidate)
				break
			}
		}

		r.config = document.Merge(defaults, overrides)
	})
	return r.config.Clone()
}

// readOptional decodes path, treating a missing or unreadable document as
// empty.
func (r *Resolver) readOptional(path string) Mapping {
	m, err := document.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			r.log.Error("Could not parse config document", zap.String("path", path), zap.Error(err))
		}
		return Mapping{}
	}
	return m
}

// ConfigPath returns the addon's config directory, preferring the bundles
// tree over the add-ons tree.
func (r *Resolver) ConfigPath() (string, bool) {
	for _, dir := range r.paths.ConfigDirs() {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir, true
		}
	}
	return "", false
}

// LoadConfigFile loads a named document from the addon's config directory.
// Names without a .yaml, .yml or .toml extension get .yaml appended. A missing
// file yields an empty mapping, a debug entry when logOnMissing is set, and a
// ConfigMissingError when throwOnMissing is set.
func (r *Resolver) LoadConfigFile(path string, logOnMissing, throwOnMissing bool) (Mapping, error) {
	path = strings.TrimSpace(path)
	if strings.Contains(path, "..") {
		r.log.Error("Config path rejected", zap.String("path", path))
		return nil, &addon.PathTraversalError{Path: path}
	}
	if !hasDocumentExt(path) {
		path += ".yaml"
	}

	if dir, ok := r.ConfigPath(); ok {
		full := filepath.Join(dir, filepath.FromSlash(path))
		if fileExists(full) {
			return document.ReadFile(full)
		}
	}

	if logOnMissing {
		r.log.Debug("Could not load config, file does not exist", zap.String("path", path))
	}
	if throwOnMissing {
		return nil, &addon.ConfigMissingError{Addon: r.identity.Name, Path: path}
	}
	return Mapping{}, nil
}

// Fetch looks up keys in the addon's configuration. See the package level
// Fetch for the resolution rules.
func (r *Resolver) Fetch(keys []string, def any, opts ...FetchOption) any {
	return Fetch(r.Config(), keys, def, opts...)
}

func hasDocumentExt(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".toml":
		return true
	}
	return false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
