package services

import (
	"github.com/GriffinCanCode/addonkit/internal/addon"
	"github.com/GriffinCanCode/addonkit/internal/addonconfig"
	"github.com/GriffinCanCode/addonkit/internal/assets"
	"github.com/GriffinCanCode/addonkit/internal/cache"
	"github.com/GriffinCanCode/addonkit/internal/ephemeral"
	"github.com/GriffinCanCode/addonkit/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/addonkit/internal/logging"
	"github.com/GriffinCanCode/addonkit/internal/registry"
	"github.com/GriffinCanCode/addonkit/internal/shared/paths"
	"github.com/GriffinCanCode/addonkit/internal/tokens"
)

// Factory builds per-addon service bundles
type Factory struct {
	registry *registry.Registry
	layout   paths.Layout
	siteRoot string
	logger   *logging.Logger
	metrics  *monitoring.Metrics
}

// NewFactory creates a factory. logger and metrics may be nil.
func NewFactory(reg *registry.Registry, layout paths.Layout, siteRoot string, logger *logging.Logger, metrics *monitoring.Metrics) *Factory {
	if logger == nil {
		logger = logging.NewNop()
	}
	if siteRoot == "" {
		siteRoot = "/"
	}
	return &Factory{
		registry: reg,
		layout:   layout,
		siteRoot: siteRoot,
		logger:   logger,
		metrics:  metrics,
	}
}

// Registry returns the addon registry
func (f *Factory) Registry() *registry.Registry {
	return f.registry
}

// NewIdentity resolves a declared identifier such as "Plugin_karma" into a
// full identity.
func (f *Factory) NewIdentity(declared string) (addon.Identity, error) {
	name, typ, err := addon.ParseIdentifier(declared)
	if err != nil {
		return addon.Identity{}, err
	}
	return f.registry.Identity(name, typ), nil
}

// ForDeclared builds services for a declared identifier
func (f *Factory) ForDeclared(declared string, req *Request) (*Services, error) {
	id, err := f.NewIdentity(declared)
	if err != nil {
		return nil, err
	}
	return f.For(id, req), nil
}

// ForAddon builds services for an addon by name and unit type
func (f *Factory) ForAddon(name string, typ addon.Type, req *Request) (*Services, error) {
	if err := addon.ValidateName(name); err != nil {
		return nil, err
	}
	return f.For(f.registry.Identity(name, typ), req), nil
}

// For builds the services of id within req. A nil req gets a detached
// in-memory request scope.
func (f *Factory) For(id addon.Identity, req *Request) *Services {
	if req == nil {
		req = NewRequest(nil, nil)
	}
	log := f.logger.ForAddon(id.Type.String(), id.Name)

	return &Services{
		Identity: id,
		Log:      log,
		Config:   addonconfig.New(id, f.layout.Config, log),
		Cache: cache.New(f.layout.Cache, id.Name,
			cache.WithLogger(log),
			cache.WithMetrics(f.metrics),
		),
		Session: ephemeral.NewSession(id.Name, req.Session),
		Flash:   ephemeral.NewFlash(id.Name, req.Session),
		Cookies: ephemeral.NewCookies(id.Name, req.Cookies, req.CookieCache(id.Name)),
		Blink:   req.Blink,
		Tokens:  tokens.New(id.Name, req.Session, tokens.WithMetrics(f.metrics)),
		Assets:  assets.New(id, f.layout.Bundles, f.siteRoot, log),
		Addons:  &Interop{registry: f.registry},
	}
}
