package services

import (
	"github.com/GriffinCanCode/addonkit/internal/addon"
	"github.com/GriffinCanCode/addonkit/internal/addonconfig"
	"github.com/GriffinCanCode/addonkit/internal/assets"
	"github.com/GriffinCanCode/addonkit/internal/cache"
	"github.com/GriffinCanCode/addonkit/internal/ephemeral"
	"github.com/GriffinCanCode/addonkit/internal/logging"
	"github.com/GriffinCanCode/addonkit/internal/registry"
	"github.com/GriffinCanCode/addonkit/internal/tokens"
)

// Services is everything the framework offers one addon
type Services struct {
	Identity addon.Identity
	Log      *logging.AddonLogger
	Config   *addonconfig.Resolver
	Cache    *cache.Store
	Session  *ephemeral.Session
	Flash    *ephemeral.Flash
	Cookies  *ephemeral.Cookies
	Blink    *ephemeral.BlinkMap
	Tokens   *tokens.Store
	Assets   *assets.Resolver
	Addons   *Interop
}

// Fetch reads the addon's configuration; see addonconfig.Fetch
func (s *Services) Fetch(keys []string, def any, opts ...addonconfig.FetchOption) any {
	return s.Config.Fetch(keys, def, opts...)
}

// IsBundle reports whether this addon ships with the core
func (s *Services) IsBundle() bool {
	return s.Addons.registry.IsBundle(s.Identity.Name)
}

// Tasks returns this addon's tasks handle, if it registered one
func (s *Services) Tasks() (any, bool, error) {
	return s.Addons.Tasks(s.Identity.Name)
}

// RunHook runs one of this addon's hooks across every addon that handles it.
// The addon's name is the hook namespace.
func (s *Services) RunHook(hook string, mode registry.HookMode, value, data any) (any, error) {
	return s.Addons.registry.RunHook(s.Identity.Name, hook, mode, value, data)
}

// Interop lets one addon find and call another
type Interop struct {
	registry *registry.Registry
}

// IsInstalled reports whether the named addon is installed
func (i *Interop) IsInstalled(name string) bool {
	return i.registry.IsInstalled(name)
}

// HasAPI reports whether the named addon exposes an API
func (i *Interop) HasAPI(name string) bool {
	return i.registry.HasAPI(name)
}

// API returns the named addon's API object
func (i *Interop) API(name string) (any, error) {
	return i.registry.GetAPI(name)
}

// Tasks returns the named addon's tasks handle
func (i *Interop) Tasks(name string) (any, bool, error) {
	return i.registry.Tasks(name)
}
