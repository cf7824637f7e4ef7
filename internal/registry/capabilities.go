package registry

import (
	"errors"
	"fmt"
	"sort"

	"github.com/GriffinCanCode/addonkit/internal/addon"
	"github.com/GriffinCanCode/addonkit/internal/shared/document"
)

// ErrDuplicateCapability is returned when an addon registers twice
var ErrDuplicateCapability = errors.New("capabilities already registered")

// APIFactory builds the API object an addon exposes to other addons
type APIFactory func(id addon.Identity, manifest document.Mapping) (any, error)

// TasksFactory builds an addon's scheduled tasks handle
type TasksFactory func(id addon.Identity, manifest document.Mapping) (any, error)

// Capabilities are the factories one addon contributes
type Capabilities struct {
	API   APIFactory
	Tasks TasksFactory
	Hooks HooksFactory
}

// Register records the capabilities of an addon. Each name may be
// registered once.
func (r *Registry) Register(name string, caps Capabilities) error {
	if err := addon.ValidateName(name); err != nil {
		return err
	}
	if caps.API == nil && caps.Tasks == nil && caps.Hooks == nil {
		return fmt.Errorf("addon %s: no capabilities given", name)
	}

	r.capsMu.Lock()
	defer r.capsMu.Unlock()

	if _, exists := r.caps[name]; exists {
		return fmt.Errorf("addon %s: %w", name, ErrDuplicateCapability)
	}
	r.caps[name] = caps
	return nil
}

// MustRegister is Register that panics on error, for use in startup code
func (r *Registry) MustRegister(name string, caps Capabilities) {
	if err := r.Register(name, caps); err != nil {
		panic(err)
	}
}

// Capabilities returns what the named addon registered
func (r *Registry) Capabilities(name string) (Capabilities, bool) {
	r.capsMu.RLock()
	defer r.capsMu.RUnlock()
	caps, ok := r.caps[name]
	return caps, ok
}

// Registered returns the names in the capability table, sorted
func (r *Registry) Registered() []string {
	r.capsMu.RLock()
	defer r.capsMu.RUnlock()

	names := make([]string, 0, len(r.caps))
	for name := range r.caps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
