package registry

import (
	"errors"
	"fmt"

	"github.com/GriffinCanCode/addonkit/internal/addon"
	"go.uber.org/zap"
)

// ErrUnknownHookMode is returned by RunHook for a mode it does not know
var ErrUnknownHookMode = errors.New("unknown hook mode")

// HookFunc handles one hook. value is the pass-through value and data the
// caller's payload.
type HookFunc func(value, data any) (any, error)

// HooksFactory builds an addon's hook handlers, keyed "<namespace>:<hook>"
type HooksFactory func(id addon.Identity) (map[string]HookFunc, error)

// HookMode selects how handler results are combined
type HookMode string

const (
	// HookCall runs every handler and returns the value unchanged. The
	// empty mode means HookCall.
	HookCall HookMode = "call"
	// HookReplace feeds each handler's result to the next as its value
	HookReplace HookMode = "replace"
	// HookCumulative collects every non-nil result into a []any
	HookCumulative HookMode = "cumulative"
)

// HookKey joins a namespace and hook name the way handler maps are keyed
func HookKey(namespace, hook string) string {
	return namespace + ":" + hook
}

// RunHook runs namespace:hook on every installed addon that registered
// hooks, in name order.
func (r *Registry) RunHook(namespace, hook string, mode HookMode, value, data any) (any, error) {
	if mode == "" {
		mode = HookCall
	}
	switch mode {
	case HookCall, HookReplace, HookCumulative:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownHookMode, mode)
	}

	key := HookKey(namespace, hook)
	var collected []any

	for _, name := range r.Registered() {
		handlers, err := r.hooksFor(name)
		if err != nil {
			return nil, err
		}
		fn, ok := handlers[key]
		if !ok {
			continue
		}

		result, err := fn(value, data)
		if err != nil {
			return nil, fmt.Errorf("hook %s in %s: %w", key, name, err)
		}
		r.logger.Debug("Ran hook",
			zap.String("hook", key),
			zap.String("addon", name),
			zap.String("mode", string(mode)),
		)

		switch mode {
		case HookReplace:
			value = result
		case HookCumulative:
			if result != nil {
				collected = append(collected, result)
			}
		}
	}

	if mode == HookCumulative {
		return collected, nil
	}
	return value, nil
}

// hooksFor builds and memoises the named addon's handlers. Addons without a
// hooks factory, or that are not installed, have none.
func (r *Registry) hooksFor(name string) (map[string]HookFunc, error) {
	if cached, ok := r.hooks.Load(name); ok {
		return cached.(map[string]HookFunc), nil
	}

	caps, _ := r.Capabilities(name)
	if caps.Hooks == nil || !r.IsInstalled(name) {
		return nil, nil
	}

	handlers, err := caps.Hooks(r.Identity(name, addon.TypeHooks))
	if err != nil {
		return nil, fmt.Errorf("build hooks for %s: %w", name, err)
	}
	if handlers == nil {
		handlers = map[string]HookFunc{}
	}
	actual, _ := r.hooks.LoadOrStore(name, handlers)
	return actual.(map[string]HookFunc), nil
}
