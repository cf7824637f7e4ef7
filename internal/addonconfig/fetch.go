package addonconfig

import (
	"fmt"
	"strings"
)

// falsy holds the lower-cased renderings that read as false
var falsy = map[string]bool{
	"no":    true,
	"false": true,
	"0":     true,
	"":      true,
	"-1":    true,
}

type fetchOptions struct {
	validate func(any) bool
	asBool   bool
	keepCase bool
}

// FetchOption tunes Fetch
type FetchOption func(*fetchOptions)

// WithValidator skips candidates the predicate rejects
func WithValidator(fn func(any) bool) FetchOption {
	return func(o *fetchOptions) { o.validate = fn }
}

// AsBool converts the accepted value to a boolean
func AsBool() FetchOption {
	return func(o *fetchOptions) { o.asBool = true }
}

// KeepCase disables lower-casing of string values
func KeepCase() FetchOption {
	return func(o *fetchOptions) { o.keepCase = true }
}

// Fetch returns the value of the first key in keys that is present and not
// nil in cfg. Strings are lower-cased unless KeepCase is given, recursively
// through lists and nested mappings. A candidate rejected by the validator is
// skipped and the next key tried. With AsBool the accepted value becomes
// false when it renders to "no", "false", "0", "" or "-1". When nothing
// matches, def is returned unchanged.
func Fetch(cfg Mapping, keys []string, def any, opts ...FetchOption) any {
	var o fetchOptions
	for _, opt := range opts {
		opt(&o)
	}

	for _, key := range keys {
		value, ok := cfg.Lookup(key)
		if !ok {
			continue
		}
		if !o.keepCase {
			value = lower(value)
		}
		if o.validate != nil && !o.validate(value) {
			continue
		}
		if o.asBool {
			return Truthy(value)
		}
		return value
	}
	return def
}

// Truthy reports whether v reads as true under the yes/no convention
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return !falsy[strings.ToLower(t)]
	default:
		return !falsy[strings.ToLower(fmt.Sprint(t))]
	}
}

func lower(v any) any {
	switch t := v.(type) {
	case string:
		return strings.ToLower(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = lower(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = lower(item)
		}
		return out
	case Mapping:
		out := make(Mapping, len(t))
		for k, item := range t {
			out[k] = lower(item)
		}
		return out
	default:
		return v
	}
}
