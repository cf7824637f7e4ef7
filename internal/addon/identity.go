package addon

import (
	"fmt"
	"strings"
)

// Type is the kind of implementing unit an addon exposes.
type Type string

const (
	TypePlugin    Type = "plugin"
	TypeFieldtype Type = "fieldtype"
	TypeHooks     Type = "hooks"
	TypeTasks     Type = "tasks"
	TypeAPI       Type = "api"
	TypeModule    Type = "module"
)

// Types lists every known addon type.
var Types = []Type{TypePlugin, TypeFieldtype, TypeHooks, TypeTasks, TypeAPI, TypeModule}

// Valid reports whether t is a known addon type.
func (t Type) Valid() bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

func (t Type) String() string { return string(t) }

// Identity names an addon and where it lives. It is immutable once built.
type Identity struct {
	// Name is the addon's unique short name.
	Name string

	// Type is the kind of unit requesting services.
	Type Type

	// Location is the addon's directory on disk. Empty when not installed.
	Location string

	// LogicalPath is the addon directory relative to the site base path,
	// slash separated, used to build public asset URLs.
	LogicalPath string
}

// Installed reports whether the identity was resolved to a directory.
func (id Identity) Installed() bool {
	return id.Location != ""
}

func (id Identity) String() string {
	return fmt.Sprintf("%s:%s", id.Type, id.Name)
}

// ParseIdentifier splits a declared identifier of the form "Type_name".
// The type prefix is lower-cased; the name is everything after the first
// underscore and is kept as written.
func ParseIdentifier(declared string) (string, Type, error) {
	declared = strings.TrimSpace(declared)
	idx := strings.Index(declared, "_")
	if idx <= 0 || idx == len(declared)-1 {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, declared)
	}

	typ := Type(strings.ToLower(declared[:idx]))
	name := declared[idx+1:]
	if !typ.Valid() {
		return "", "", fmt.Errorf("%w: unknown type %q", ErrInvalidIdentifier, typ)
	}
	if err := ValidateName(name); err != nil {
		return "", "", err
	}
	return name, typ, nil
}

// KeySeparator joins an addon name to a key in flat key spaces such as
// cookie names and flash keys. Valid names never contain it and never end
// in an underscore, so "<name>__" prefixes of two addons never overlap.
const KeySeparator = "__"

// ValidateName checks that an addon name is safe to use as a single path
// segment and as a key prefix.
func ValidateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidIdentifier)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidIdentifier, name)
	case strings.Contains(name, ".."):
		return &PathTraversalError{Path: name}
	case strings.Contains(name, KeySeparator), strings.HasSuffix(name, "_"):
		return fmt.Errorf("%w: %q contains %q or ends in '_'", ErrInvalidIdentifier, name, KeySeparator)
	}
	return nil
}

// KeyPrefix returns the prefix namespacing name's keys in a flat key space
func KeyPrefix(name string) string {
	return name + KeySeparator
}
