package addon

import (
	"errors"
	"fmt"
)

// Sentinel errors. Typed errors below unwrap to these.
var (
	ErrNotInstalled      = errors.New("addon not installed")
	ErrNoAPI             = errors.New("addon has no API")
	ErrConfigMissing     = errors.New("config file missing")
	ErrPathTraversal     = errors.New("path traversal rejected")
	ErrInvalidIdentifier = errors.New("invalid addon identifier")
)

// NotInstalledError is returned when an addon name cannot be found under any
// addon root.
type NotInstalledError struct {
	Addon string
}

func (e *NotInstalledError) Error() string {
	return fmt.Sprintf("the %s addon is not installed", e.Addon)
}

func (e *NotInstalledError) Unwrap() error { return ErrNotInstalled }

// NoAPIError is returned when an installed addon exposes no API.
type NoAPIError struct {
	Addon string
}

func (e *NoAPIError) Error() string {
	return fmt.Sprintf("the %s addon has no API", e.Addon)
}

func (e *NoAPIError) Unwrap() error { return ErrNoAPI }

// ConfigMissingError is returned when a required config file does not exist.
type ConfigMissingError struct {
	Addon string
	Path  string
}

func (e *ConfigMissingError) Error() string {
	return fmt.Sprintf("config file %q for addon %s does not exist", e.Path, e.Addon)
}

func (e *ConfigMissingError) Unwrap() error { return ErrConfigMissing }

// PathTraversalError is returned when a path contains "..".
type PathTraversalError struct {
	Path string
}

func (e *PathTraversalError) Error() string {
	return fmt.Sprintf("path %q cannot contain '..'", e.Path)
}

func (e *PathTraversalError) Unwrap() error { return ErrPathTraversal }
