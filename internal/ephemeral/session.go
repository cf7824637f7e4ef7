package ephemeral

import (
	"strings"

	"github.com/GriffinCanCode/addonkit/internal/addon"
	"github.com/GriffinCanCode/addonkit/internal/session"
)

// SessionNamespace is the session namespace addon data is stored under
const SessionNamespace = "_addon_data"

// Session is an addon's view of the visitor session
type Session struct {
	addon   string
	backend session.Backend
}

// NewSession creates the session store of addon
func NewSession(addon string, backend session.Backend) *Session {
	return &Session{addon: addon, backend: backend}
}

// Get returns the value stored under key, or def
func (s *Session) Get(key string, def any) any {
	return s.backend.Get(SessionNamespace, s.addon, key, def)
}

// Set stores value under key
func (s *Session) Set(key string, value any) {
	s.backend.Set(SessionNamespace, s.addon, key, value)
}

// Exists reports whether key is set
func (s *Session) Exists(key string) bool {
	return s.backend.Exists(SessionNamespace, s.addon, key)
}

// Delete removes key
func (s *Session) Delete(key string) {
	s.backend.Delete(SessionNamespace, s.addon, key)
}

// Destroy removes everything this addon stored in the session
func (s *Session) Destroy() {
	s.backend.Destroy(SessionNamespace, s.addon)
}

// Flash is an addon's flash store: values survive into the next request
type Flash struct {
	prefix  string
	backend session.Backend
}

// FlashPrefix starts every addon flash key
const FlashPrefix = "_addon_"

// NewFlash creates the flash store of name. Keys are stored as
// "_addon_<name>__<key>"; name must pass addon.ValidateName.
func NewFlash(name string, backend session.Backend) *Flash {
	return &Flash{prefix: FlashPrefix + addon.KeyPrefix(name), backend: backend}
}

func (f *Flash) key(k string) string { return f.prefix + k }

// Get returns the flash value under key, or def
func (f *Flash) Get(key string, def any) any {
	return f.backend.GetFlash(f.key(key), def)
}

// Set stores a flash value
func (f *Flash) Set(key string, value any) {
	f.backend.SetFlash(f.key(key), value)
}

// Exists reports whether a flash value is set
func (f *Flash) Exists(key string) bool {
	return f.backend.FlashExists(f.key(key))
}

// Delete removes a flash value
func (f *Flash) Delete(key string) {
	f.backend.DeleteFlash(f.key(key))
}

// Destroy removes every flash value of this addon
func (f *Flash) Destroy() {
	for _, k := range f.backend.FlashKeys() {
		if strings.HasPrefix(k, f.prefix) {
			f.backend.DeleteFlash(k)
		}
	}
}
