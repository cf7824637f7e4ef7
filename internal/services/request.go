package services

import (
	"github.com/GriffinCanCode/addonkit/internal/ephemeral"
	"github.com/GriffinCanCode/addonkit/internal/session"
)

// Request is the state scoped to one request
type Request struct {
	Session session.Backend
	Cookies session.CookieJar
	Blink   *ephemeral.BlinkMap

	cookieCaches *ephemeral.CookieCaches
}

// NewRequest creates request scope over a session and cookie jar. Nil
// arguments get detached in-memory stand-ins.
func NewRequest(backend session.Backend, jar session.CookieJar) *Request {
	if backend == nil {
		backend = session.New()
	}
	if jar == nil {
		jar = session.NewMemoryJar(nil)
	}
	return &Request{
		Session:      backend,
		Cookies:      jar,
		Blink:        ephemeral.NewBlinkMap(),
		cookieCaches: ephemeral.NewCookieCaches(),
	}
}

// CookieCache returns the request's cookie cache for addon
func (r *Request) CookieCache(addon string) *ephemeral.CookieCache {
	return r.cookieCaches.For(addon)
}
