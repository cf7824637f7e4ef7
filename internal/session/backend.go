package session

import "time"

// Backend is the session state one request sees. Values are addressed by a
// namespace, an addon name and a key. Flash values live for the current and
// the next request.
type Backend interface {
	Get(namespace, addon, key string, def any) any
	Set(namespace, addon, key string, value any)
	Exists(namespace, addon, key string) bool
	Delete(namespace, addon, key string)
	Destroy(namespace, addon string)

	// Update runs fn with the current value under the session lock. When fn
	// returns write=true the returned value is stored.
	Update(namespace, addon, key string, fn func(current any, ok bool) (next any, write bool))

	GetFlash(key string, def any) any
	SetFlash(key string, value any)
	FlashExists(key string) bool
	DeleteFlash(key string)
	FlashKeys() []string
}

// CookieJar reads the cookies that arrived with a request and writes
// cookies onto its response.
type CookieJar interface {
	// Cookies returns the inbound cookies by name
	Cookies() map[string]string

	// SetCookie writes a cookie; a negative ttl expires it
	SetCookie(name, value string, ttl time.Duration)
}
