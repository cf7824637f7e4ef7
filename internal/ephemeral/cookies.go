package ephemeral

import (
	"strings"
	"sync"
	"time"

	"github.com/GriffinCanCode/addonkit/internal/addon"
	"github.com/GriffinCanCode/addonkit/internal/session"
)

// DefaultCookieTTL applies when Set is given no lifetime
const DefaultCookieTTL = 24 * time.Hour

// CookieCache holds one addon's cookies for the duration of a request.
// Inbound cookies are loaded on first use; writes are mirrored into it so
// later reads in the same request see them.
type CookieCache struct {
	mu     sync.Mutex
	loaded bool
	values map[string]string
}

// CookieCaches hands out one CookieCache per addon for a request
type CookieCaches struct {
	mu     sync.Mutex
	caches map[string]*CookieCache
}

// NewCookieCaches creates an empty per-request cache set
func NewCookieCaches() *CookieCaches {
	return &CookieCaches{caches: make(map[string]*CookieCache)}
}

// For returns the cache of addon, creating it on first use
func (c *CookieCaches) For(addon string) *CookieCache {
	c.mu.Lock()
	defer c.mu.Unlock()
	cache, ok := c.caches[addon]
	if !ok {
		cache = &CookieCache{}
		c.caches[addon] = cache
	}
	return cache
}

// Cookies is an addon's cookie store
type Cookies struct {
	addon  string
	prefix string
	jar    session.CookieJar
	cache  *CookieCache
}

// NewCookies creates the cookie store of name. Cookies are named
// "<name>__<key>"; name must pass addon.ValidateName. A nil cache gets a
// private one.
func NewCookies(name string, jar session.CookieJar, cache *CookieCache) *Cookies {
	if cache == nil {
		cache = &CookieCache{}
	}
	return &Cookies{addon: name, prefix: addon.KeyPrefix(name), jar: jar, cache: cache}
}

// load fills the cache from the inbound cookies carrying this addon's prefix.
// Callers hold cache.mu.
func (c *Cookies) load() {
	if c.cache.loaded {
		return
	}
	c.cache.values = make(map[string]string)
	for name, value := range c.jar.Cookies() {
		if key, ok := strings.CutPrefix(name, c.prefix); ok && key != "" {
			c.cache.values[key] = value
		}
	}
	c.cache.loaded = true
}

// Get returns the cookie value under key, or def
func (c *Cookies) Get(key, def string) string {
	c.cache.mu.Lock()
	defer c.cache.mu.Unlock()
	c.load()
	if v, ok := c.cache.values[key]; ok {
		return v
	}
	return def
}

// Exists reports whether the cookie is set
func (c *Cookies) Exists(key string) bool {
	c.cache.mu.Lock()
	defer c.cache.mu.Unlock()
	c.load()
	_, ok := c.cache.values[key]
	return ok
}

// Set writes a cookie. A zero ttl means DefaultCookieTTL.
func (c *Cookies) Set(key, value string, ttl time.Duration) {
	if ttl == 0 {
		ttl = DefaultCookieTTL
	}
	c.cache.mu.Lock()
	defer c.cache.mu.Unlock()
	c.load()

	c.jar.SetCookie(c.prefix+key, value, ttl)
	if ttl < 0 {
		delete(c.cache.values, key)
		return
	}
	c.cache.values[key] = value
}

// Delete expires a cookie
func (c *Cookies) Delete(key string) {
	c.cache.mu.Lock()
	defer c.cache.mu.Unlock()
	c.load()

	c.jar.SetCookie(c.prefix+key, "", -DefaultCookieTTL)
	delete(c.cache.values, key)
}

// Destroy expires every cookie of this addon
func (c *Cookies) Destroy() {
	c.cache.mu.Lock()
	defer c.cache.mu.Unlock()
	c.load()

	for key := range c.cache.values {
		c.jar.SetCookie(c.prefix+key, "", -DefaultCookieTTL)
	}
	c.cache.values = make(map[string]string)
}
