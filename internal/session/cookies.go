package session

import (
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// GinJar is the CookieJar of one gin request
type GinJar struct {
	c        *gin.Context
	Path     string
	Domain   string
	Secure   bool
	HTTPOnly bool
}

var _ CookieJar = (*GinJar)(nil)

// NewGinJar wraps a gin context. Cookies are scoped to "/" and HTTP only.
func NewGinJar(c *gin.Context) *GinJar {
	return &GinJar{
		c:        c,
		Path:     "/",
		Secure:   c.Request.TLS != nil,
		HTTPOnly: true,
	}
}

// Cookies returns the request's cookies with values unescaped
func (j *GinJar) Cookies() map[string]string {
	out := make(map[string]string)
	for _, ck := range j.c.Request.Cookies() {
		value, err := url.QueryUnescape(ck.Value)
		if err != nil {
			value = ck.Value
		}
		out[ck.Name] = value
	}
	return out
}

// SetCookie writes a cookie onto the response
func (j *GinJar) SetCookie(name, value string, ttl time.Duration) {
	maxAge := int(ttl / time.Second)
	if ttl < 0 {
		maxAge = -1
	}
	j.c.SetSameSite(http.SameSiteLaxMode)
	j.c.SetCookie(name, value, maxAge, j.Path, j.Domain, j.Secure, j.HTTPOnly)
}

// WrittenCookie is a cookie recorded by MemoryJar
type WrittenCookie struct {
	Name  string
	Value string
	TTL   time.Duration
}

// MemoryJar is an in-memory CookieJar
type MemoryJar struct {
	mu      sync.Mutex
	inbound map[string]string
	written []WrittenCookie
}

var _ CookieJar = (*MemoryJar)(nil)

// NewMemoryJar creates a jar whose inbound cookies are inbound
func NewMemoryJar(inbound map[string]string) *MemoryJar {
	copied := make(map[string]string, len(inbound))
	for k, v := range inbound {
		copied[k] = v
	}
	return &MemoryJar{inbound: copied}
}

// Cookies returns the inbound cookies. Cookies written during the request
// are not included.
func (j *MemoryJar) Cookies() map[string]string {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make(map[string]string, len(j.inbound))
	for k, v := range j.inbound {
		out[k] = v
	}
	return out
}

// SetCookie records the write
func (j *MemoryJar) SetCookie(name, value string, ttl time.Duration) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.written = append(j.written, WrittenCookie{Name: name, Value: value, TTL: ttl})
}

// Written returns the cookies written so far
func (j *MemoryJar) Written() []WrittenCookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]WrittenCookie(nil), j.written...)
}
