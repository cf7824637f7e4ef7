package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/addonkit/internal/services"
	"github.com/GriffinCanCode/addonkit/internal/session"
	"github.com/GriffinCanCode/addonkit/internal/shared/id"
)

// scopeKey is the gin context key holding the request scope
const scopeKey = "addon_request_scope"

// SessionConfig configures the session middleware
type SessionConfig struct {
	CookieName string
	TTL        time.Duration
}

// Session starts the visitor session named by the session cookie and
// attaches a fresh request scope to the context. The cookie is written on
// every request so its expiry follows the server side idle timeout.
func Session(manager *session.Manager, cfg SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		jar := session.NewGinJar(c)
		sid := id.SessionID(jar.Cookies()[cfg.CookieName])

		sess, _ := manager.Start(sid)
		jar.SetCookie(cfg.CookieName, string(sess.ID()), cfg.TTL)

		c.Set(scopeKey, services.NewRequest(sess, jar))
		c.Next()
	}
}

// RequestScope returns the scope attached by Session. Outside the
// middleware a detached scope is returned so handlers never see nil.
func RequestScope(c *gin.Context) *services.Request {
	if v, ok := c.Get(scopeKey); ok {
		if req, ok := v.(*services.Request); ok {
			return req
		}
	}
	req := services.NewRequest(nil, nil)
	c.Set(scopeKey, req)
	return req
}
