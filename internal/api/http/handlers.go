package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/addonkit/internal/addon"
	"github.com/GriffinCanCode/addonkit/internal/api/middleware"
	"github.com/GriffinCanCode/addonkit/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/addonkit/internal/logging"
	"github.com/GriffinCanCode/addonkit/internal/services"
	"github.com/GriffinCanCode/addonkit/internal/session"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	factory  *services.Factory
	sessions *session.Manager
	metrics  *monitoring.Metrics
	logger   *logging.Logger
	started  time.Time
}

// NewHandlers creates a new handler set. metrics and logger may be nil.
func NewHandlers(factory *services.Factory, sessions *session.Manager, metrics *monitoring.Metrics, logger *logging.Logger) *Handlers {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handlers{
		factory:  factory,
		sessions: sessions,
		metrics:  metrics,
		logger:   logger,
		started:  time.Now(),
	}
}

// Register mounts the per-addon routes on group
func (h *Handlers) Register(group gin.IRoutes) {
	group.GET("", h.ListAddons)
	group.GET("/:name", h.GetAddon)
	group.GET("/:name/config", h.GetConfig)
	group.POST("/:name/tokens", h.CreateToken)
	group.POST("/:name/tokens/validate", h.ValidateToken)
	group.GET("/:name/cache", h.ListCache)
	group.DELETE("/:name/cache", h.PurgeCache)
	group.GET("/:name/assets/*file", h.ServeAsset)
}

// Health reports registry, session and metrics state
func (h *Handlers) Health(c *gin.Context) {
	body := gin.H{
		"status":   "healthy",
		"uptime":   time.Since(h.started).Round(time.Second).String(),
		"registry": h.factory.Registry().Stats(),
	}
	if h.sessions != nil {
		body["sessions"] = h.sessions.Stats()
	}
	if h.metrics != nil {
		body["metrics"] = h.metrics.Snapshot()
	}
	c.JSON(http.StatusOK, body)
}

// services builds the services of the addon named in the path. It writes
// the error response and returns nil when the addon cannot be served.
func (h *Handlers) services(c *gin.Context) *services.Services {
	name := c.Param("name")
	if err := addon.ValidateName(name); err != nil {
		h.fail(c, err)
		return nil
	}
	if !h.factory.Registry().IsInstalled(name) {
		h.fail(c, &addon.NotInstalledError{Addon: name})
		return nil
	}
	svc, err := h.factory.ForAddon(name, addon.TypePlugin, middleware.RequestScope(c))
	if err != nil {
		h.fail(c, err)
		return nil
	}
	return svc
}

// fail writes err with the status matching its kind
func (h *Handlers) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err),
		)
	}
	c.JSON(status, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, addon.ErrNotInstalled), errors.Is(err, addon.ErrNoAPI):
		return http.StatusNotFound
	case errors.Is(err, addon.ErrInvalidIdentifier),
		errors.Is(err, addon.ErrPathTraversal),
		errors.Is(err, doublestar.ErrBadPattern):
		return http.StatusBadRequest
	case errors.Is(err, addon.ErrConfigMissing):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
