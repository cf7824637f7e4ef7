package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	handlers "github.com/GriffinCanCode/addonkit/internal/api/http"
	"github.com/GriffinCanCode/addonkit/internal/api/middleware"
	"github.com/GriffinCanCode/addonkit/internal/infrastructure/config"
	"github.com/GriffinCanCode/addonkit/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/addonkit/internal/logging"
	"github.com/GriffinCanCode/addonkit/internal/registry"
	"github.com/GriffinCanCode/addonkit/internal/services"
	"github.com/GriffinCanCode/addonkit/internal/session"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router   *gin.Engine
	registry *registry.Registry
	factory  *services.Factory
	sessions *session.Manager
	logger   *logging.Logger
	config   *config.Config
	metrics  *monitoring.Metrics

	stopOnce sync.Once
	stop     chan struct{}
}

// Option configures a Server
type Option func(*serverOptions)

type serverOptions struct {
	logger  *logging.Logger
	metrics *monitoring.Metrics
}

// WithLogger replaces the logger built from the configuration
func WithLogger(l *logging.Logger) Option {
	return func(o *serverOptions) { o.logger = l }
}

// WithMetrics replaces the metrics set built at startup
func WithMetrics(m *monitoring.Metrics) Option {
	return func(o *serverOptions) { o.metrics = m }
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, opts ...Option) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("server: nil config")
	}
	o := serverOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		logger = logging.FromConfig(cfg.Logging.Level, cfg.Logging.Development)
	}
	metrics := o.metrics
	if metrics == nil {
		metrics = monitoring.NewMetrics(nil)
	}

	layout := cfg.Addons.Layout()
	logger.Info("Initializing addon server",
		zap.String("port", cfg.Server.Port),
		zap.String("base_path", layout.Base),
		zap.Strings("roots", layout.Roots),
	)

	reg := registry.NewFromLayout(layout,
		registry.WithLogger(logger.Named("registry")),
		registry.WithMetrics(metrics),
	)
	if entries, err := reg.Discover(); err != nil {
		logger.Warn("Addon discovery failed", zap.Error(err))
	} else {
		logger.Info("Addons discovered", zap.Int("count", len(entries)))
	}

	sessions := session.NewManager(cfg.Session.TTL, session.WithMetrics(metrics))
	factory := services.NewFactory(reg, layout, cfg.Addons.SiteRoot, logger, metrics)

	s := &Server{
		registry: reg,
		factory:  factory,
		sessions: sessions,
		logger:   logger,
		config:   cfg,
		metrics:  metrics,
		stop:     make(chan struct{}),
	}
	s.router = s.routes()

	if cfg.Session.SweepInterval > 0 {
		go s.sweepSessions(cfg.Session.SweepInterval)
	}

	logger.Info("Server initialized successfully")
	return s, nil
}

func (s *Server) routes() *gin.Engine {
	if !s.config.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(s.logger.Named("http")))
	router.Use(monitoring.Middleware(s.metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if rl := s.config.RateLimit; rl.Enabled {
		s.logger.Info("Rate limiting enabled",
			zap.Int("rps", rl.RequestsPerSecond),
			zap.Int("burst", rl.Burst),
			zap.Bool("global", rl.Global),
		)
		limit := middleware.RateLimitConfig{
			RequestsPerSecond: rl.RequestsPerSecond,
			Burst:             rl.Burst,
		}
		if rl.Global {
			router.Use(middleware.GlobalRateLimit(limit))
		} else {
			router.Use(middleware.RateLimit(limit))
		}
	}

	h := handlers.NewHandlers(s.factory, s.sessions, s.metrics, s.logger)
	router.GET("/health", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{})))

	addons := router.Group(s.config.Addons.URLPrefix)
	addons.Use(middleware.Session(s.sessions, middleware.SessionConfig{
		CookieName: s.config.Session.CookieName,
		TTL:        s.config.Session.TTL,
	}))
	h.Register(addons)

	return router
}

// sweepSessions drops expired sessions until the server is closed
func (s *Server) sweepSessions(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if n := s.sessions.Sweep(); n > 0 {
				s.logger.Debug("Expired sessions removed", zap.Int("count", n))
			}
		}
	}
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	return s.router
}

// Registry returns the addon registry so embedders can register
// capabilities before serving.
func (s *Server) Registry() *registry.Registry {
	return s.registry
}

// Factory returns the contextual service factory
func (s *Server) Factory() *services.Factory {
	return s.factory
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	addr := net.JoinHostPort(s.config.Server.Host, s.config.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	timeout := s.config.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("Shutting down HTTP server", zap.Duration("timeout", timeout))
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close stops background work and flushes the logger
func (s *Server) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	s.logger.Info("Server closed", zap.Any("registry", s.registry.Stats()))
	_ = s.logger.Sync()
	return nil
}
