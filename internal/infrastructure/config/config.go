package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/GriffinCanCode/addonkit/internal/shared/paths"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all framework configuration.
type Config struct {
	Server    ServerConfig
	Addons    AddonConfig
	Session   SessionConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// AddonConfig describes where addons, their config and their cache live.
// Relative paths are resolved against BasePath.
type AddonConfig struct {
	BasePath   string   `envconfig:"ADDON_BASE_PATH" default:"."`
	Roots      []string `envconfig:"ADDON_ROOTS" default:"_add-ons"`
	BundleRoot string   `envconfig:"ADDON_BUNDLE_ROOT" default:"_app/core/bundles"`
	ConfigPath string   `envconfig:"ADDON_CONFIG_PATH" default:"_config"`
	CacheRoot  string   `envconfig:"ADDON_CACHE_ROOT" default:"_cache/_add-ons"`
	SiteRoot   string   `envconfig:"ADDON_SITE_ROOT" default:"/"`
	URLPrefix  string   `envconfig:"ADDON_URL_PREFIX" default:"/addons"`
}

// SessionConfig holds visitor session configuration.
type SessionConfig struct {
	CookieName string        `envconfig:"SESSION_COOKIE" default:"addonkit_session"`
	TTL        time.Duration `envconfig:"SESSION_TTL" default:"24h"`

	// SweepInterval is how often expired sessions are dropped
	SweepInterval time.Duration `envconfig:"SESSION_SWEEP_INTERVAL" default:"5m"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`

	// Global shares one limiter between all clients instead of one per IP
	Global bool `envconfig:"RATE_LIMIT_GLOBAL" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8000",
			Host:            "0.0.0.0",
			ShutdownTimeout: 10 * time.Second,
		},
		Addons: AddonConfig{
			BasePath:   ".",
			Roots:      []string{paths.AddonsDir},
			BundleRoot: paths.BundlesDir,
			ConfigPath: paths.ConfigDir,
			CacheRoot:  paths.CacheDir,
			SiteRoot:   "/",
			URLPrefix:  "/addons",
		},
		Session: SessionConfig{
			CookieName:    "addonkit_session",
			TTL:           24 * time.Hour,
			SweepInterval: 5 * time.Minute,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
			Global:            false,
		},
	}
}

// Layout resolves the addon directories against the base path. The bundle
// root is always searched first.
func (a AddonConfig) Layout() paths.Layout {
	base := a.BasePath
	if abs, err := filepath.Abs(base); err == nil {
		base = abs
	}

	bundles := paths.Resolve(base, a.BundleRoot)
	roots := make([]string, 0, len(a.Roots)+1)
	if bundles != "" {
		roots = append(roots, bundles)
	}
	for _, r := range a.Roots {
		if r == "" {
			continue
		}
		roots = append(roots, paths.Resolve(base, r))
	}

	return paths.Layout{
		Base:    base,
		Roots:   roots,
		Bundles: bundles,
		Config:  paths.Resolve(base, a.ConfigPath),
		Cache:   paths.Resolve(base, a.CacheRoot),
	}
}
