package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Registry metrics
	RegistryLookups *prometheus.CounterVec
	RegistryProbes  prometheus.Counter
	AddonsInstalled prometheus.Gauge

	// Cache metrics
	CacheOps    *prometheus.CounterVec
	CacheErrors *prometheus.CounterVec
	CachePurged *prometheus.CounterVec

	// Token metrics
	TokensIssued    *prometheus.CounterVec
	TokensValidated *prometheus.CounterVec

	// Session metrics
	SessionsActive prometheus.Gauge

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time

	registry *prometheus.Registry
	snapshot Snapshot
	mu       sync.RWMutex
}

// Snapshot holds current counter values for the JSON health endpoint
type Snapshot struct {
	TotalRequests   int64   `json:"total_requests"`
	TotalErrors     int64   `json:"total_errors"`
	RegistryProbes  int64   `json:"registry_probes"`
	CacheOperations int64   `json:"cache_operations"`
	TokensIssued    int64   `json:"tokens_issued"`
	UptimeSeconds   float64 `json:"uptime_seconds"`
}

// NewMetrics creates a metrics collector registered on reg. A nil reg gets a
// fresh registry with the Go and process collectors attached.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	factory := promauto.With(reg)

	m := &Metrics{
		startTime: time.Now(),
		registry:  reg,

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "addonkit_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "addonkit_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),

		RegistryLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "addonkit_registry_lookups_total",
				Help: "Addon lookups by outcome (hit, miss)",
			},
			[]string{"result"},
		),
		RegistryProbes: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "addonkit_registry_probes_total",
				Help: "Filesystem probes performed while locating addons",
			},
		),
		AddonsInstalled: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "addonkit_addons_installed",
				Help: "Addons found by the last discovery pass",
			},
		),

		CacheOps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "addonkit_cache_operations_total",
				Help: "Cache store operations by addon and operation",
			},
			[]string{"addon", "op"},
		),
		CacheErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "addonkit_cache_errors_total",
				Help: "Failed cache store operations by addon and operation",
			},
			[]string{"addon", "op"},
		),
		CachePurged: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "addonkit_cache_purged_files_total",
				Help: "Files removed by cache purges",
			},
			[]string{"addon"},
		),

		TokensIssued: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "addonkit_tokens_issued_total",
				Help: "Form tokens issued",
			},
			[]string{"addon"},
		),
		TokensValidated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "addonkit_tokens_validated_total",
				Help: "Form token validations by result (accepted, rejected)",
			},
			[]string{"addon", "result"},
		),

		SessionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "addonkit_sessions_active",
				Help: "Number of live visitor sessions",
			},
		),

		Uptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "addonkit_uptime_seconds",
				Help: "Process uptime in seconds",
			},
		),
	}

	return m
}

// Registry returns the prometheus registry the metrics are registered on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest records HTTP request metrics
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.TotalRequests++
	if len(status) > 0 && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordLookup records a registry lookup served from cache (hit) or by
// probing the filesystem (miss).
func (m *Metrics) RecordLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.RegistryLookups.WithLabelValues(result).Inc()
}

// RecordProbe records one filesystem probe
func (m *Metrics) RecordProbe() {
	if m == nil {
		return
	}
	m.RegistryProbes.Inc()
	m.mu.Lock()
	m.snapshot.RegistryProbes++
	m.mu.Unlock()
}

// SetAddonsInstalled sets the installed addon gauge
func (m *Metrics) SetAddonsInstalled(count int) {
	if m == nil {
		return
	}
	m.AddonsInstalled.Set(float64(count))
}

// RecordCacheOp records a cache operation and whether it failed
func (m *Metrics) RecordCacheOp(addon, op string, err error) {
	if m == nil {
		return
	}
	m.CacheOps.WithLabelValues(addon, op).Inc()
	if err != nil {
		m.CacheErrors.WithLabelValues(addon, op).Inc()
	}
	m.mu.Lock()
	m.snapshot.CacheOperations++
	m.mu.Unlock()
}

// RecordPurged records files removed by a purge
func (m *Metrics) RecordPurged(addon string, count int) {
	if m == nil || count == 0 {
		return
	}
	m.CachePurged.WithLabelValues(addon).Add(float64(count))
}

// RecordTokenIssued records a newly issued form token
func (m *Metrics) RecordTokenIssued(addon string) {
	if m == nil {
		return
	}
	m.TokensIssued.WithLabelValues(addon).Inc()
	m.mu.Lock()
	m.snapshot.TokensIssued++
	m.mu.Unlock()
}

// RecordTokenValidation records a token validation outcome
func (m *Metrics) RecordTokenValidation(addon string, accepted bool) {
	if m == nil {
		return
	}
	result := "rejected"
	if accepted {
		result = "accepted"
	}
	m.TokensValidated.WithLabelValues(addon, result).Inc()
}

// SetSessionsActive sets the active session gauge
func (m *Metrics) SetSessionsActive(count int) {
	if m == nil {
		return
	}
	m.SessionsActive.Set(float64(count))
}

// Snapshot returns current counter values
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	uptime := time.Since(m.startTime).Seconds()
	m.Uptime.Set(uptime)

	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.snapshot
	s.UptimeSeconds = uptime
	return s
}
