/*
Package monitoring provides Prometheus metrics for the addon framework.

Each Metrics value owns its own prometheus.Registry, so several instances can
coexist in one process (tests build a fresh one per case). All Record methods
are safe to call on a nil *Metrics, which lets components run without metrics.

# Usage

	metrics := monitoring.NewMetrics(nil)
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{})))

	metrics.RecordCacheOp("karma", "put", nil)
	metrics.RecordTokenIssued("karma")
*/
package monitoring
