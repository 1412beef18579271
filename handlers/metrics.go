package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Operational counters exposed on /metrics.
var (
	PastesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pastebin_pastes_created_total",
		Help: "Number of pastes created.",
	})
	PasteViews = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pastebin_paste_views_total",
		Help: "Number of decrementing paste fetches served.",
	})
	PasteMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pastebin_paste_misses_total",
		Help: "Number of fetches that found no live paste (absent, expired or exhausted).",
	})
)

// Metrics returns the Prometheus scrape handler wrapped for gin.
func Metrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
