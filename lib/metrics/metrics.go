package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	FramesDrawn = promauto.NewCounter(prometheus.CounterOpts{
		Name: "helloquad_frames_drawn_total",
		Help: "Total number of frames drawn",
	})
	FrameDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "helloquad_frame_duration_seconds",
		Help:    "Time spent in the draw callback per frame",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
	})
	SurfaceChanges = promauto.NewCounter(prometheus.CounterOpts{
		Name: "helloquad_surface_changes_total",
		Help: "Total number of surface size changes",
	})
	SetupFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "helloquad_setup_failures_total",
		Help: "Total number of failed surface setups by error kind",
	}, []string{"kind"})
)

// Handler should usually be mounted at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
