package framework

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the frame loop counters. Each framework has its own registry
// so tests and multiple instances never collide.
type Metrics struct {
	Registry *prometheus.Registry

	frames        prometheus.Counter
	frameDuration prometheus.Histogram
	events        *prometheus.CounterVec
	commands      *prometheus.CounterVec
	stackDepth    prometheus.Gauge
}

// NewMetrics registers the frame loop metrics on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		frames: f.NewCounter(prometheus.CounterOpts{
			Name: "tileframe_frames_total",
			Help: "Frame loop iterations",
		}),
		frameDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "tileframe_frame_duration_seconds",
			Help:    "Time spent in one frame loop iteration",
			Buckets: []float64{0.001, 0.004, 0.008, 0.016, 0.033, 0.066, 0.1},
		}),
		// Label values are event type names, a fixed set.
		events: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tileframe_events_dispatched_total",
			Help: "Events delivered to the current stage",
		}, []string{"type"}),
		commands: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tileframe_stage_commands_total",
			Help: "Stage commands applied, by kind",
		}, []string{"kind"}),
		stackDepth: f.NewGauge(prometheus.GaugeOpts{
			Name: "tileframe_stage_stack_depth",
			Help: "Number of stages on the stack",
		}),
	}
}
