package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exports pipeline step timings and outcomes
type Metrics struct {
	steps    *prometheus.HistogramVec
	meetings *prometheus.CounterVec
}

// NewMetrics registers the pipeline collectors with reg. A nil registerer
// disables them.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	factory := promauto.With(reg)
	return &Metrics{
		steps: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mom",
			Subsystem: "pipeline",
			Name:      "step_seconds",
			Help:      "Wall time of each pipeline step.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		}, []string{"step"}),
		meetings: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mom",
			Subsystem: "pipeline",
			Name:      "meetings_total",
			Help:      "Processed meetings by outcome.",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) observeStep(step string, seconds float64) {
	if m == nil || m.steps == nil {
		return
	}
	m.steps.WithLabelValues(step).Observe(seconds)
}

func (m *Metrics) countMeeting(outcome string) {
	if m == nil || m.meetings == nil {
		return
	}
	m.meetings.WithLabelValues(outcome).Inc()
}
