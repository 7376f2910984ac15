package model

import (
	"errors"

	"github.com/notargets/StructFE/element"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics instruments model loading. A nil *Metrics records nothing.
type Metrics struct {
	ElementsResolved   prometheus.Counter
	ResolutionFailures *prometheus.CounterVec
	LoadDuration       prometheus.Histogram
}

// NewMetrics creates the loader collectors and registers them with reg when
// reg is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ElementsResolved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "structfe",
			Name:      "elements_resolved_total",
			Help:      "Elements moved from the raw to the resolved state.",
		}),
		ResolutionFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "structfe",
			Name:      "element_resolution_failures_total",
			Help:      "Elements that could not be decoded or resolved, by reason.",
		}, []string{"reason"}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "structfe",
			Name:      "model_load_duration_seconds",
			Help:      "Time spent loading a model snapshot.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.ElementsResolved, m.ResolutionFailures, m.LoadDuration)
	}
	return m
}

func (m *Metrics) resolved() {
	if m == nil {
		return
	}
	m.ElementsResolved.Inc()
}

func (m *Metrics) failed(err error) {
	if m == nil {
		return
	}
	m.ResolutionFailures.WithLabelValues(failureReason(err)).Inc()
}

func (m *Metrics) observe(seconds float64) {
	if m == nil {
		return
	}
	m.LoadDuration.Observe(seconds)
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, element.ErrMalformedTopology):
		return "malformed_topology"
	case errors.Is(err, element.ErrUnresolvedReference):
		return "unresolved_reference"
	case errors.Is(err, element.ErrInvalidSection):
		return "invalid_section"
	}
	return "other"
}
