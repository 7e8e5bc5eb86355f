package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for registration runs and the fake backend.
type Metrics struct {
	StepDuration  *prometheus.HistogramVec
	StepOutcomes  *prometheus.CounterVec
	Registrations *prometheus.CounterVec

	// fake backend
	CustomersCreated prometheus.Counter
	SyncPublished    *prometheus.CounterVec
}

// New creates and registers all metrics with reg. Pass prometheus.DefaultRegisterer
// in main and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		StepDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mocha_registration_step_duration_seconds",
			Help:    "Duration of registration steps by step name",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"step"}),

		StepOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mocha_registration_steps_total",
			Help: "Registration steps by step name and outcome",
		}, []string{"step", "outcome"}), // outcome: "ok", "error", "skipped", "tolerated"

		Registrations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mocha_registrations_total",
			Help: "Completed registration runs by borrower kind and result",
		}, []string{"kind", "result"}),

		CustomersCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "mockcore_customers_created_total",
			Help: "Customers created by the fake new-core backend",
		}),

		SyncPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mockcore_sync_events_published_total",
			Help: "Legacy sync events published by event type",
		}, []string{"event"}),
	}
}

// ObserveStep records the duration and outcome of one step.
func (m *Metrics) ObserveStep(step, outcome string, d time.Duration) {
	if m != nil {
		m.StepDuration.WithLabelValues(step).Observe(d.Seconds())
		m.StepOutcomes.WithLabelValues(step, outcome).Inc()
	}
}

// IncrementStepSkipped records a step skipped by exclusion.
func (m *Metrics) IncrementStepSkipped(step string) {
	if m != nil {
		m.StepOutcomes.WithLabelValues(step, "skipped").Inc()
	}
}

// IncrementRegistration records the end of a registration run.
func (m *Metrics) IncrementRegistration(kind, result string) {
	if m != nil {
		m.Registrations.WithLabelValues(kind, result).Inc()
	}
}

// IncrementCustomersCreated increments the fake backend customer counter by 1.
func (m *Metrics) IncrementCustomersCreated() {
	if m != nil {
		m.CustomersCreated.Inc()
	}
}

// IncrementSyncPublished counts a published sync event.
func (m *Metrics) IncrementSyncPublished(event string) {
	if m != nil {
		m.SyncPublished.WithLabelValues(event).Inc()
	}
}
