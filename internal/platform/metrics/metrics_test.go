package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveStep("bank-information", "ok", 20*time.Millisecond)
	m.ObserveStep("bank-information", "ok", 30*time.Millisecond)
	m.IncrementStepSkipped("verify-email")
	m.IncrementRegistration("institutional", "ok")
	m.IncrementCustomersCreated()
	m.IncrementSyncPublished("customer.registered")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.StepOutcomes.WithLabelValues("bank-information", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StepOutcomes.WithLabelValues("verify-email", "skipped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Registrations.WithLabelValues("institutional", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CustomersCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SyncPublished.WithLabelValues("customer.registered")))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveStep("x", "ok", time.Millisecond)
		m.IncrementStepSkipped("x")
		m.IncrementRegistration("individual", "error")
		m.IncrementCustomersCreated()
		m.IncrementSyncPublished("x")
	})
}
