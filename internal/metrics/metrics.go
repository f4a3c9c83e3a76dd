package metrics

import (
	"sync"
)

var Observer = &Metrics{
	mutex:      new(sync.RWMutex),
	prometheus: NewPrometheusMetrics(),
}

type Metrics struct {
	mutex      *sync.RWMutex
	prometheus Prometheus
}

// IncrementTicks counts a consumed price tick for the given source.
func (m *Metrics) IncrementTicks(labels ...string) {
	m.prometheus.Ticks.WithLabelValues(labels...).Inc()
}

// IncrementSnapshots counts a completed indicator snapshot refresh.
func (m *Metrics) IncrementSnapshots(labels ...string) {
	m.prometheus.Snapshots.WithLabelValues(labels...).Inc()
}

// IncrementSignals counts an emitted fused signal by kind.
func (m *Metrics) IncrementSignals(labels ...string) {
	m.prometheus.Signals.WithLabelValues(labels...).Inc()
}

// IncrementOrders counts a dispatched order by side.
func (m *Metrics) IncrementOrders(labels ...string) {
	m.prometheus.Orders.WithLabelValues(labels...).Inc()
}

// IncrementRejections counts a gate rejection by reason.
func (m *Metrics) IncrementRejections(labels ...string) {
	m.prometheus.Rejections.WithLabelValues(labels...).Inc()
}
