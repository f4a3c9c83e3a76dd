package metrics

import "github.com/prometheus/client_golang/prometheus"

type Prometheus struct {
	Ticks      *prometheus.CounterVec
	Snapshots  *prometheus.CounterVec
	Signals    *prometheus.CounterVec
	Orders     *prometheus.CounterVec
	Rejections *prometheus.CounterVec
}

func NewPrometheusMetrics() Prometheus {
	return Prometheus{
		Ticks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fall",
				Name:      "ticks",
			}, []string{"coin", "source"}),
		Snapshots: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fall",
				Name:      "snapshots",
			}, []string{"coin"}),
		Signals: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fall",
				Name:      "signals",
			}, []string{"coin", "signal"}),
		Orders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fall",
				Name:      "orders",
			}, []string{"coin", "side"}),
		Rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fall",
				Name:      "rejections",
			}, []string{"coin", "reason"}),
	}
}
