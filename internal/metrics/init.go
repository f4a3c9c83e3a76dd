package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const port = 6021

func init() {
	prometheus.MustRegister(
		Observer.prometheus.Ticks,
		Observer.prometheus.Snapshots,
		Observer.prometheus.Signals,
		Observer.prometheus.Orders,
		Observer.prometheus.Rejections,
	)

	go func() {
		http.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(fmt.Sprintf(":%d", port), nil); err != nil {
			log.Warn().Err(err).Int("port", port).Msg("metrics endpoint stopped")
		}
	}()
}
