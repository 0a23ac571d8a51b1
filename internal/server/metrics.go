package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes the simulator's counters to Prometheus.
type Metrics struct {
	TicksTotal     prometheus.Counter
	TasksCompleted prometheus.Gauge
	Clients        prometheus.Gauge
	Resets         prometheus.Counter
}

// NewMetrics registers the metric set on its own registry.
func NewMetrics() (*Metrics, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		TicksTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "agvsim_ticks_total",
			Help: "Simulated seconds processed.",
		}),
		TasksCompleted: factory.NewGauge(prometheus.GaugeOpts{
			Name: "agvsim_tasks_completed",
			Help: "Tasks delivered in the current run.",
		}),
		Clients: factory.NewGauge(prometheus.GaugeOpts{
			Name: "agvsim_ws_clients",
			Help: "Connected playback clients.",
		}),
		Resets: factory.NewCounter(prometheus.CounterOpts{
			Name: "agvsim_resets_total",
			Help: "Run resets requested.",
		}),
	}, reg
}

// ServeMetrics blocks serving /metrics on addr.
func ServeMetrics(addr string, reg *prometheus.Registry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return http.ListenAndServe(addr, mux)
}
