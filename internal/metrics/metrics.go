// Package metrics exposes Prometheus collectors for the roster service.
//
// Collectors live on a private registry rather than the global default,
// so several routers (one per test, say) can coexist in one process.
package metrics

import (
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/student-roster/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "roster"

// Metrics holds the registry and the collectors registered on it.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
}

// New creates the collectors. The roster size gauge is computed from
// store on every scrape.
func New(store storage.Storage) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "HTTP requests served, by route pattern, method and status code.",
			},
			[]string{"route", "method", "code"},
		),
	}

	size := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "students",
			Help:      "Number of students currently in the roster.",
		},
		func() float64 {
			n, err := store.CountStudents()
			if err != nil {
				slog.Error("error counting students", slog.String("error", err.Error()))
				return 0
			}
			return float64(n)
		},
	)

	m.registry.MustRegister(m.requests, size)
	return m
}

// Instrument wraps h so that each request is counted under route.
func (m *Metrics) Instrument(route string, h http.Handler) http.Handler {
	counter := m.requests.MustCurryWith(prometheus.Labels{"route": route})
	return promhttp.InstrumentHandlerCounter(counter, h)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
