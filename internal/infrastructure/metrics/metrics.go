// Package metrics colectores Prometheus de las mutaciones y de la capa HTTP.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Dashboard-api/internal/application/actions"
)

const namespace = "dashboard"

var _ actions.Observer = (*Metrics)(nil)

// Metrics registro propio con los contadores de la aplicación.
type Metrics struct {
	Registry *prometheus.Registry

	actionResults *prometheus.CounterVec
	compensations *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	httpInFlight  prometheus.Gauge
}

// New crea el registro con los colectores de proceso y runtime de Go.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		actionResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "actions",
				Name:      "results_total",
				Help:      "Resultados de las mutaciones por acción y tipo de fallo.",
			},
			[]string{"action", "result"},
		),
		compensations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "actions",
				Name:      "compensations_total",
				Help:      "Pasos de compensación ejecutados tras un fallo parcial.",
			},
			[]string{"action", "step", "status"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total de peticiones HTTP atendidas.",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duración de las peticiones HTTP.",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms a ~2.5s
			},
			[]string{"method", "route"},
		),
		httpInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "inflight_requests",
				Help:      "Peticiones HTTP en curso.",
			},
		),
	}
	m.Registry.MustRegister(
		m.actionResults,
		m.compensations,
		m.httpRequests,
		m.httpDuration,
		m.httpInFlight,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	return m
}

// ActionCompleted implementa actions.Observer.
func (m *Metrics) ActionCompleted(action string, f actions.Failure) {
	result := string(f)
	if f == actions.FailureNone {
		result = "ok"
	}
	m.actionResults.WithLabelValues(action, result).Inc()
}

// Compensated implementa actions.Observer.
func (m *Metrics) Compensated(action, step string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.compensations.WithLabelValues(action, step, status).Inc()
}

// Handler expone el registro en formato Prometheus.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
}

// Middleware mide cada petición usando la ruta registrada (no la URL) como etiqueta.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == "/metrics" {
			return c.Next()
		}
		m.httpInFlight.Inc()
		start := time.Now()
		err := c.Next()
		m.httpInFlight.Dec()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		m.httpRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}
