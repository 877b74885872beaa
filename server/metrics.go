package server

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	registry *prometheus.Registry
	captures *prometheus.CounterVec
	matches  *prometheus.CounterVec
	compared prometheus.Histogram
	duration *prometheus.HistogramVec
}

// newMetrics builds a private registry so several servers can coexist in
// one process.
func newMetrics(mockMode bool) *metrics {
	reg := prometheus.NewRegistry()
	m := &metrics{
		registry: reg,
		captures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fps_captures_total",
			Help: "Capture attempts by outcome.",
		}, []string{"result"}),
		matches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fps_matches_total",
			Help: "Match and verify requests by outcome.",
		}, []string{"operation", "result"}),
		compared: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fps_verify_candidates",
			Help:    "Stored templates compared per verify request.",
			Buckets: []float64{1, 2, 3, 5, 10, 20},
		}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fps_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"method", "route", "code"}),
	}
	mode := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fps_mock_mode",
		Help: "1 when the mock scanner is active.",
	})
	if mockMode {
		mode.Set(1)
	}
	reg.MustRegister(m.captures, m.matches, m.compared, m.duration, mode,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *metrics) handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// observe records request latency. It runs before the app ErrorHandler, so
// the status code of a failed request is derived from its error.
func (m *metrics) observe(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	code := c.Response().StatusCode()
	if err != nil {
		code = fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}
	}
	m.duration.WithLabelValues(c.Method(), c.Route().Path, strconv.Itoa(code)).
		Observe(time.Since(start).Seconds())
	return err
}

func matchResult(matched bool) string {
	if matched {
		return "matched"
	}
	return "no_match"
}
