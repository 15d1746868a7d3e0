package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ============================================================================
// METRICS — Prometheus collectors for the HTTP and dataset paths
// ============================================================================

// Metrics bundles the server's Prometheus collectors.
type Metrics struct {
	gatherer prometheus.Gatherer

	Requests       *prometheus.CounterVec
	Durations      *prometheus.HistogramVec
	DatasetRecords prometheus.Gauge
	DatasetStates  *prometheus.GaugeVec
	LoadFailures   prometheus.Counter
}

// NewMetrics registers the collectors on reg. A nil reg uses the default
// registerer. Registering twice returns the existing collectors, so
// multiple servers in one process share them.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{gatherer: prometheus.DefaultGatherer}
	if g, ok := reg.(prometheus.Gatherer); ok {
		m.gatherer = g
	}

	var err error
	m.Requests, err = registerCounterVec(reg, prometheus.CounterOpts{
		Name: "homesight_http_requests_total",
		Help: "HTTP requests by route, method and status code.",
	}, []string{"route", "method", "code"})
	if err != nil {
		return nil, err
	}

	m.Durations, err = registerHistogramVec(reg, prometheus.HistogramOpts{
		Name:    "homesight_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"route"})
	if err != nil {
		return nil, err
	}

	m.DatasetRecords, err = registerGauge(reg, prometheus.GaugeOpts{
		Name: "homesight_dataset_records",
		Help: "Records in the currently served dataset.",
	})
	if err != nil {
		return nil, err
	}

	m.DatasetStates, err = registerGaugeVec(reg, prometheus.GaugeOpts{
		Name: "homesight_dataset_state",
		Help: "Dataset lifecycle state as a one-hot gauge.",
	}, []string{"state"})
	if err != nil {
		return nil, err
	}

	m.LoadFailures, err = registerCounter(reg, prometheus.CounterOpts{
		Name: "homesight_dataset_load_failures_total",
		Help: "Dataset loads that ended in a recoverable error.",
	})
	if err != nil {
		return nil, err
	}

	return m, nil
}

// Handler serves the metrics endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveRequest records one served request.
func (m *Metrics) ObserveRequest(route, method string, code int, elapsed time.Duration) {
	m.Requests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	m.Durations.WithLabelValues(route).Observe(elapsed.Seconds())
}

// SetDataset updates the dataset gauges to the given state and size.
func (m *Metrics) SetDataset(state DatasetState, records int) {
	for _, s := range []DatasetState{StateLoading, StateReady, StateError} {
		v := 0.0
		if s == state {
			v = 1
		}
		m.DatasetStates.WithLabelValues(string(s)).Set(v)
	}
	m.DatasetRecords.Set(float64(records))
}

// The register helpers tolerate AlreadyRegisteredError and hand back the
// collector that won the race.

func registerCounterVec(reg prometheus.Registerer, opts prometheus.CounterOpts, labels []string) (*prometheus.CounterVec, error) {
	c := prometheus.NewCounterVec(opts, labels)
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("register %s: %w", opts.Name, err)
	}
	return c, nil
}

func registerCounter(reg prometheus.Registerer, opts prometheus.CounterOpts) (prometheus.Counter, error) {
	c := prometheus.NewCounter(opts)
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("register %s: %w", opts.Name, err)
	}
	return c, nil
}

func registerHistogramVec(reg prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) (*prometheus.HistogramVec, error) {
	h := prometheus.NewHistogramVec(opts, labels)
	if err := reg.Register(h); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("register %s: %w", opts.Name, err)
	}
	return h, nil
}

func registerGauge(reg prometheus.Registerer, opts prometheus.GaugeOpts) (prometheus.Gauge, error) {
	g := prometheus.NewGauge(opts)
	if err := reg.Register(g); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("register %s: %w", opts.Name, err)
	}
	return g, nil
}

func registerGaugeVec(reg prometheus.Registerer, opts prometheus.GaugeOpts, labels []string) (*prometheus.GaugeVec, error) {
	g := prometheus.NewGaugeVec(opts, labels)
	if err := reg.Register(g); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("register %s: %w", opts.Name, err)
	}
	return g, nil
}
