// Package observability holds the Prometheus metrics of the service.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Simulation metrics
	TickDuration    prometheus.Histogram
	VisibleNodes    prometheus.Gauge
	MaxDisplacement prometheus.Gauge
	FramesPublished prometheus.Counter
	WSClients       prometheus.Gauge

	// Generator metrics
	GeneratorCalls *prometheus.CounterVec

	// Storage metrics
	StoreOperations *prometheus.CounterVec
	StoreDuration   *prometheus.HistogramVec
}

// NewCollector creates a collector with its own registry. Each call returns
// independent metrics, so tests can create as many as they need.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "simulation_tick_duration_seconds",
			Help:      "Time spent in one physics tick",
			Buckets:   []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025},
		}),
		VisibleNodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "simulation_visible_nodes",
			Help:      "Nodes simulated in the last tick",
		}),
		MaxDisplacement: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "simulation_max_displacement",
			Help:      "Largest node movement in the last tick",
		}),
		FramesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_published_total",
			Help:      "Total number of frames pushed to clients",
		}),
		WSClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_clients",
			Help:      "Connected websocket clients",
		}),
		GeneratorCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "generator_calls_total",
				Help:      "Course generation attempts by outcome",
			},
			[]string{"outcome"},
		),
		StoreOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_operations_total",
				Help:      "Total number of key/value store operations",
			},
			[]string{"operation", "status"},
		),
		StoreDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "store_operation_duration_seconds",
				Help:      "Key/value store operation duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.TickDuration,
		c.VisibleNodes,
		c.MaxDisplacement,
		c.FramesPublished,
		c.WSClients,
		c.GeneratorCalls,
		c.StoreOperations,
		c.StoreDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// ObserveTick records one simulation step.
func (c *Collector) ObserveTick(d time.Duration, nodes int, maxDisplacement float64) {
	c.TickDuration.Observe(d.Seconds())
	c.VisibleNodes.Set(float64(nodes))
	c.MaxDisplacement.Set(maxDisplacement)
}

func (c *Collector) FramePublished() {
	c.FramesPublished.Inc()
}

func (c *Collector) GeneratorCall(outcome string) {
	c.GeneratorCalls.WithLabelValues(outcome).Inc()
}

// ClientConnected adjusts the websocket client gauge by delta.
func (c *Collector) ClientConnected(delta int) {
	c.WSClients.Add(float64(delta))
}

// GetRegistry returns the Prometheus registry for this collector
func (c *Collector) GetRegistry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
