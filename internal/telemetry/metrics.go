package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mocka2a"

// Metrics holds the collectors exported by the mock endpoint. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	RPCRequests    *prometheus.CounterVec
	RPCDuration    *prometheus.HistogramVec
	TasksCreated   prometheus.Counter
	TasksCancelled prometheus.Counter
}

// NewMetrics creates the collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		RPCRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "Total JSON-RPC requests by method and result code (0 for success).",
		}, []string{"method", "code"}),

		RPCDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_request_duration_seconds",
			Help:      "JSON-RPC request duration in seconds.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}, []string{"method"}),

		TasksCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_created_total",
			Help:      "Total tasks created by message/send.",
		}),

		TasksCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_cancelled_total",
			Help:      "Total successful tasks/cancel calls.",
		}),
	}
	m.registry.MustRegister(m.RPCRequests, m.RPCDuration, m.TasksCreated, m.TasksCancelled)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRPC records one JSON-RPC call. Unknown method names are folded into
// a single label value to keep cardinality bounded.
func (m *Metrics) ObserveRPC(method string, known bool, code int, d time.Duration) {
	if m == nil {
		return
	}
	if !known {
		method = "unknown"
	}
	m.RPCRequests.WithLabelValues(method, strconv.Itoa(code)).Inc()
	m.RPCDuration.WithLabelValues(method).Observe(d.Seconds())
}

// TaskCreated counts a task created by message/send.
func (m *Metrics) TaskCreated() {
	if m == nil {
		return
	}
	m.TasksCreated.Inc()
}

// TaskCancelled counts a successful tasks/cancel.
func (m *Metrics) TaskCancelled() {
	if m == nil {
		return
	}
	m.TasksCancelled.Inc()
}
