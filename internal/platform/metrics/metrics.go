package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels shared by repository and remote fetch metrics.
const (
	OutcomeOK              = "ok"
	OutcomeNotFound        = "not_found"
	OutcomeError           = "error"
	OutcomeTransportError  = "transport_error"
	OutcomeDecodeError     = "decode_error"
	OutcomeValidationError = "validation_error"
)

// Metrics holds all Prometheus metrics for the application.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	HTTPRequestDuration  *prometheus.HistogramVec
	RepositoryOps        *prometheus.CounterVec
	RepositoryOpDuration *prometheus.HistogramVec
	RemoteFetches        *prometheus.CounterVec
	RemoteFetchDuration  *prometheus.HistogramVec
}

// New creates and registers all metrics with reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "catalog_http_request_duration_seconds",
			Help:    "Latency of HTTP requests by route, method and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		RepositoryOps: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_repository_operations_total",
			Help: "Repository operations by entity, operation and outcome",
		}, []string{"entity", "operation", "outcome"}),
		RepositoryOpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "catalog_repository_operation_duration_seconds",
			Help:    "Latency of repository operations",
			Buckets: prometheus.DefBuckets,
		}, []string{"entity", "operation"}),
		RemoteFetches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_remote_fetches_total",
			Help: "Calls to the statistics API by resource and outcome",
		}, []string{"resource", "outcome"}),
		RemoteFetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "catalog_remote_fetch_duration_seconds",
			Help:    "Latency of calls to the statistics API",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"resource"}),
	}
}

// ObserveHTTPRequest records one served request.
func (m *Metrics) ObserveHTTPRequest(route, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestDuration.WithLabelValues(route, method, strconv.Itoa(status)).Observe(d.Seconds())
}

// ObserveRepositoryOp records one repository read or save.
func (m *Metrics) ObserveRepositoryOp(entity, op, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.RepositoryOps.WithLabelValues(entity, op, outcome).Inc()
	m.RepositoryOpDuration.WithLabelValues(entity, op).Observe(d.Seconds())
}

// ObserveRemoteFetch records one statistics API call.
func (m *Metrics) ObserveRemoteFetch(resource, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.RemoteFetches.WithLabelValues(resource, outcome).Inc()
	m.RemoteFetchDuration.WithLabelValues(resource).Observe(d.Seconds())
}
