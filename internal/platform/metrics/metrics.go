// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics of the service.
type Metrics struct {
	// Registry owns these metrics and backs the /metrics endpoint.
	Registry *prometheus.Registry

	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	transfers        *prometheus.CounterVec
	transferDuration prometheus.Histogram
	rateFetches      *prometheus.CounterVec
	rateUpserts      *prometheus.CounterVec
}

// New creates a private registry, so calling it more than once (e.g. in tests) is safe.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "iswift_http_requests_total",
				Help: "Total HTTP requests by route, method and status.",
			},
			[]string{"route", "method", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "iswift_http_request_duration_seconds",
				Help:    "Duration of HTTP requests by route.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		transfers: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "iswift_transfers_total",
				Help: "Transfers by outcome and debit kind.",
			},
			[]string{"outcome", "kind"},
		),
		transferDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "iswift_transfer_duration_seconds",
				Help:    "Duration of transfer executions.",
				Buckets: prometheus.DefBuckets,
			},
		),
		rateFetches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "iswift_rate_fetches_total",
				Help: "Calls to the exchange rate provider by outcome.",
			},
			[]string{"outcome"},
		),
		rateUpserts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "iswift_rate_upserts_total",
				Help: "Conversion rate rows written or skipped during refresh.",
			},
			[]string{"outcome"},
		),
	}
}

// ObserveHTTPRequest records one served request. All recorders are no-ops on a nil *Metrics.
func (m *Metrics) ObserveHTTPRequest(route, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

// ObserveTransfer records a transfer attempt. outcome is "success" or an error class.
func (m *Metrics) ObserveTransfer(outcome, kind string, d time.Duration) {
	if m == nil {
		return
	}
	m.transfers.WithLabelValues(outcome, kind).Inc()
	m.transferDuration.Observe(d.Seconds())
}

// IncrRateFetch counts a provider call.
func (m *Metrics) IncrRateFetch(outcome string) {
	if m == nil {
		return
	}
	m.rateFetches.WithLabelValues(outcome).Inc()
}

// IncrRateUpsert counts a refreshed or skipped pair.
func (m *Metrics) IncrRateUpsert(outcome string) {
	if m == nil {
		return
	}
	m.rateUpserts.WithLabelValues(outcome).Inc()
}
