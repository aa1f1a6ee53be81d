// Package metrics holds the Prometheus instruments shared by the services.
// Every method is safe on a nil *Metrics so components can run unmetered in
// tests.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
	Placements         *prometheus.CounterVec
	SideEffectFailures *prometheus.CounterVec
	RemoteCalls        *prometheus.CounterVec
	RemoteCallDuration *prometheus.HistogramVec
	EventsConsumed     *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New registers all instruments on reg. Pass prometheus.NewRegistry() in
// tests; production code passes a fresh registry per process too so the Go
// and process collectors are explicit.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests served.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		Placements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "order_placements_total",
			Help: "Order placement attempts by outcome.",
		}, []string{"outcome"}),
		SideEffectFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "order_side_effect_failures_total",
			Help: "Post-persistence steps that failed and were swallowed.",
		}, []string{"step"}),
		RemoteCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "external_requests_total",
			Help: "Outbound calls to peer services by outcome.",
		}, []string{"peer", "outcome"}),
		RemoteCallDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "external_request_duration_seconds",
			Help:    "Duration of outbound calls to peer services in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"peer"}),
		EventsConsumed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_events_consumed_total",
			Help: "Stock delta messages consumed by outcome.",
		}, []string{"outcome"}),
		gatherer: reg,
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests, m.HTTPDuration,
		m.Placements, m.SideEffectFailures,
		m.RemoteCalls, m.RemoteCallDuration,
		m.EventsConsumed,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, http.StatusText(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) Placement(outcome string) {
	if m == nil {
		return
	}
	m.Placements.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SideEffectFailed(step string) {
	if m == nil {
		return
	}
	m.SideEffectFailures.WithLabelValues(step).Inc()
}

func (m *Metrics) RemoteCall(peer, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.RemoteCalls.WithLabelValues(peer, outcome).Inc()
	m.RemoteCallDuration.WithLabelValues(peer).Observe(d.Seconds())
}

func (m *Metrics) EventConsumed(outcome string) {
	if m == nil {
		return
	}
	m.EventsConsumed.WithLabelValues(outcome).Inc()
}
