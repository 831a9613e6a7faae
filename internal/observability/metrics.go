package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce       sync.Once
	zoneRequestsTotal  *prometheus.CounterVec
	zoneLatencySeconds *prometheus.HistogramVec
	gateDecisionsTotal *prometheus.CounterVec
	syncEventsTotal    *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the portal.
func RegisterMetrics() {
	registerOnce.Do(func() {
		zoneRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_zone_requests_total",
			Help: "Total number of requests served per portal zone.",
		}, []string{"zone", "method", "status"})

		zoneLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portal_zone_latency_seconds",
			Help:    "Latency distribution per portal zone.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"zone", "method"})

		gateDecisionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_gate_decisions_total",
			Help: "Access gate outcomes by zone and decision.",
		}, []string{"zone", "decision"})

		syncEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_identity_sync_events_total",
			Help: "Identity sync events processed, by result.",
		}, []string{"result"})

		prometheus.MustRegister(zoneRequestsTotal, zoneLatencySeconds, gateDecisionsTotal, syncEventsTotal)
	})
}

// ZoneRequests exposes the per-zone request counter.
func ZoneRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return zoneRequestsTotal
}

// ZoneLatency exposes the per-zone latency histogram.
func ZoneLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return zoneLatencySeconds
}

// GateDecisions exposes the access gate decision counter.
func GateDecisions() *prometheus.CounterVec {
	RegisterMetrics()
	return gateDecisionsTotal
}

// SyncEvents exposes the identity sync result counter.
func SyncEvents() *prometheus.CounterVec {
	RegisterMetrics()
	return syncEventsTotal
}
