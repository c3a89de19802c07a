// Package observability provides optional metrics and tracing instruments
// for the webhook pipeline and outbound API calls.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus instruments for a Bot instance.
type Metrics struct {
	BatchesReceived     prometheus.Counter
	EventsDispatched    *prometheus.CounterVec
	SignatureRejections prometheus.Counter
	DispatchLatency     prometheus.Histogram
	QueueDepth          prometheus.Gauge
	OutboundRequests    *prometheus.CounterVec
	OutboundLatency     prometheus.Histogram
}

// NewMetrics creates and registers the instruments on the given registerer.
// Pass prometheus.DefaultRegisterer or a custom registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		BatchesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "linebot_batches_received_total",
			Help: "Webhook batches accepted for dispatch.",
		}),
		EventsDispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "linebot_events_dispatched_total",
			Help: "Events fanned out to subscribers, by classification.",
		}, []string{"type"}),
		SignatureRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "linebot_signature_rejections_total",
			Help: "Webhook requests rejected for an invalid signature.",
		}),
		DispatchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "linebot_dispatch_duration_seconds",
			Help:    "Time spent fanning out one batch to all subscribers.",
			Buckets: prometheus.DefBuckets,
		}),
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "linebot_dispatch_queue_depth",
			Help: "Batches waiting in the dispatch queue.",
		}),
		OutboundRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "linebot_outbound_requests_total",
			Help: "Outbound platform API calls, by operation and status.",
		}, []string{"operation", "status"}),
		OutboundLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "linebot_outbound_latency_seconds",
			Help:    "Latency of outbound platform API calls.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		m.BatchesReceived,
		m.EventsDispatched,
		m.SignatureRejections,
		m.DispatchLatency,
		m.QueueDepth,
		m.OutboundRequests,
		m.OutboundLatency,
	)

	return m
}

// RecordDispatch records one dispatched event of the given classification.
func (m *Metrics) RecordDispatch(eventType string) {
	m.EventsDispatched.WithLabelValues(eventType).Inc()
}

// RecordRequest records one outbound API call.
func (m *Metrics) RecordRequest(operation, status string, latencySeconds float64) {
	m.OutboundRequests.WithLabelValues(operation, status).Inc()
	m.OutboundLatency.Observe(latencySeconds)
}
