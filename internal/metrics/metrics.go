package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	globalMetrics *Metrics
	globalMu      sync.RWMutex
)

// Metrics holds all Prometheus metrics for the broadcast service
type Metrics struct {
	DeliveriesTotal      *prometheus.CounterVec
	CampaignsSentTotal   prometheus.Counter
	CampaignsFailedTotal prometheus.Counter
	TrackingEventsTotal  *prometheus.CounterVec

	APIRequestsTotal          *prometheus.CounterVec
	APIRequestDurationSeconds *prometheus.HistogramVec

	registry *prometheus.Registry
}

// New creates a Metrics instance with all metrics registered
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		DeliveriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "broadcast_deliveries_total",
				Help: "Per-recipient delivery attempts by channel and outcome",
			},
			[]string{"channel", "outcome"},
		),
		CampaignsSentTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "broadcast_campaigns_sent_total",
				Help: "Campaigns that completed dispatch",
			},
		),
		CampaignsFailedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "broadcast_campaigns_failed_total",
				Help: "Campaigns that hit a systemic dispatch failure",
			},
		),
		TrackingEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "broadcast_tracking_events_total",
				Help: "Engagement events recorded by type",
			},
			[]string{"type"},
		),
		APIRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "broadcast_api_requests_total",
				Help: "HTTP requests by method, path and status",
			},
			[]string{"method", "path", "status"},
		),
		APIRequestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "broadcast_api_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		registry: reg,
	}

	reg.MustRegister(
		m.DeliveriesTotal,
		m.CampaignsSentTotal,
		m.CampaignsFailedTotal,
		m.TrackingEventsTotal,
		m.APIRequestsTotal,
		m.APIRequestDurationSeconds,
	)

	return m
}

// Handler returns the /metrics endpoint handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// SetGlobal installs m as the process-wide metrics instance
func SetGlobal(m *Metrics) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalMetrics = m
}

// Global returns the installed metrics instance, or nil if none
func Global() *Metrics {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalMetrics
}

// RecordDelivery counts one per-recipient delivery attempt
func RecordDelivery(channel, outcome string) {
	if m := Global(); m != nil {
		m.DeliveriesTotal.WithLabelValues(channel, outcome).Inc()
	}
}

// RecordCampaignSent counts one completed dispatch
func RecordCampaignSent() {
	if m := Global(); m != nil {
		m.CampaignsSentTotal.Inc()
	}
}

// RecordCampaignFailed counts one systemically failed dispatch
func RecordCampaignFailed() {
	if m := Global(); m != nil {
		m.CampaignsFailedTotal.Inc()
	}
}

// RecordTrackingEvent counts one open/click event
func RecordTrackingEvent(eventType string) {
	if m := Global(); m != nil {
		m.TrackingEventsTotal.WithLabelValues(eventType).Inc()
	}
}
