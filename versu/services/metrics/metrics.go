package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess  = "success"
	OutcomeFallback = "fallback"

	ErrorTypeConfiguration = "configuration"
	ErrorTypeTimeout       = "timeout"
	ErrorTypeProvider      = "provider"
	ErrorTypeEmpty         = "empty_response"
	ErrorTypeStorage       = "storage"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "versu",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "versu",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint", "status"},
	)

	TurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "versu",
			Subsystem: "chat",
			Name:      "turns_total",
			Help:      "Chat turns by outcome (success or fallback)",
		},
		[]string{"outcome"},
	)

	ProviderErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "versu",
			Subsystem: "chat",
			Name:      "provider_errors_total",
			Help:      "Failures while producing an assistant reply",
		},
		[]string{"error_type"},
	)

	ProviderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "versu",
			Subsystem: "chat",
			Name:      "provider_duration_seconds",
			Help:      "Completion provider latency in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"model"},
	)

	ConversationsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "versu",
			Subsystem: "chat",
			Name:      "conversations_created_total",
			Help:      "Total conversations created",
		},
		[]string{"channel"},
	)

	AuthRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "versu",
			Subsystem: "api",
			Name:      "auth_requests_total",
			Help:      "Authentication attempts",
		},
		[]string{"auth_type", "status"},
	)

	RealtimeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "versu",
			Subsystem: "realtime",
			Name:      "connections",
			Help:      "Currently open WebSocket connections",
		},
	)
)

func RecordRequest(method, endpoint string, status int, durationSec float64) {
	s := strconv.Itoa(status)
	RequestsTotal.WithLabelValues(method, endpoint, s).Inc()
	RequestDuration.WithLabelValues(method, endpoint, s).Observe(durationSec)
}

func RecordTurn(outcome string) {
	TurnsTotal.WithLabelValues(outcome).Inc()
}

func RecordProviderError(errorType string) {
	ProviderErrorsTotal.WithLabelValues(errorType).Inc()
}

func RecordProviderLatency(model string, durationSec float64) {
	ProviderDuration.WithLabelValues(model).Observe(durationSec)
}

func RecordConversationCreated(channel string) {
	ConversationsCreatedTotal.WithLabelValues(channel).Inc()
}

func RecordAuth(authType, status string) {
	AuthRequestsTotal.WithLabelValues(authType, status).Inc()
}
