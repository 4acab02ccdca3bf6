package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "persona",
			Subsystem: "server",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Token counters
	TokensPromptTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "persona",
			Subsystem: "server",
			Name:      "tokens_prompt_total",
			Help:      "Total prompt tokens consumed",
		},
		[]string{"model"},
	)

	TokensCompletionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "persona",
			Subsystem: "server",
			Name:      "tokens_completion_total",
			Help:      "Total completion tokens generated",
		},
		[]string{"model"},
	)

	// Provider errors
	ProviderErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "persona",
			Subsystem: "server",
			Name:      "provider_errors_total",
			Help:      "Total provider call failures",
		},
		[]string{"provider", "error_type"},
	)

	// Image generation
	ImagesGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "persona",
			Subsystem: "server",
			Name:      "images_generated_total",
			Help:      "Image generation attempts by outcome",
		},
		[]string{"outcome"},
	)

	ImageRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "persona",
			Subsystem: "server",
			Name:      "image_retries_total",
			Help:      "Retried image generation calls",
		},
	)

	// Token budget denials
	TokenDenialsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "persona",
			Subsystem: "server",
			Name:      "token_denials_total",
			Help:      "Requests denied by the token ledger",
		},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "persona",
			Subsystem: "server",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint", "status"},
	)

	// Completion inference duration
	CompletionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "persona",
			Subsystem: "server",
			Name:      "completion_duration_seconds",
			Help:      "Completion inference duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"model"},
	)

	// Widget traffic
	WidgetMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "persona",
			Subsystem: "server",
			Name:      "widget_messages_total",
			Help:      "Widget chat messages by role",
		},
		[]string{"role"},
	)

	// Billing events
	BillingEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "persona",
			Subsystem: "server",
			Name:      "billing_events_total",
			Help:      "Billing webhook events by type and outcome",
		},
		[]string{"event_type", "status"},
	)
)

// RecordRequest records an HTTP request with all relevant labels
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint, status).Observe(durationSec)
}

// RecordTokens records token usage for a completion request
func RecordTokens(model string, promptTokens, completionTokens int) {
	TokensPromptTotal.WithLabelValues(model).Add(float64(promptTokens))
	TokensCompletionTotal.WithLabelValues(model).Add(float64(completionTokens))
}

// RecordCompletionDuration records the duration of a completion call
func RecordCompletionDuration(model string, durationSec float64) {
	CompletionDuration.WithLabelValues(model).Observe(durationSec)
}

// RecordProviderError records a provider error
func RecordProviderError(provider, errorType string) {
	ProviderErrorsTotal.WithLabelValues(provider, errorType).Inc()
}

// RecordImageOutcome records one image generation attempt
func RecordImageOutcome(outcome string) {
	ImagesGeneratedTotal.WithLabelValues(outcome).Inc()
}

// RecordWidgetMessage records one persisted widget chat turn
func RecordWidgetMessage(role string) {
	WidgetMessagesTotal.WithLabelValues(role).Inc()
}

// RecordBillingEvent records a processed billing webhook event
func RecordBillingEvent(eventType, status string) {
	BillingEventsTotal.WithLabelValues(eventType, status).Inc()
}
