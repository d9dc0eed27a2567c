package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DiscordMetrics records the outcome of discord-side operations.
type DiscordMetrics interface {
	RecordAPIRequest(ctx context.Context, operation string)
	RecordAPIError(ctx context.Context, operation string, errorType string)
	RecordAPIRequestDuration(ctx context.Context, operation string, duration time.Duration)
}

type discordMetrics struct {
	requests  *prometheus.CounterVec
	errors    *prometheus.CounterVec
	durations *prometheus.HistogramVec
}

// NewDiscordMetrics registers the discord operation collectors on the given
// registry and returns the recording surface.
func NewDiscordMetrics(registry prometheus.Registerer) (DiscordMetrics, error) {
	m := &discordMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "discord_api_requests_total",
			Help: "Completed discord-side operations.",
		}, []string{"operation"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "discord_api_errors_total",
			Help: "Failed discord-side operations.",
		}, []string{"operation", "error_type"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "discord_api_request_duration_seconds",
			Help:    "Duration of discord-side operations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	for _, c := range []prometheus.Collector{m.requests, m.errors, m.durations} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *discordMetrics) RecordAPIRequest(_ context.Context, operation string) {
	m.requests.WithLabelValues(operation).Inc()
}

func (m *discordMetrics) RecordAPIError(_ context.Context, operation string, errorType string) {
	m.errors.WithLabelValues(operation, errorType).Inc()
}

func (m *discordMetrics) RecordAPIRequestDuration(_ context.Context, operation string, duration time.Duration) {
	m.durations.WithLabelValues(operation).Observe(duration.Seconds())
}

// NoOp returns a DiscordMetrics that records nothing, for tests.
func NoOp() DiscordMetrics {
	return noOpMetrics{}
}

type noOpMetrics struct{}

func (noOpMetrics) RecordAPIRequest(context.Context, string)                        {}
func (noOpMetrics) RecordAPIError(context.Context, string, string)                  {}
func (noOpMetrics) RecordAPIRequestDuration(context.Context, string, time.Duration) {}
