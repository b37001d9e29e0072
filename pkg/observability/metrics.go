// Package observability turns companion lifecycle events into Prometheus metrics and log lines.
package observability

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aretw0/selim/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors fed by LifecycleHooks.
type Metrics struct {
	registry *prometheus.Registry

	turns        *prometheus.CounterVec
	turnDuration *prometheus.HistogramVec
	sessions     *prometheus.CounterVec
	liveSession  prometheus.Gauge
}

// NewMetrics creates the collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		turns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "selim_turns_total",
				Help: "Total number of dispatched turns",
			},
			[]string{"source", "is_error"},
		),
		turnDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "selim_turn_duration_seconds",
				Help:    "Duration of dispatched turns",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),
		sessions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "selim_session_events_total",
				Help: "Remote session handle creations and resets",
			},
			[]string{"event"},
		),
		liveSession: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "selim_remote_session_live",
				Help: "1 while a remote session handle exists",
			},
		),
	}
	m.registry.MustRegister(m.turns, m.turnDuration, m.sessions, m.liveSession)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks returns lifecycle callbacks that record metrics.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTurnEnd: func(_ context.Context, e *domain.TurnEvent) {
			if e.Outcome == nil {
				return
			}
			source := string(e.Outcome.Source)
			isError := "false"
			if e.Outcome.IsError {
				isError = "true"
			}
			m.turns.WithLabelValues(source, isError).Inc()
			m.turnDuration.WithLabelValues(source).Observe(e.Duration.Seconds())
		},
		OnSessionCreate: func(context.Context, *domain.SessionEvent) {
			m.sessions.WithLabelValues(string(domain.EventSessionCreate)).Inc()
			m.liveSession.Set(1)
		},
		OnSessionReset: func(context.Context, *domain.SessionEvent) {
			m.sessions.WithLabelValues(string(domain.EventSessionReset)).Inc()
			m.liveSession.Set(0)
		},
	}
}

// LogHooks returns lifecycle callbacks that write debug log lines.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTurnStart: func(_ context.Context, e *domain.TurnEvent) {
			logger.Debug("turn_start", "remote", e.Remote)
		},
		OnTurnEnd: func(_ context.Context, e *domain.TurnEvent) {
			if e.Outcome == nil {
				return
			}
			logger.Debug("turn_end",
				"source", e.Outcome.Source,
				"is_error", e.Outcome.IsError,
				"duration", e.Duration,
			)
		},
		OnSessionCreate: func(_ context.Context, e *domain.SessionEvent) {
			logger.Debug("session_create", "session_id", e.SessionID, "epoch", e.Epoch)
		},
		OnSessionReset: func(_ context.Context, e *domain.SessionEvent) {
			logger.Debug("session_reset", "session_id", e.SessionID, "epoch", e.Epoch)
		},
	}
}
