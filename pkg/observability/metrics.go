package observability

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hashhooshy/flux-labs/pkg/domain"
)

// Metrics collects interpreter lifecycle events into Prometheus metrics.
type Metrics struct {
	registry *prometheus.Registry

	commands        *prometheus.CounterVec
	commandDuration *prometheus.HistogramVec
	triggers        *prometheus.CounterVec
	persistOps      *prometheus.CounterVec
	persistDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flux_commands_total",
				Help: "Total number of dispatched commands",
			},
			[]string{"kind", "status"},
		),
		commandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "flux_command_duration_seconds",
				Help: "Duration of command dispatches",
			},
			[]string{"kind"},
		),
		triggers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flux_triggers_total",
				Help: "Total number of fired trigger closures",
			},
			[]string{"kind", "status"},
		),
		persistOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flux_persist_ops_total",
				Help: "Total number of document store round trips",
			},
			[]string{"op", "status"},
		),
		persistDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "flux_persist_duration_seconds",
				Help: "Duration of document store round trips",
			},
			[]string{"op"},
		),
	}
	m.registry.MustRegister(m.commands, m.commandDuration, m.triggers, m.persistOps, m.persistDuration)
	return m
}

// Hooks returns lifecycle hooks feeding the collectors. Pass them to the
// interpreter, joining with any other hooks via domain.JoinHooks.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCommand: func(ctx context.Context, e *domain.CommandEvent) {
			m.commands.WithLabelValues(e.Kind, status(e.Err)).Inc()
			m.commandDuration.WithLabelValues(e.Kind).Observe(e.Duration.Seconds())
		},
		OnTrigger: func(ctx context.Context, e *domain.TriggerEvent) {
			m.triggers.WithLabelValues(e.Kind, status(e.Err)).Inc()
		},
		OnPersist: func(ctx context.Context, e *domain.PersistEvent) {
			m.persistOps.WithLabelValues(e.Op, status(e.Err)).Inc()
			m.persistDuration.WithLabelValues(e.Op).Observe(e.Duration.Seconds())
		},
	}
}

// Handler serves the collected metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for callers that add their own
// collectors next to these.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
