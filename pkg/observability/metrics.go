package observability

import (
	"github.com/aretw0/undokit/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for history activity.
type Metrics struct {
	operations *prometheus.CounterVec
	failures   *prometheus.CounterVec
	dropped    *prometheus.CounterVec
	clears     prometheus.Counter
	groupSize  prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "undokit_history_operations_total",
				Help: "History operations that moved a group, by operation.",
			},
			[]string{"op"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "undokit_history_command_errors_total",
				Help: "History operations where a command of the group failed, by operation.",
			},
			[]string{"op"},
		),
		dropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "undokit_history_groups_dropped_total",
				Help: "Groups removed from the undo stack without being undone, by reason.",
			},
			[]string{"reason"},
		),
		clears: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "undokit_history_clears_total",
			Help: "Number of history resets.",
		}),
		groupSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "undokit_history_group_size",
			Help:    "Number of commands per pushed group.",
			Buckets: []float64{0, 1, 2, 4, 8, 16, 32},
		}),
	}
	if reg != nil {
		reg.MustRegister(m.operations, m.failures, m.dropped, m.clears, m.groupSize)
	}
	return m
}

// Hooks returns lifecycle hooks that update the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	op := func(e *domain.HistoryEvent) {
		m.operations.WithLabelValues(string(e.Type)).Inc()
		if e.IsError() {
			m.failures.WithLabelValues(string(e.Type)).Inc()
		}
	}
	return domain.LifecycleHooks{
		OnPush: func(e *domain.HistoryEvent) {
			op(e)
			m.groupSize.Observe(float64(e.GroupSize))
		},
		OnUndo: op,
		OnRedo: op,
		OnDrop: func(e *domain.HistoryEvent) {
			m.dropped.WithLabelValues(string(e.Reason)).Inc()
		},
		OnClear: func(*domain.HistoryEvent) {
			m.clears.Inc()
		},
	}
}
