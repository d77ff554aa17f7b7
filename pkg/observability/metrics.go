package observability

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/qdsl/pkg/domain"
)

// Metrics holds the builder collectors. It is safe for concurrent use, so one
// instance may observe several experiments.
type Metrics struct {
	SectionsOpened *prometheus.CounterVec
	SectionsClosed *prometheus.CounterVec
	Operations     *prometheus.CounterVec
	ScopeDepth     prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		SectionsOpened: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qdsl_sections_opened_total",
				Help: "Total number of section scopes opened",
			},
			[]string{"kind"},
		),
		SectionsClosed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qdsl_sections_closed_total",
				Help: "Total number of section scopes closed",
			},
			[]string{"kind"},
		),
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qdsl_operations_total",
				Help: "Total number of leaf operations attached",
			},
			[]string{"kind"},
		),
		ScopeDepth: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "qdsl_scope_depth",
			Help:    "Scope stack depth after each section open",
			Buckets: prometheus.LinearBuckets(1, 1, 8),
		}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.SectionsOpened, m.SectionsClosed, m.Operations, m.ScopeDepth} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns builder hooks that update the collectors.
func (m *Metrics) Hooks() domain.ScopeHooks {
	return domain.ScopeHooks{
		OnOpen: func(ev *domain.ScopeEvent) {
			m.SectionsOpened.WithLabelValues(ev.Kind.String()).Inc()
			m.ScopeDepth.Observe(float64(ev.Depth))
		},
		OnClose: func(ev *domain.ScopeEvent) {
			m.SectionsClosed.WithLabelValues(ev.Kind.String()).Inc()
		},
		OnOperation: func(ev *domain.OperationEvent) {
			m.Operations.WithLabelValues(ev.Kind.String()).Inc()
		},
	}
}

// Chain combines hooks so that each callback runs in order.
func Chain(hooks ...domain.ScopeHooks) domain.ScopeHooks {
	return domain.ScopeHooks{
		OnOpen: func(ev *domain.ScopeEvent) {
			for _, h := range hooks {
				if h.OnOpen != nil {
					h.OnOpen(ev)
				}
			}
		},
		OnClose: func(ev *domain.ScopeEvent) {
			for _, h := range hooks {
				if h.OnClose != nil {
					h.OnClose(ev)
				}
			}
		},
		OnOperation: func(ev *domain.OperationEvent) {
			for _, h := range hooks {
				if h.OnOperation != nil {
					h.OnOperation(ev)
				}
			}
		},
	}
}
