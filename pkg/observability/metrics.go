package observability

import (
	"context"
	"net/http"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lattice"

// Metrics holds the prometheus collectors fed by lifecycle hooks.
type Metrics struct {
	registry *prometheus.Registry

	CellRenders *prometheus.CounterVec
	Faults      prometheus.Counter
	Focus       *prometheus.CounterVec
	Scrolls     prometheus.Counter
	RenderDepth prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on a dedicated registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		CellRenders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cell_renders_total",
			Help:      "Total number of rendered cells by view kind",
		}, []string{"kind"}),
		Faults: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_faults_total",
			Help:      "Total number of faults captured by cell boundaries",
		}),
		Focus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "focus_decisions_total",
			Help:      "Pointer interactions by outcome",
		}, []string{"outcome"}),
		Scrolls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scrolls_total",
			Help:      "Total number of cells scrolled into view",
		}),
		RenderDepth: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cell_depth",
			Help:      "Depth of rendered cells in the tree",
			Buckets:   prometheus.LinearBuckets(0, 1, 8),
		}),
	}
	m.registry.MustRegister(m.CellRenders, m.Faults, m.Focus, m.Scrolls, m.RenderDepth)
	return m
}

// Registry exposes the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the collectors in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCellRender: func(_ context.Context, e *domain.CellEvent) {
			m.CellRenders.WithLabelValues(string(e.Kind)).Inc()
			m.RenderDepth.Observe(float64(e.Depth))
		},
		OnFault: func(_ context.Context, _ *domain.FaultEvent) {
			m.Faults.Inc()
		},
		OnFocus: func(_ context.Context, e *domain.FocusEvent) {
			outcome := "accepted"
			if !e.Decision.Accepted {
				outcome = string(e.Decision.Reason)
			}
			m.Focus.WithLabelValues(outcome).Inc()
		},
		OnScroll: func(_ context.Context, _ *domain.ScrollEvent) {
			m.Scrolls.Inc()
		},
	}
}
