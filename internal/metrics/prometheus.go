// Package metrics exposes Prometheus metrics for the scene, the interaction
// controller and persistence. All recording methods are safe on a nil
// *Manager so components can run without metrics.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 2 * time.Second

// Manager owns the registry and every metric of the application.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	// Scene
	sceneObjects    prometheus.Gauge
	degradedVisuals prometheus.Counter
	frameTick       prometheus.Histogram
	animationPanics prometheus.Counter

	// Interaction
	hoverEnters  prometheus.Counter
	selections   prometheus.Counter
	deselections prometheus.Counter

	// Persistence
	persistenceFailures *prometheus.CounterVec
	imports             *prometheus.CounterVec
}

// NewManager creates a metrics manager on a private registry unless one is
// supplied.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "singularity",
		subsystem:        "scene",
		histogramBuckets: []float64{0.0005, 0.001, 0.002, 0.004, 0.008, 0.016, 0.033},
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.sceneObjects = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "objects",
		Help:      "Number of event objects currently in the scene",
	})

	m.degradedVisuals = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "degraded_visuals_total",
		Help:      "Records rendered with the fallback visual",
	})

	m.frameTick = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tick_duration_seconds",
		Help:      "Time spent advancing the animation clock per frame",
		Buckets:   m.histogramBuckets,
	})

	m.animationPanics = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "animation_recoveries_total",
		Help:      "Objects whose animation step panicked and was skipped",
	})

	m.hoverEnters = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "interaction",
		Name:      "hover_enter_total",
		Help:      "Hover-enter transitions",
	})

	m.selections = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "interaction",
		Name:      "selections_total",
		Help:      "Select-enter transitions",
	})

	m.deselections = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "interaction",
		Name:      "deselections_total",
		Help:      "Select-exit transitions",
	})

	m.persistenceFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "persistence",
		Name:      "failures_total",
		Help:      "Failed persistence operations by operation",
	}, []string{"operation"})

	m.imports = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "persistence",
		Name:      "imports_total",
		Help:      "Successful imports by mode",
	}, []string{"mode"})
}

// Registry returns the registry backing this manager.
func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Manager) SetSceneObjects(n int) {
	if m == nil {
		return
	}
	m.sceneObjects.Set(float64(n))
}

func (m *Manager) RecordDegradedVisual() {
	if m == nil {
		return
	}
	m.degradedVisuals.Inc()
}

func (m *Manager) ObserveTick(d time.Duration) {
	if m == nil {
		return
	}
	m.frameTick.Observe(d.Seconds())
}

func (m *Manager) RecordAnimationRecovery() {
	if m == nil {
		return
	}
	m.animationPanics.Inc()
}

func (m *Manager) RecordHoverEnter() {
	if m == nil {
		return
	}
	m.hoverEnters.Inc()
}

func (m *Manager) RecordSelection() {
	if m == nil {
		return
	}
	m.selections.Inc()
}

func (m *Manager) RecordDeselection() {
	if m == nil {
		return
	}
	m.deselections.Inc()
}

func (m *Manager) RecordPersistenceFailure(operation string) {
	if m == nil {
		return
	}
	m.persistenceFailures.WithLabelValues(operation).Inc()
}

func (m *Manager) RecordImport(mode string) {
	if m == nil {
		return
	}
	m.imports.WithLabelValues(mode).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Manager) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
