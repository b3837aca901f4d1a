package telemetry

import (
	"net/http"
	"strconv"

	"github.com/openkraft/uiharness/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "uiharness"

// Metrics implements domain.MetricsRecorder on a private Prometheus registry.
// A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	sessionsActive prometheus.Gauge
	sessionsTotal  prometheus.Counter
	teardownFaults prometheus.Counter
	scenarios      *prometheus.CounterVec
	violations     *prometheus.CounterVec
}

// NewMetrics registers the harness collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		sessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Browser sessions currently held by running scenarios.",
		}),
		sessionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_opened_total",
			Help:      "Browser sessions opened.",
		}),
		teardownFaults: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "teardown_faults_total",
			Help:      "Handles that failed to close during session release.",
		}),
		scenarios: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scenarios_total",
			Help:      "Finished scenarios by status.",
		}, []string{"status"}),
		violations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "accessibility_violations_total",
			Help:      "Accessibility violations found by impact.",
		}, []string{"impact"}),
	}
}

// Registry exposes the collectors, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.sessionsTotal.Inc()
	m.sessionsActive.Inc()
}

func (m *Metrics) SessionClosed(teardownFaults int) {
	if m == nil {
		return
	}
	m.sessionsActive.Dec()
	m.teardownFaults.Add(float64(teardownFaults))
}

func (m *Metrics) ScenarioFinished(status domain.ScenarioStatus) {
	if m == nil {
		return
	}
	m.scenarios.WithLabelValues(string(status)).Inc()
}

func (m *Metrics) ViolationsFound(result domain.ScanResult) {
	if m == nil {
		return
	}
	for impact, n := range result.CountByImpact() {
		if n > 0 {
			m.violations.WithLabelValues(impactLabel(impact)).Add(float64(n))
		}
	}
}

func impactLabel(i domain.Impact) string {
	for _, known := range domain.AllImpacts {
		if i == known {
			return i.String()
		}
	}
	return strconv.Itoa(int(i))
}
