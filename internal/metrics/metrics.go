package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abrezinsky/judgesched/internal/models"
)

const namespace = "judgesched"

// Metrics records scheduling activity on its own registry
type Metrics struct {
	registry         *prometheus.Registry
	populateDuration prometheus.Histogram
	unitsPlaced      prometheus.Counter
	placementTier    *prometheus.CounterVec
	conflicts        *prometheus.GaugeVec
	mutations        *prometheus.CounterVec
}

// New creates the metric set, including Go runtime and process collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		populateDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "populate_duration_seconds",
			Help:      "Time spent filling the schedule grid.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		unitsPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "units_placed_total",
			Help:      "Session units placed by populate.",
		}),
		placementTier: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "placement_tier_total",
			Help:      "Entrant placements by the search tier that satisfied them.",
		}, []string{"tier"}),
		conflicts: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "conflicts",
			Help:      "Conflicts in the current schedule.",
		}, []string{"kind", "severity"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedule_mutations_total",
			Help:      "Schedule changes by operation.",
		}, []string{"operation"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.populateDuration,
		m.unitsPlaced,
		m.placementTier,
		m.conflicts,
		m.mutations,
	)
	return m
}

// ObservePopulate records one populate run
func (m *Metrics) ObservePopulate(d time.Duration, unitsPlaced int, tiers []string) {
	m.populateDuration.Observe(d.Seconds())
	m.unitsPlaced.Add(float64(unitsPlaced))
	for _, t := range tiers {
		m.placementTier.WithLabelValues(t).Inc()
	}
	m.mutations.WithLabelValues("populate").Inc()
}

// CountMutation records a schedule change other than populate
func (m *Metrics) CountMutation(operation string) {
	m.mutations.WithLabelValues(operation).Inc()
}

// SetConflicts replaces the conflict gauges with counts from list
func (m *Metrics) SetConflicts(list []models.ConflictDetail) {
	m.conflicts.Reset()
	for _, c := range list {
		m.conflicts.WithLabelValues(string(c.Kind), string(c.Severity)).Inc()
	}
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
