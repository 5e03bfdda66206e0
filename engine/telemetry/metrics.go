// Package telemetry wires prometheus metrics and a chi-based read-only
// status surface for the engine. It is a read side only: the engine
// still has no metrics *collector* in scope, just gauges an external
// collector (or a human hitting /metrics) can scrape.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is registered into the engine's ServiceRegistry so any agent
// can record against it without a direct import-time dependency on the
// telemetry package's construction.
type Metrics struct {
	GCPendingHoles    prometheus.Gauge
	GCPendingOrphans  prometheus.Gauge
	QueryPlanHits     prometheus.Counter
	QueryPlanMisses   prometheus.Counter
	AgentHealth       *prometheus.GaugeVec
}

// NewMetrics registers every gauge/counter against reg (pass
// prometheus.NewRegistry() for test isolation, or
// prometheus.DefaultRegisterer in production).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		GCPendingHoles: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "khora",
			Subsystem: "ecs",
			Name:      "gc_pending_holes",
			Help:      "Rows awaiting swap-remove compaction across all domains.",
		}),
		GCPendingOrphans: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "khora",
			Subsystem: "ecs",
			Name:      "gc_pending_orphans",
			Help:      "Rows orphaned by despawn or domain removal awaiting swap-remove compaction across all domains.",
		}),
		QueryPlanHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "khora",
			Subsystem: "ecs",
			Name:      "query_plan_cache_hits_total",
			Help:      "Query plan lookups served from cache.",
		}),
		QueryPlanMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "khora",
			Subsystem: "ecs",
			Name:      "query_plan_cache_misses_total",
			Help:      "Query plan lookups that required replanning.",
		}),
		AgentHealth: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "khora",
			Subsystem: "gorna",
			Name:      "agent_health_score",
			Help:      "Last reported health score per agent, 0.0-1.0.",
		}, []string{"agent"}),
	}
}
