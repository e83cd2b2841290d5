// Package metrics exposes pool activity as Prometheus metrics.
//
// A nil *Collector is valid and records nothing, so the manager can run without metrics
// in tests and tools.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Spawn sources.
const (
	SourceReused  = "reused"
	SourceCreated = "created"
)

// Destruction reasons.
const (
	ReasonCapacity = "capacity"
	ReasonTrim     = "trim"
	ReasonShutdown = "shutdown"
)

// Collector wraps the pool metric vectors.
type Collector struct {
	spawns    *prometheus.CounterVec
	returns   *prometheus.CounterVec
	destroyed *prometheus.CounterVec
	errors    *prometheus.CounterVec
	active    *prometheus.GaugeVec
	free      *prometheus.GaugeVec
}

// NewCollector registers the pool metrics with reg.
//
// Example:
//
//	reg := prometheus.NewRegistry()
//	collector := metrics.NewCollector(reg)
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		spawns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "go_pool_spawns_total",
				Help: "Instances checked out of a pool",
			},
			[]string{"prototype", "category", "source"},
		),
		returns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "go_pool_returns_total",
				Help: "Instances checked back into a pool",
			},
			[]string{"prototype"},
		),
		destroyed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "go_pool_destroyed_total",
				Help: "Instances destroyed instead of recycled",
			},
			[]string{"prototype", "reason"},
		),
		errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "go_pool_errors_total",
				Help: "Recoverable pool manager errors by kind",
			},
			[]string{"kind"},
		),
		active: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "go_pool_active",
				Help: "Instances currently checked out",
			},
			[]string{"prototype"},
		),
		free: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "go_pool_free",
				Help: "Instances idle in the free list",
			},
			[]string{"prototype"},
		),
	}
}

// Spawned records a checkout.
func (c *Collector) Spawned(prototype, category string, reused bool) {
	if c == nil {
		return
	}
	source := SourceCreated
	if reused {
		source = SourceReused
	}
	c.spawns.WithLabelValues(prototype, category, source).Inc()
}

// Returned records a check-in.
func (c *Collector) Returned(prototype string) {
	if c == nil {
		return
	}
	c.returns.WithLabelValues(prototype).Inc()
}

// Destroyed records n destructions.
func (c *Collector) Destroyed(prototype, reason string, n int) {
	if c == nil || n <= 0 {
		return
	}
	c.destroyed.WithLabelValues(prototype, reason).Add(float64(n))
}

// Error records a recoverable error of the given kind.
func (c *Collector) Error(kind string) {
	if c == nil {
		return
	}
	c.errors.WithLabelValues(kind).Inc()
}

// Occupancy sets the active and free gauges of a pool.
func (c *Collector) Occupancy(prototype string, active, free int) {
	if c == nil {
		return
	}
	c.active.WithLabelValues(prototype).Set(float64(active))
	c.free.WithLabelValues(prototype).Set(float64(free))
}
