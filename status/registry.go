// Package status keeps named session counters and gauges, logged when a session ends
package status

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// Metric names recorded by the game host
const (
	SequenceMatches    = "sequence.matches"
	ClickActivations   = "clicker.activations"
	ClickUnlocks       = "clicker.unlocks"
	EffectBatches      = "effect.batches"
	EffectParticles    = "effect.particles"
	LiveBatches        = "effect.live_batches"
	ConfigReloads      = "config.reloads"
	ConfigReloadErrors = "config.reload_errors"
)

// Registry holds monotonically increasing counters and last-value gauges
type Registry struct {
	counters *MetricMap[atomic.Int64]
	gauges   *MetricMap[atomic.Int64]
}

// Metric is one value of a snapshot
type Metric struct {
	Name  string
	Value int64
	Gauge bool
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		counters: NewMetricMap[atomic.Int64](),
		gauges:   NewMetricMap[atomic.Int64](),
	}
}

// Counter returns the named counter, callers may cache the pointer
func (r *Registry) Counter(name string) *atomic.Int64 {
	return r.counters.Get(name)
}

// Gauge returns the named gauge, callers may cache the pointer
func (r *Registry) Gauge(name string) *atomic.Int64 {
	return r.gauges.Get(name)
}

// Len returns the number of registered metrics
func (r *Registry) Len() int {
	return r.counters.Count() + r.gauges.Count()
}

// Snapshot returns counters then gauges, each sorted by name
func (r *Registry) Snapshot() []Metric {
	out := make([]Metric, 0, r.Len())
	r.counters.Range(func(k string, v *atomic.Int64) {
		out = append(out, Metric{Name: k, Value: v.Load()})
	})
	r.gauges.Range(func(k string, v *atomic.Int64) {
		out = append(out, Metric{Name: k, Value: v.Load(), Gauge: true})
	})
	return out
}

// Fields renders the snapshot as structured log fields
func (r *Registry) Fields() []zap.Field {
	snap := r.Snapshot()
	fields := make([]zap.Field, len(snap))
	for i, m := range snap {
		fields[i] = zap.Int64(m.Name, m.Value)
	}
	return fields
}
