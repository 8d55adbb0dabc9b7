// Package metrics exports handlepool statistics to Prometheus.
//
// A Pool has a single owner, so the recorder never reads a pool itself.
// The owner pushes snapshots and the scrape goroutine only sees Prometheus
// collectors:
//
//	rec, err := metrics.NewRecorder("app", "sessions", prometheus.DefaultRegisterer)
//	if err != nil {
//		return err
//	}
//	...
//	rec.Record(pool.Metrics())
//
// # Exported Series
//
// Gauges: handlepool_active_slots, handlepool_free_slots, handlepool_slots,
// handlepool_utilization_ratio.
// Counters: handlepool_allocations_total, handlepool_reuses_total,
// handlepool_frees_total.
//
// Every series carries a constant "pool" label with the recorder name.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pavanmanishd/handlepool"
)

// Recorder mirrors pool snapshots into Prometheus collectors.
type Recorder struct {
	active      prometheus.Gauge
	free        prometheus.Gauge
	slots       prometheus.Gauge
	utilization prometheus.Gauge
	allocations prometheus.Counter
	reuses      prometheus.Counter
	frees       prometheus.Counter

	mu   sync.Mutex
	last handlepool.PoolMetrics // previous snapshot, for counter deltas
}

// NewRecorder registers the pool series with reg under namespace, labelled
// with name. A nil reg creates unregistered collectors.
func NewRecorder(namespace, name string, reg prometheus.Registerer) (*Recorder, error) {
	if err := validate(namespace, name); err != nil {
		return nil, err
	}
	f := promauto.With(reg)
	labels := prometheus.Labels{"pool": name}
	gauge := func(metric, help string) prometheus.Gauge {
		return f.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "handlepool",
			Name:        metric,
			Help:        help,
			ConstLabels: labels,
		})
	}
	counter := func(metric, help string) prometheus.Counter {
		return f.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "handlepool",
			Name:        metric,
			Help:        help,
			ConstLabels: labels,
		})
	}

	return &Recorder{
		active:      gauge("active_slots", "Slots holding a live value"),
		free:        gauge("free_slots", "Slots queued for reuse"),
		slots:       gauge("slots", "Backing storage length"),
		utilization: gauge("utilization_ratio", "Ratio of active slots to storage length"),
		allocations: counter("allocations_total", "Slots appended to backing storage"),
		reuses:      counter("reuses_total", "Freed slots reactivated"),
		frees:       counter("frees_total", "Slots freed"),
	}, nil
}

// Record publishes snapshot m. Counters advance by the difference from the
// previous snapshot; a snapshot older than the last one is ignored for counters.
func (r *Recorder) Record(m handlepool.PoolMetrics) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.active.Set(float64(m.Active))
	r.free.Set(float64(m.Free))
	r.slots.Set(float64(m.Slots))
	r.utilization.Set(m.Utilization)

	addDelta(r.allocations, r.last.Allocations, m.Allocations)
	addDelta(r.reuses, r.last.Reuses, m.Reuses)
	addDelta(r.frees, r.last.Frees, m.Frees)
	r.last = m
}

func addDelta(c prometheus.Counter, prev, cur uint64) {
	if cur > prev {
		c.Add(float64(cur - prev))
	}
}
