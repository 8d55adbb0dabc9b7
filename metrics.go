package handlepool

// Len returns the number of active slots.
func (p *Pool[T]) Len() int {
	return p.active
}

// Slots returns the length of the backing storage. It never shrinks.
func (p *Pool[T]) Slots() int {
	return len(p.storage)
}

// FreeSlots returns the number of slots queued for reuse.
func (p *Pool[T]) FreeSlots() int {
	return p.free.Length()
}

// Utilization returns the ratio of active slots to storage length (0.0 to 1.0).
// Returns 0.0 if the pool has no slots.
func (p *Pool[T]) Utilization() float64 {
	if len(p.storage) == 0 {
		return 0
	}
	return float64(p.active) / float64(len(p.storage))
}

// ID returns the identity token carried by handles this pool issues.
func (p *Pool[T]) ID() uint64 {
	return p.id
}

// Metrics returns a snapshot of pool statistics.
func (p *Pool[T]) Metrics() PoolMetrics {
	return PoolMetrics{
		Active:      p.Len(),
		Free:        p.FreeSlots(),
		Slots:       p.Slots(),
		Allocations: p.allocations,
		Reuses:      p.reuses,
		Frees:       p.frees,
		Utilization: p.Utilization(),
	}
}

// PoolMetrics contains statistical information about a pool.
type PoolMetrics struct {
	Active      int     `json:"active"`      // Slots holding a live value
	Free        int     `json:"free"`        // Slots queued for reuse
	Slots       int     `json:"slots"`       // Backing storage length
	Allocations uint64  `json:"allocations"` // Slots appended over the pool's lifetime
	Reuses      uint64  `json:"reuses"`      // Freed slots reactivated by Insert or Recycle
	Frees       uint64  `json:"frees"`       // Successful Free calls
	Utilization float64 `json:"utilization"` // Ratio of active slots to storage length (0.0-1.0)
}
