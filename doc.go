// Package handlepool implements a generational-handle pool for Go.
//
// # Overview
//
// A Pool stores values of one type in a growable array of slots and hands
// out Handles instead of pointers. A Handle records the slot index, the
// slot's revision at the time it was issued, and the identity of the pool.
// When a slot is freed and later reused its revision is bumped, so every
// handle to the previous occupant stops resolving. A handle either reaches
// the exact value it was issued for or reports itself invalid; it never
// silently aliases a newer value in the same slot.
//
// This is useful for:
//
//   - Entity tables in simulations and games
//   - Connection or session tables referenced from timers and callbacks
//   - Any graph of objects where references must survive removal safely
//
// # Basic Usage
//
//	p := handlepool.New[Session]()
//
//	h := p.Insert(Session{User: "ada"})
//	if s, ok := p.Lookup(h); ok {
//		s.Hits++
//	}
//
//	p.Free(h)
//	p.IsValid(h) // false, forever
//
//	h2 := p.Insert(Session{User: "bob"}) // reuses the slot, new revision
//	p.IsValid(h2) // true
//
// # Accessors
//
// Lookup is the checked accessor and the one new code should use. Get and
// Value are trusted accessors: they do not check validity and return
// whatever the slot holds, which is only correct for a handle the caller
// already knows to be valid.
//
// # Recycling
//
// Freed slots keep their value until reused. Recycle reactivates the oldest
// freed slot with that value under a new handle, instead of overwriting it.
//
// # Faults
//
// Misuse is a programming error and panics: using a handle with a pool that
// did not issue it, freeing a handle that is not valid, recycling with no
// freed slot. The panic value is an error wrapping one of the Err* sentinels
// and carries a stack trace.
//
// # Thread Safety
//
// A Pool is not goroutine-safe. It has a single owner; handles may be shared
// freely but every operation must go through the owner.
//
// # Performance Characteristics
//
//   - Insert, Free: O(1) amortized
//   - IsValid, Get, Lookup: O(1)
//   - ForEach, All: O(Slots()), not O(Len())
//   - Storage never shrinks
//
// # Metrics and Monitoring
//
//	m := p.Metrics()
//	fmt.Printf("Active: %d of %d slots\n", m.Active, m.Slots)
//	fmt.Printf("Reuses: %d\n", m.Reuses)
//
// Package metrics exports these snapshots to Prometheus.
package handlepool
