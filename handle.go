package handlepool

import "fmt"

// Handle refers to one occupant of one slot in the Pool that issued it.
//
// A Handle is a small comparable value and may be copied freely. It never
// owns the slot or its value. It resolves only while the slot is active and
// still carries the revision the handle was issued with; once the slot is
// freed the handle stays unresolvable forever, even after the slot is reused.
//
// The zero Handle belongs to no pool and is never valid.
type Handle[T any] struct {
	pool     uint64
	index    uint32
	revision uint32
}

// Index returns the slot index the handle points at.
func (h Handle[T]) Index() int { return int(h.index) }

// Revision returns the slot revision captured when the handle was issued.
func (h Handle[T]) Revision() uint32 { return h.revision }

// IsZero reports whether h is the zero Handle.
func (h Handle[T]) IsZero() bool { return h.pool == 0 }

// String formats the handle as pool/index@revision.
func (h Handle[T]) String() string {
	if h.IsZero() {
		return "handle(nil)"
	}
	return fmt.Sprintf("handle(%d/%d@%d)", h.pool, h.index, h.revision)
}
