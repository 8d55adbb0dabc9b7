package handlepool

import (
	"iter"
	"math"
	"sync/atomic"

	"github.com/eapache/queue"
	"go.uber.org/zap"
)

// lastPoolID hands out pool identities; 0 is reserved for the zero Handle.
var lastPoolID atomic.Uint64

// slot is a single storage location. Its index never changes once assigned.
type slot[T any] struct {
	value    T
	active   bool
	revision uint32
}

// Pool is a growable array of slots addressed through generational handles.
// Not goroutine-safe: a Pool has a single owner.
type Pool[T any] struct {
	id      uint64
	storage []slot[T]
	free    *queue.Queue // slot indices (int), oldest freed first
	active  int
	log     *zap.Logger

	allocations uint64
	reuses      uint64
	frees       uint64
}

// New creates an empty Pool.
func New[T any](opts ...Option) *Pool[T] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Pool[T]{
		id:      lastPoolID.Add(1),
		storage: make([]slot[T], 0, o.capacity),
		free:    queue.New(),
		log:     o.logger,
	}
}

// Insert stores v and returns a handle to it.
// The oldest freed slot is reused first, with its revision bumped;
// otherwise a new slot is appended with revision 0.
func (p *Pool[T]) Insert(v T) Handle[T] {
	if p.free.Length() == 0 {
		return p.push(v)
	}
	i := p.reuse("insert")
	p.storage[i].value = v
	return p.handle(i)
}

// Free deactivates the slot h points at and queues it for reuse.
// The stored value stays in place until the slot is reused.
// Freeing a handle that is not valid (double free, stale handle) panics.
func (p *Pool[T]) Free(h Handle[T]) {
	p.checkOwner(h, "free")
	if !p.valid(h) {
		p.fault(ErrStaleHandle, "free", h.Index(), h.revision)
	}
	p.storage[h.index].active = false
	p.free.Add(int(h.index))
	p.active--
	p.frees++
}

// IsValid reports whether h still resolves to the value it was issued for.
// The zero Handle is never valid.
func (p *Pool[T]) IsValid(h Handle[T]) bool {
	if h.IsZero() {
		return false
	}
	p.checkOwner(h, "is valid")
	return p.valid(h)
}

// Get returns a pointer to the value stored in the slot h points at.
//
// Get does not check validity: for a stale handle it returns whatever the
// slot currently holds. Call IsValid first, or use Lookup.
// The pointer is only meaningful until the next Insert that grows storage.
func (p *Pool[T]) Get(h Handle[T]) *T {
	p.checkOwner(h, "get")
	return &p.storage[h.index].value
}

// Value returns a copy of the value stored in the slot h points at.
// Like Get, it does not check validity.
func (p *Pool[T]) Value(h Handle[T]) T {
	return *p.Get(h)
}

// Lookup is the checked form of Get: it returns nil, false when h is not valid.
func (p *Pool[T]) Lookup(h Handle[T]) (*T, bool) {
	if !p.IsValid(h) {
		return nil, false
	}
	return &p.storage[h.index].value, true
}

// Recycle reactivates the oldest freed slot with the value it already holds
// and returns a fresh handle to it. Panics if no slot has been freed.
func (p *Pool[T]) Recycle() Handle[T] {
	if p.free.Length() == 0 {
		p.fault(ErrNoFreeSlot, "recycle", -1, 0)
	}
	return p.handle(p.reuse("recycle"))
}

// TryRecycle is Recycle without the panic: ok is false when no slot is free.
func (p *Pool[T]) TryRecycle() (h Handle[T], ok bool) {
	if p.free.Length() == 0 {
		return h, false
	}
	return p.handle(p.reuse("recycle")), true
}

// At returns the value stored at slot index i regardless of its state.
func (p *Pool[T]) At(i int) *T {
	if i < 0 || i >= len(p.storage) {
		p.fault(ErrIndexOutOfRange, "at", i, 0)
	}
	return &p.storage[i].value
}

// ForEach calls visit for every active slot in index order.
// visit must not insert into or free from the pool.
func (p *Pool[T]) ForEach(visit func(*T)) {
	for i := range p.storage {
		if p.storage[i].active {
			visit(&p.storage[i].value)
		}
	}
}

// ForEachValue is the read-only form of ForEach.
func (p *Pool[T]) ForEachValue(visit func(T)) {
	for i := range p.storage {
		if p.storage[i].active {
			visit(p.storage[i].value)
		}
	}
}

// All yields a handle and a value pointer for every active slot in index order.
func (p *Pool[T]) All() iter.Seq2[Handle[T], *T] {
	return func(yield func(Handle[T], *T) bool) {
		for i := range p.storage {
			if !p.storage[i].active {
				continue
			}
			if !yield(p.handle(i), &p.storage[i].value) {
				return
			}
		}
	}
}

// push appends a new active slot holding v.
func (p *Pool[T]) push(v T) Handle[T] {
	i := len(p.storage)
	if uint64(i) > math.MaxUint32 {
		p.fault(ErrCapacityExceeded, "insert", i, 0)
	}
	oldCap := cap(p.storage)
	p.storage = append(p.storage, slot[T]{value: v, active: true})
	if c := cap(p.storage); c != oldCap {
		if ce := p.log.Check(zap.DebugLevel, "handlepool: storage grown"); ce != nil {
			ce.Write(zap.Uint64("pool", p.id), zap.Int("capacity", c))
		}
	}
	p.active++
	p.allocations++
	return p.handle(i)
}

// reuse pops the oldest freed slot, reactivates it and bumps its revision.
func (p *Pool[T]) reuse(op string) int {
	i := p.free.Remove().(int)
	s := &p.storage[i]
	if s.active {
		p.fault(ErrSlotActive, op, i, s.revision)
	}
	s.active = true
	s.revision++
	p.active++
	p.reuses++
	return i
}

func (p *Pool[T]) handle(i int) Handle[T] {
	return Handle[T]{pool: p.id, index: uint32(i), revision: p.storage[i].revision}
}

func (p *Pool[T]) valid(h Handle[T]) bool {
	s := &p.storage[h.index]
	return s.active && s.revision == h.revision
}

func (p *Pool[T]) checkOwner(h Handle[T], op string) {
	if h.pool != p.id {
		p.fault(ErrForeignHandle, op, h.Index(), h.revision)
	}
}
