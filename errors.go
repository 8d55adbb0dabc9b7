package handlepool

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Sentinel errors wrapped by the values that faulting operations panic with.
// A caller that recovers can classify the fault with errors.Is.
var (
	ErrForeignHandle    = errors.New("handle used with a pool that did not issue it")
	ErrStaleHandle      = errors.New("handle is not valid")
	ErrNoFreeSlot       = errors.New("no freed slot to recycle")
	ErrSlotActive       = errors.New("free list yielded an active slot")
	ErrIndexOutOfRange  = errors.New("slot index out of range")
	ErrCapacityExceeded = errors.New("slot index space exhausted")
)

// fault logs a programming error and panics with err wrapped in a
// stack-carrying error.
func (p *Pool[T]) fault(err error, op string, index int, revision uint32) {
	p.log.Error("handlepool: "+op+" fault",
		zap.Uint64("pool", p.id),
		zap.Int("index", index),
		zap.Uint32("revision", revision),
		zap.Error(err),
	)
	panic(errors.Wrapf(err, "handlepool: %s (pool %d, index %d, revision %d)", op, p.id, index, revision))
}
