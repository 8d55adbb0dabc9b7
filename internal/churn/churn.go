// Package churn drives a handlepool.Pool with a seeded random workload and
// checks the generational guarantee on every step: a freed handle must
// never resolve again, and a live handle must always resolve to the entity
// it was issued for.
package churn

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/pavanmanishd/handlepool"
	"github.com/pavanmanishd/handlepool/metrics"
)

// ErrInvariantViolated is returned when a handle resolves to the wrong value.
var ErrInvariantViolated = errors.New("generational invariant violated")

// Entity is the value stored in the churned pool.
type Entity struct {
	ID    uint64
	Round int
}

// Report summarizes a run.
type Report struct {
	Rounds      int                    `json:"rounds"`
	Operations  int                    `json:"operations"`
	Inserts     int                    `json:"inserts"`
	Frees       int                    `json:"frees"`
	Recycles    int                    `json:"recycles"`
	LiveProbes  int                    `json:"live_probes"`
	StaleProbes int                    `json:"stale_probes"`
	Elapsed     time.Duration          `json:"elapsed_ns"`
	Pool        handlepool.PoolMetrics `json:"pool"`
}

type runner struct {
	cfg  Config
	log  *zap.Logger
	rng  *rand.Rand
	pool *handlepool.Pool[Entity]

	live   []handlepool.Handle[Entity]
	want   map[handlepool.Handle[Entity]]uint64 // live handle -> entity ID
	stale  []handlepool.Handle[Entity]
	parked map[int]Entity // freed slot index -> value it still holds
	nextID uint64
	round  int
	report Report
}

// Run executes the workload. rec may be nil. A run with cfg.Rounds <= 0
// repeats rounds until ctx is done and then returns the report without error.
func Run(ctx context.Context, cfg Config, log *zap.Logger, rec *metrics.Recorder) (Report, error) {
	if err := cfg.Validate(); err != nil {
		return Report{}, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	r := &runner{
		cfg:    cfg,
		log:    log,
		rng:    rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		pool:   handlepool.New[Entity](handlepool.WithCapacity(cfg.Capacity), handlepool.WithLogger(log)),
		want:   make(map[handlepool.Handle[Entity]]uint64),
		parked: make(map[int]Entity),
	}

	start := time.Now()
	for r.round = 0; cfg.Rounds <= 0 || r.round < cfg.Rounds; r.round++ {
		if err := r.runRound(ctx); err != nil {
			if cfg.Rounds <= 0 && errors.Is(err, ctx.Err()) {
				break
			}
			return r.finish(start), err
		}
		m := r.pool.Metrics()
		if rec != nil {
			rec.Record(m)
		}
		log.Info("churn round complete",
			zap.Int("round", r.round),
			zap.Int("active", m.Active),
			zap.Int("slots", m.Slots),
			zap.Uint64("reuses", m.Reuses),
		)
	}
	return r.finish(start), nil
}

func (r *runner) finish(start time.Time) Report {
	r.report.Rounds = r.round
	r.report.Elapsed = time.Since(start)
	r.report.Pool = r.pool.Metrics()
	return r.report
}

func (r *runner) runRound(ctx context.Context) error {
	for i := 0; i < r.cfg.Operations; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.step(); err != nil {
			return err
		}
		r.report.Operations++
	}
	return nil
}

func (r *runner) step() error {
	x := r.rng.Float64()
	switch {
	case len(r.live) == 0 || x < r.cfg.InsertRatio:
		r.insert()
	case x < r.cfg.InsertRatio+r.cfg.RecycleRatio && r.pool.FreeSlots() > 0:
		if err := r.recycle(); err != nil {
			return err
		}
	default:
		r.free()
	}
	if err := r.probeLive(); err != nil {
		return err
	}
	return r.probeStale()
}

func (r *runner) insert() {
	r.nextID++
	e := Entity{ID: r.nextID, Round: r.round}
	h := r.pool.Insert(e)
	delete(r.parked, h.Index())
	r.track(h, e.ID)
	r.report.Inserts++
}

func (r *runner) recycle() error {
	h, ok := r.pool.TryRecycle()
	if !ok {
		return nil
	}
	e, ok := r.parked[h.Index()]
	if !ok {
		return errors.Wrapf(ErrInvariantViolated, "recycled %s was never freed", h)
	}
	delete(r.parked, h.Index())
	if got := r.pool.Value(h); got != e {
		return errors.Wrapf(ErrInvariantViolated, "recycled %s holds %+v, want %+v", h, got, e)
	}
	r.track(h, e.ID)
	r.report.Recycles++
	return nil
}

func (r *runner) free() {
	i := r.rng.IntN(len(r.live))
	h := r.live[i]
	r.live[i] = r.live[len(r.live)-1]
	r.live = r.live[:len(r.live)-1]

	r.parked[h.Index()] = r.pool.Value(h)
	delete(r.want, h)
	r.pool.Free(h)
	r.report.Frees++

	if r.cfg.StaleWindow == 0 {
		return
	}
	if len(r.stale) >= r.cfg.StaleWindow {
		r.stale = r.stale[1:]
	}
	r.stale = append(r.stale, h)
}

func (r *runner) track(h handlepool.Handle[Entity], id uint64) {
	r.live = append(r.live, h)
	r.want[h] = id
}

func (r *runner) probeLive() error {
	if len(r.live) == 0 {
		return nil
	}
	h := r.live[r.rng.IntN(len(r.live))]
	e, ok := r.pool.Lookup(h)
	if !ok {
		return errors.Wrapf(ErrInvariantViolated, "live %s does not resolve", h)
	}
	if e.ID != r.want[h] {
		return errors.Wrapf(ErrInvariantViolated, "live %s resolves to entity %d, want %d", h, e.ID, r.want[h])
	}
	r.report.LiveProbes++
	return nil
}

func (r *runner) probeStale() error {
	if len(r.stale) == 0 {
		return nil
	}
	h := r.stale[r.rng.IntN(len(r.stale))]
	if r.pool.IsValid(h) {
		return errors.Wrapf(ErrInvariantViolated, "freed %s still resolves", h)
	}
	r.report.StaleProbes++
	return nil
}
