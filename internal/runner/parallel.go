package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/sourcegraph/conc/pool"

	"github.com/lockstep-sim/lockstep/internal/gate"
	"github.com/lockstep-sim/lockstep/internal/system"
)

// Parallel dispatches batches across a fixed-size worker pool,
// serializing the update bodies themselves through an exclusivity
// gate. The zero value is not usable; construct with NewParallel.
//
// A Parallel runner is stateless between batches apart from its gate
// and is safe to reuse across ticks. Creating and discarding runners
// without running a batch has no side effect.
type Parallel struct {
	workers int
	gate    *gate.Gate
}

// NewParallel returns a Parallel runner. By default the pool is sized
// to runtime.GOMAXPROCS(0) and the runner owns a fresh gate.
func NewParallel(opts ...Option) *Parallel {
	cfg := config{workers: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.workers < 1 {
		cfg.workers = 1
	}
	if cfg.gate == nil {
		cfg.gate = gate.New()
	}
	return &Parallel{workers: cfg.workers, gate: cfg.gate}
}

// firstFailure is the batch's write-once error slot. The first worker
// to CAS its error in wins; later errors are discarded.
type firstFailure struct {
	err error
}

// Run invokes Update exactly once per system with the given tick and
// returns the batch's single outcome: nil, the first observed
// UpdateError, or a FatalError if the gate broke.
//
// Which failure is "first" is whichever the collecting logic observes
// first; under concurrency that is not the lowest index. After a
// failure, workers skip systems not yet started but never interrupt an
// update in flight. An empty batch succeeds without touching the gate.
//
// There is no per-update deadline: an Update that never returns hangs
// the whole batch. Callers needing liveness must build it into the
// systems themselves.
func (p *Parallel) Run(ctx context.Context, systems []system.System, tick int64) error {
	if len(systems) == 0 {
		return nil
	}

	batchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var first atomic.Pointer[firstFailure]

	wp := pool.New().WithMaxGoroutines(p.workers)
	for i, s := range systems {
		wp.Go(func() {
			// Cooperative short-circuit: skip work queued behind a
			// failure or an outside cancellation.
			if first.Load() != nil || batchCtx.Err() != nil {
				return
			}
			err, fatal := p.update(batchCtx, s, tick)
			if err == nil {
				return
			}
			var wrapped error
			if fatal {
				wrapped = &FatalError{Index: i, System: s.Name(), Err: err}
			} else {
				wrapped = &UpdateError{Index: i, System: s.Name(), Err: err}
			}
			if first.CompareAndSwap(nil, &firstFailure{err: wrapped}) {
				cancel()
			}
		})
	}
	wp.Wait()

	if f := first.Load(); f != nil {
		return f.err
	}
	return ctx.Err()
}

// update performs one gated update. The guard is released on every
// exit path; a panic inside Update poisons the gate instead, because
// the host context may have been left mid-mutation.
func (p *Parallel) update(ctx context.Context, s system.System, tick int64) (err error, fatal bool) {
	guard, gerr := p.gate.Acquire()
	if gerr != nil {
		return gerr, true
	}
	defer func() {
		if r := recover(); r != nil {
			guard.Poison()
			err = fmt.Errorf("panic in update: %v", r)
			fatal = true
			return
		}
		guard.Release()
	}()
	return s.Update(ctx, tick), false
}
