package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lockstep-sim/lockstep/internal/gate"
	"github.com/lockstep-sim/lockstep/internal/system"
)

// probe is an instrumented system: it counts invocations, records the
// ticks it received, and trips overlapped if two Update bodies ever
// execute at the same time across all probes sharing the same tracker.
type probe struct {
	name    string
	tracker *overlapTracker
	calls   atomic.Int64
	mu      sync.Mutex
	ticks   []int64
	fn      func(ctx context.Context, tick int64) error
}

// overlapTracker is shared across a batch to detect concurrent updates.
type overlapTracker struct {
	inside     atomic.Int32
	overlapped atomic.Bool
}

func (o *overlapTracker) enter() {
	if o.inside.Add(1) > 1 {
		o.overlapped.Store(true)
	}
}

func (o *overlapTracker) exit() { o.inside.Add(-1) }

func newProbe(name string, tracker *overlapTracker) *probe {
	return &probe{name: name, tracker: tracker}
}

func (p *probe) Name() string { return p.name }

func (p *probe) Update(ctx context.Context, tick int64) error {
	if p.tracker != nil {
		p.tracker.enter()
		defer p.tracker.exit()
	}
	p.calls.Add(1)
	p.mu.Lock()
	p.ticks = append(p.ticks, tick)
	p.mu.Unlock()
	if p.fn != nil {
		return p.fn(ctx, tick)
	}
	return nil
}

func asSystems(probes []*probe) []system.System {
	out := make([]system.System, len(probes))
	for i, p := range probes {
		out[i] = p
	}
	return out
}

func TestRunEmptyBatch(t *testing.T) {
	g := gate.New()
	r := NewParallel(WithGate(g))

	if err := r.Run(context.Background(), nil, 1); err != nil {
		t.Fatalf("Run(empty) = %v, want nil", err)
	}

	// No gate acquisition must have happened: the gate is still free
	// and unpoisoned.
	guard, err := g.Acquire()
	if err != nil {
		t.Fatalf("gate unusable after empty batch: %v", err)
	}
	guard.Release()
}

func TestRunAllSucceed(t *testing.T) {
	tracker := &overlapTracker{}
	probes := make([]*probe, 5)
	for i := range probes {
		probes[i] = newProbe(fmt.Sprintf("sys-%d", i), tracker)
	}

	r := NewParallel(WithWorkers(4))
	if err := r.Run(context.Background(), asSystems(probes), 42); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	for i, p := range probes {
		if got := p.calls.Load(); got != 1 {
			t.Errorf("system %d invoked %d times, want 1", i, got)
		}
		p.mu.Lock()
		ticks := p.ticks
		p.mu.Unlock()
		if len(ticks) != 1 || ticks[0] != 42 {
			t.Errorf("system %d observed ticks %v, want [42]", i, ticks)
		}
	}
	if tracker.overlapped.Load() {
		t.Error("two updates overlapped in time")
	}
}

func TestRunFirstFailure(t *testing.T) {
	boom := errors.New("boom")

	probes := []*probe{newProbe("ok-0", nil), newProbe("bad-1", nil), newProbe("ok-2", nil)}
	probes[1].fn = func(ctx context.Context, tick int64) error {
		return boom
	}

	// Hold the gate while the workers spin up so every worker passes
	// the short-circuit check and queues on the gate before any failure
	// can exist. Workers already queued are "in flight": cooperative
	// short-circuit must let them complete.
	g := gate.New()
	guard, err := g.Acquire()
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	r := NewParallel(WithWorkers(3), WithGate(g))

	done := make(chan error, 1)
	go func() {
		done <- r.Run(context.Background(), asSystems(probes), 7)
	}()

	time.Sleep(50 * time.Millisecond)
	guard.Release()

	err = <-done
	if err == nil {
		t.Fatal("Run succeeded despite a failing system")
	}

	var ue *UpdateError
	if !errors.As(err, &ue) {
		t.Fatalf("Run returned %T (%v), want *UpdateError", err, err)
	}
	if ue.Index != 1 || ue.System != "bad-1" {
		t.Errorf("failure attributed to %q (index %d), want bad-1 (index 1)", ue.System, ue.Index)
	}
	if !errors.Is(err, boom) {
		t.Errorf("error chain %v does not contain the underlying error", err)
	}
	for i, want := range []int64{1, 1, 1} {
		if got := probes[i].calls.Load(); got != want {
			t.Errorf("system %d invoked %d times, want %d", i, got, want)
		}
	}
}

func TestRunSomeFailureWins(t *testing.T) {
	// Several failing systems: the winner is unspecified, but the result
	// must be an UpdateError naming one of them, never success.
	failing := map[int]bool{1: true, 3: true, 4: true}
	probes := make([]*probe, 6)
	for i := range probes {
		probes[i] = newProbe(fmt.Sprintf("sys-%d", i), nil)
		if failing[i] {
			probes[i].fn = func(ctx context.Context, tick int64) error {
				return errors.New("boom")
			}
		}
	}

	r := NewParallel(WithWorkers(4))
	err := r.Run(context.Background(), asSystems(probes), 1)

	var ue *UpdateError
	if !errors.As(err, &ue) {
		t.Fatalf("Run returned %T (%v), want *UpdateError", err, err)
	}
	if !failing[ue.Index] {
		t.Errorf("reported index %d is not a failing system", ue.Index)
	}
}

func TestRunMutualExclusion(t *testing.T) {
	for _, tc := range []struct {
		systems int
		workers int
	}{
		{systems: 1, workers: 1},
		{systems: 8, workers: 2},
		{systems: 64, workers: 8},
		{systems: 200, workers: 16},
	} {
		t.Run(fmt.Sprintf("%dsystems_%dworkers", tc.systems, tc.workers), func(t *testing.T) {
			tracker := &overlapTracker{}
			probes := make([]*probe, tc.systems)
			for i := range probes {
				probes[i] = newProbe(fmt.Sprintf("sys-%d", i), tracker)
				probes[i].fn = func(ctx context.Context, tick int64) error {
					// Stay inside the gate long enough for overlap to
					// be observable if exclusion were broken.
					time.Sleep(10 * time.Microsecond)
					return nil
				}
			}

			r := NewParallel(WithWorkers(tc.workers))
			if err := r.Run(context.Background(), asSystems(probes), 3); err != nil {
				t.Fatalf("Run failed: %v", err)
			}
			if tracker.overlapped.Load() {
				t.Error("two update bodies executed concurrently")
			}
			for i, p := range probes {
				if got := p.calls.Load(); got != 1 {
					t.Errorf("system %d invoked %d times, want 1", i, got)
				}
			}
		})
	}
}

func TestRunStress(t *testing.T) {
	if testing.Short() {
		t.Skip("stress test")
	}

	const n = 10000
	tracker := &overlapTracker{}
	var calls atomic.Int64
	systems := make([]system.System, n)
	for i := range systems {
		systems[i] = system.NewFunc(fmt.Sprintf("sys-%d", i), func(ctx context.Context, tick int64) error {
			tracker.enter()
			calls.Add(1)
			tracker.exit()
			return nil
		})
	}

	r := NewParallel(WithWorkers(8))
	if err := r.Run(context.Background(), systems, 99); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got := calls.Load(); got != n {
		t.Errorf("observed %d update calls, want %d", got, n)
	}
	if tracker.overlapped.Load() {
		t.Error("two update bodies executed concurrently")
	}
}

func TestRunPanicPoisonsGate(t *testing.T) {
	g := gate.New()
	r := NewParallel(WithWorkers(2), WithGate(g))

	systems := []system.System{
		system.NewFunc("panicker", func(ctx context.Context, tick int64) error {
			panic("kaboom")
		}),
	}

	err := r.Run(context.Background(), systems, 1)
	var fe *FatalError
	if !errors.As(err, &fe) {
		t.Fatalf("Run returned %T (%v), want *FatalError", err, err)
	}
	if fe.System != "panicker" {
		t.Errorf("fatal error names %q, want panicker", fe.System)
	}
	if !g.Poisoned() {
		t.Error("gate not poisoned after a panicking update")
	}

	// Subsequent batches must fail fast with the fatal condition.
	err = r.Run(context.Background(), []system.System{
		system.NewFunc("innocent", func(ctx context.Context, tick int64) error { return nil }),
	}, 2)
	if !errors.As(err, &fe) {
		t.Fatalf("Run on poisoned gate returned %T (%v), want *FatalError", err, err)
	}
	if !errors.Is(err, gate.ErrPoisoned) {
		t.Errorf("fatal error chain %v does not contain gate.ErrPoisoned", err)
	}
}

func TestRunContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int64
	systems := []system.System{
		system.NewFunc("skipped", func(ctx context.Context, tick int64) error {
			calls.Add(1)
			return nil
		}),
	}

	r := NewParallel(WithWorkers(2))
	if err := r.Run(ctx, systems, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("Run on canceled context returned %v, want context.Canceled", err)
	}
	if got := calls.Load(); got != 0 {
		t.Errorf("canceled batch still invoked %d updates", got)
	}
}

func TestNewParallelDefaults(t *testing.T) {
	// Construction and disposal alone must have no observable effect.
	for i := 0; i < 100; i++ {
		_ = NewParallel()
	}

	r := NewParallel(WithWorkers(0))
	if r.workers != 1 {
		t.Errorf("workers clamped to %d, want 1", r.workers)
	}
	if r.gate == nil {
		t.Error("runner constructed without a gate")
	}
}

func TestSharedGateAcrossRunners(t *testing.T) {
	// Two runners sharing one gate must still serialize across each
	// other's batches.
	g := gate.New()
	tracker := &overlapTracker{}

	mkBatch := func(n int) []system.System {
		out := make([]system.System, n)
		for i := range out {
			out[i] = system.NewFunc(fmt.Sprintf("sys-%d", i), func(ctx context.Context, tick int64) error {
				tracker.enter()
				defer tracker.exit()
				time.Sleep(10 * time.Microsecond)
				return nil
			})
		}
		return out
	}

	r1 := NewParallel(WithWorkers(4), WithGate(g))
	r2 := NewParallel(WithWorkers(4), WithGate(g))

	var wg sync.WaitGroup
	wg.Add(2)
	var err1, err2 error
	go func() {
		defer wg.Done()
		err1 = r1.Run(context.Background(), mkBatch(50), 1)
	}()
	go func() {
		defer wg.Done()
		err2 = r2.Run(context.Background(), mkBatch(50), 1)
	}()
	wg.Wait()

	if err1 != nil || err2 != nil {
		t.Fatalf("Run failed: %v / %v", err1, err2)
	}
	if tracker.overlapped.Load() {
		t.Error("updates from runners sharing a gate overlapped")
	}
}
