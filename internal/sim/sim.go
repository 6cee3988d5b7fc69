// Package sim provides small self-contained systems for exercising the
// engine: the CLI demo, benchmarks and stress tests use these instead
// of a real world model.
package sim

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Counter records every tick it receives. Handy for verifying that a
// run delivered the expected ticks exactly once each.
type Counter struct {
	name  string
	mu    sync.Mutex
	ticks []int64
}

// NewCounter creates a Counter with the given name.
func NewCounter(name string) *Counter {
	return &Counter{name: name}
}

// Name implements system.System.
func (c *Counter) Name() string { return c.name }

// Update records the tick.
func (c *Counter) Update(ctx context.Context, tick int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ticks = append(c.ticks, tick)
	return nil
}

// Ticks returns a copy of the recorded ticks in arrival order.
func (c *Counter) Ticks() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]int64, len(c.ticks))
	copy(out, c.ticks)
	return out
}

// RandomWalker performs a seeded one-dimensional random walk, one step
// per tick. Same seed, same walk: runs are reproducible regardless of
// dispatch order because each walker owns its generator.
type RandomWalker struct {
	name string
	mu   sync.Mutex
	rng  *rand.Rand
	pos  int64
}

// NewRandomWalker creates a walker seeded with seed.
func NewRandomWalker(name string, seed int64) *RandomWalker {
	return &RandomWalker{name: name, rng: rand.New(rand.NewSource(seed))}
}

// Name implements system.System.
func (w *RandomWalker) Name() string { return w.name }

// Update takes one step: +1 or -1 with equal probability.
func (w *RandomWalker) Update(ctx context.Context, tick int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.rng.Intn(2) == 0 {
		w.pos--
	} else {
		w.pos++
	}
	return nil
}

// Position returns the walker's current position.
func (w *RandomWalker) Position() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pos
}

// Sleeper sleeps for a fixed duration per update, simulating a system
// with non-trivial cost. Used by the bench command.
type Sleeper struct {
	name string
	d    time.Duration
}

// NewSleeper creates a Sleeper that sleeps d per update.
func NewSleeper(name string, d time.Duration) *Sleeper {
	return &Sleeper{name: name, d: d}
}

// Name implements system.System.
func (s *Sleeper) Name() string { return s.name }

// Update sleeps for the configured duration.
func (s *Sleeper) Update(ctx context.Context, tick int64) error {
	if s.d > 0 {
		time.Sleep(s.d)
	}
	return nil
}
