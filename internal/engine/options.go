package engine

import (
	"github.com/lockstep-sim/lockstep/internal/event"
	"github.com/lockstep-sim/lockstep/internal/logging"
)

// Snapshotter persists simulation state at the given tick.
type Snapshotter func(tick int64) error

// engineConfig holds optional configuration for an Engine.
type engineConfig struct {
	bus           *event.Bus
	log           *logging.Logger
	snapshot      Snapshotter
	snapshotEvery int64
}

// Option configures an Engine.
type Option func(*engineConfig)

// WithBus sets the event bus tick lifecycle events are published on.
// If unset, the engine creates its own.
func WithBus(b *event.Bus) Option {
	return func(c *engineConfig) {
		if b != nil {
			c.bus = b
		}
	}
}

// WithLogger sets the structured logger. If unset, logging is disabled.
func WithLogger(l *logging.Logger) Option {
	return func(c *engineConfig) {
		if l != nil {
			c.log = l
		}
	}
}

// WithSnapshot installs a snapshotter called every interval ticks and
// once more when the run completes. An interval of 0 disables periodic
// snapshots; the final snapshot is still taken.
func WithSnapshot(fn Snapshotter, interval int64) Option {
	return func(c *engineConfig) {
		c.snapshot = fn
		c.snapshotEvery = interval
	}
}
