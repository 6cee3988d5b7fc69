package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lockstep-sim/lockstep/internal/event"
	"github.com/lockstep-sim/lockstep/internal/logging"
	"github.com/lockstep-sim/lockstep/internal/system"
)

// Engine steps the simulation through time. It owns no systems itself;
// the manager does. Safe for use from one goroutine at a time.
type Engine struct {
	mgr           *system.Manager
	bus           *event.Bus
	log           *logging.Logger
	snapshot      Snapshotter
	snapshotEvery int64
}

// New creates an Engine around the given manager.
func New(mgr *system.Manager, opts ...Option) (*Engine, error) {
	if mgr == nil {
		return nil, errors.New("engine: manager is required")
	}

	cfg := engineConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.bus == nil {
		cfg.bus = event.NewBus()
	}
	if cfg.log == nil {
		cfg.log = logging.NopLogger()
	}

	return &Engine{
		mgr:           mgr,
		bus:           cfg.bus,
		log:           cfg.log.WithComponent("engine"),
		snapshot:      cfg.snapshot,
		snapshotEvery: cfg.snapshotEvery,
	}, nil
}

// Bus returns the engine's event bus, for observers and systems that
// communicate through events.
func (e *Engine) Bus() *event.Bus {
	return e.bus
}

// Register adds a system to the engine and announces it on the bus.
func (e *Engine) Register(s system.System) {
	if s == nil {
		return
	}
	e.mgr.Register(s)
	e.bus.Publish(event.NewSystemRegisteredEvent(s.Name()))
	e.log.Debug("system registered", "system", s.Name())
}

// Step runs one tick across every registered system and publishes the
// tick's outcome on the bus. The returned error is the batch result:
// nil, the first system failure, or a fatal dispatch error.
func (e *Engine) Step(ctx context.Context, tick int64) error {
	n := e.mgr.Len()
	e.bus.Publish(event.NewTickStartedEvent(tick, n))

	start := time.Now()
	err := e.mgr.UpdateAll(ctx, tick)
	elapsed := time.Since(start)

	if err != nil {
		e.bus.Publish(event.NewTickFailedEvent(tick, err))
		e.log.Error("tick failed", "tick", tick, "error", err)
		return err
	}

	e.bus.Publish(event.NewTickCompletedEvent(tick, n, elapsed))
	e.log.Debug("tick completed", "tick", tick, "systems", n, "duration", elapsed)
	return nil
}

// Run executes ticks in [startTick, endTick), stopping at the first
// failed tick or when ctx is canceled. Snapshots are taken every
// snapshotEvery ticks (if configured) and once after the loop exits
// cleanly. Returns the error that ended the run, or nil.
func (e *Engine) Run(ctx context.Context, startTick, endTick int64) error {
	e.log.Info("run starting", "start", startTick, "end", endTick, "systems", e.mgr.Len())
	runStart := time.Now()

	var ticks int64
	for tick := startTick; tick < endTick; tick++ {
		if err := ctx.Err(); err != nil {
			e.bus.Publish(event.NewRunCompletedEvent(ticks, time.Since(runStart), err))
			return err
		}

		if err := e.Step(ctx, tick); err != nil {
			e.bus.Publish(event.NewRunCompletedEvent(ticks, time.Since(runStart), err))
			return err
		}
		ticks++

		if e.snapshot != nil && e.snapshotEvery > 0 && tick > startTick && tick%e.snapshotEvery == 0 {
			if err := e.takeSnapshot(tick); err != nil {
				e.bus.Publish(event.NewRunCompletedEvent(ticks, time.Since(runStart), err))
				return err
			}
		}
	}

	if e.snapshot != nil {
		if err := e.takeSnapshot(endTick); err != nil {
			e.bus.Publish(event.NewRunCompletedEvent(ticks, time.Since(runStart), err))
			return err
		}
	}

	elapsed := time.Since(runStart)
	e.bus.Publish(event.NewRunCompletedEvent(ticks, elapsed, nil))
	e.log.Info("run finished", "ticks", ticks, "duration", elapsed)
	return nil
}

func (e *Engine) takeSnapshot(tick int64) error {
	if err := e.snapshot(tick); err != nil {
		e.log.Error("snapshot failed", "tick", tick, "error", err)
		return fmt.Errorf("snapshot at tick %d: %w", tick, err)
	}
	e.log.Debug("snapshot taken", "tick", tick)
	return nil
}
