// Package system defines the update capability a simulation system
// exposes, plus the manager that owns the registered set and hands it
// to a runner each tick.
package system

import "context"

// System is the entire contract between a simulation system and the
// dispatch layer: advance the system's state for one tick. Update runs
// under the exclusivity gate, so implementations never observe another
// system's Update executing concurrently. No ordering across systems
// within a tick is guaranteed.
type System interface {
	// Name identifies the system in logs, events and errors.
	Name() string

	// Update advances the system for the given tick. The context is the
	// batch context; long-running implementations should honor its
	// cancellation.
	Update(ctx context.Context, tick int64) error
}

// Func adapts a plain function to the System interface.
type Func struct {
	name string
	fn   func(ctx context.Context, tick int64) error
}

// NewFunc wraps fn as a System with the given name.
func NewFunc(name string, fn func(ctx context.Context, tick int64) error) *Func {
	return &Func{name: name, fn: fn}
}

// Name returns the name given at construction.
func (f *Func) Name() string { return f.name }

// Update invokes the wrapped function.
func (f *Func) Update(ctx context.Context, tick int64) error {
	return f.fn(ctx, tick)
}
