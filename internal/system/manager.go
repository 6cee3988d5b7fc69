package system

import (
	"context"
	"errors"
	"sync"
)

// Runner executes one batch of system updates for a tick. Satisfied by
// runner.Parallel and runner.Serial; declared here so the manager does
// not depend on a concrete dispatch strategy.
type Runner interface {
	Run(ctx context.Context, systems []System, tick int64) error
}

// Manager owns the ordered set of registered systems and delegates
// per-tick execution to its runner. Registration order determines only
// how the batch is handed to the runner, never execution order.
type Manager struct {
	mu      sync.RWMutex
	systems []System
	runner  Runner
}

// NewManager creates a Manager that dispatches through r.
func NewManager(r Runner) (*Manager, error) {
	if r == nil {
		return nil, errors.New("system: runner is required")
	}
	return &Manager{runner: r}, nil
}

// Register appends a system to the batch. Registering the same system
// twice is permitted; it will receive two independent Update calls per
// tick. Nil systems are ignored.
func (m *Manager) Register(s System) {
	if s == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.systems = append(m.systems, s)
}

// Get returns the first registered system with the given name.
// Intended for debugging and post-run inspection; systems should
// communicate through events, not direct lookup.
func (m *Manager) Get(name string) (System, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.systems {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}

// Len returns the number of registered systems.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.systems)
}

// Systems returns a snapshot of the registered systems in registration
// order.
func (m *Manager) Systems() []System {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]System, len(m.systems))
	copy(out, m.systems)
	return out
}

// UpdateAll runs one tick across every registered system via the
// manager's runner. Each system's Update is invoked exactly once with
// the given tick.
func (m *Manager) UpdateAll(ctx context.Context, tick int64) error {
	return m.runner.Run(ctx, m.Systems(), tick)
}
