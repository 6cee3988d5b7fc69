package runner

import "github.com/lockstep-sim/lockstep/internal/gate"

// config holds optional configuration for a Parallel runner.
type config struct {
	workers int
	gate    *gate.Gate
}

// Option configures a Parallel runner.
type Option func(*config)

// WithWorkers sets the worker pool size. Values below 1 are clamped
// to 1. The default is runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(c *config) { c.workers = n }
}

// WithGate sets the exclusivity gate the runner serializes updates
// through. Useful when other code holds the same host context. If nil,
// the runner creates its own gate.
func WithGate(g *gate.Gate) Option {
	return func(c *config) {
		if g != nil {
			c.gate = g
		}
	}
}
