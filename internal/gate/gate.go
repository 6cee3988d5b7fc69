package gate

import (
	"errors"
	"sync/atomic"
)

// ErrPoisoned is returned by Acquire after a previous holder panicked
// while holding the gate. A poisoned gate never recovers: mutual
// exclusion over the host context can no longer be trusted.
var ErrPoisoned = errors.New("gate: poisoned by a panic while held")

// Gate is a single-holder mutual exclusion primitive. At most one
// goroutine holds the gate at any instant. The gate is not reentrant:
// a holder that calls Acquire again deadlocks. Wake-up order among
// waiters is unspecified, though every waiter is eventually served.
type Gate struct {
	sem      chan struct{}
	poisoned atomic.Bool
}

// New returns an unheld gate.
func New() *Gate {
	g := &Gate{sem: make(chan struct{}, 1)}
	g.sem <- struct{}{}
	return g
}

// Acquire blocks until the gate is free and returns a Guard scoped to
// this hold. It fails only with ErrPoisoned; there is no other failure
// mode and no timeout.
func (g *Gate) Acquire() (*Guard, error) {
	if g.poisoned.Load() {
		return nil, ErrPoisoned
	}
	<-g.sem
	// The gate may have been poisoned while we waited for the token.
	if g.poisoned.Load() {
		g.sem <- struct{}{}
		return nil, ErrPoisoned
	}
	return &Guard{gate: g}, nil
}

// Poisoned reports whether a holder has poisoned the gate.
func (g *Gate) Poisoned() bool {
	return g.poisoned.Load()
}

// Guard represents one hold of the gate. Exactly one of Release or
// Poison should end the hold; extra calls are no-ops, so both can
// safely sit behind a defer.
type Guard struct {
	gate *Gate
	done atomic.Bool
}

// Release returns the gate to the free state.
func (u *Guard) Release() {
	if u.done.CompareAndSwap(false, true) {
		u.gate.sem <- struct{}{}
	}
}

// Poison marks the gate permanently unusable and ends the hold. Called
// while unwinding from a panic inside the gate, where the host context
// may be in an inconsistent state.
func (u *Guard) Poison() {
	if u.done.CompareAndSwap(false, true) {
		u.gate.poisoned.Store(true)
		u.gate.sem <- struct{}{}
	}
}
