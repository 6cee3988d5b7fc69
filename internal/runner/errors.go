package runner

import "fmt"

// UpdateError reports the batch's first observed system failure. Which
// failing system is "first" depends on scheduling, not on batch order.
type UpdateError struct {
	// Index is the system's position in the dispatched batch.
	Index int
	// System is the failing system's name.
	System string
	// Err is the error returned by the system's Update.
	Err error
}

func (e *UpdateError) Error() string {
	return fmt.Sprintf("system %q (index %d) failed update: %v", e.System, e.Index, e.Err)
}

func (e *UpdateError) Unwrap() error { return e.Err }

// FatalError reports that the exclusivity gate is no longer
// trustworthy, either because an update panicked while holding it or
// because it was already poisoned. Unlike UpdateError this does not
// point at a system's own logic: the concurrency substrate broke, and
// the rest of the batch was abandoned.
type FatalError struct {
	// Index is the position of the system whose dispatch hit the fatal
	// condition. For a gate already poisoned before the batch, it is the
	// first system that tried to acquire it.
	Index int
	// System names that system.
	System string
	// Err is the underlying condition, typically gate.ErrPoisoned or a
	// recovered panic.
	Err error
}

func (e *FatalError) Error() string {
	if e.System == "" {
		return fmt.Sprintf("dispatch aborted: %v", e.Err)
	}
	return fmt.Sprintf("dispatch aborted at system %q (index %d): %v", e.System, e.Index, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }
