package runner

import (
	"context"
	"fmt"

	"github.com/lockstep-sim/lockstep/internal/system"
)

// Serial executes a batch in order on the calling goroutine. Updates
// are trivially serialized, so no gate is involved. Useful for
// debugging and for simulations where registration order is load
// bearing.
type Serial struct{}

// NewSerial returns a Serial runner.
func NewSerial() *Serial {
	return &Serial{}
}

// Run invokes Update once per system, in batch order, stopping at the
// first failure. The returned error carries the failing system's index
// and name; systems after it are not invoked. A panicking update is
// reported as a FatalError to keep the contract aligned with Parallel.
func (r *Serial) Run(ctx context.Context, systems []system.System, tick int64) error {
	for i, s := range systems {
		if err := ctx.Err(); err != nil {
			return err
		}
		err, fatal := runOne(ctx, s, tick)
		switch {
		case err == nil:
		case fatal:
			return &FatalError{Index: i, System: s.Name(), Err: err}
		default:
			return &UpdateError{Index: i, System: s.Name(), Err: err}
		}
	}
	return nil
}

// runOne calls Update and converts a panic into an error.
func runOne(ctx context.Context, s system.System, tick int64) (err error, fatal bool) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in update: %v", r)
			fatal = true
		}
	}()
	return s.Update(ctx, tick), false
}
