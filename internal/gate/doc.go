// Package gate provides the exclusivity gate that serializes system
// updates against a shared, non-reentrant host context.
//
// The gate models an external constraint, not an implementation choice:
// every system registered with the engine runs inside one cooperative
// host context that tolerates exactly one caller at a time. Workers in
// the parallel runner acquire the gate before invoking a system's
// Update and release it immediately after, so dispatch work overlaps
// while update bodies never do.
//
// A hold is represented by a Guard, which must be released on every
// exit path. If a holder panics while inside the gate, the guard is
// poisoned instead of released: the host context may have been left
// mid-mutation, so the gate permanently refuses further holds and every
// later Acquire reports ErrPoisoned.
package gate
