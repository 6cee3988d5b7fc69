// Package runner dispatches per-tick system updates.
//
// Parallel fans a batch out over a fixed-size worker pool. Scheduling,
// argument handling and result collection run concurrently; each
// Update body executes under the exclusivity gate, so no two update
// bodies ever overlap. The first failure is recorded once and ends the
// batch cooperatively: workers stop picking up new systems but never
// interrupt an update already in flight.
//
// Serial executes the batch in order on the calling goroutine. It is
// the debugging counterpart for simulations where ordering matters.
//
// Both runners share the same contract: exactly one Update per system
// per Run, an identical tick for every system in the batch, and a
// single outcome per batch regardless of how many systems failed.
package runner
