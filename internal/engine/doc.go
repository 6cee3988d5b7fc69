// Package engine drives the simulation clock. Each tick it hands the
// registered systems to the configured runner, publishes tick lifecycle
// events on the bus, and optionally takes periodic state snapshots.
//
// The engine is world-agnostic: it knows nothing about what a system
// does, only that it can be updated for a tick. Construction wires a
// system manager plus options:
//
//	eng, err := engine.New(mgr,
//	    engine.WithBus(bus),
//	    engine.WithLogger(log),
//	    engine.WithSnapshot(saveState, 50),
//	)
//	if err != nil {
//	    return err
//	}
//	if err := eng.Run(ctx, 0, 1000); err != nil {
//	    return err
//	}
package engine
