package event

import "time"

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns a string identifier for this event type.
	// Convention: "category.action" (e.g., "tick.started").
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// baseEvent provides common fields for all events.
// Embed this in concrete event types to satisfy the Event interface.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

// newBaseEvent creates a baseEvent with the current time.
func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// TickStartedEvent is emitted when the engine begins dispatching a tick.
type TickStartedEvent struct {
	baseEvent
	Tick    int64 // the tick being dispatched
	Systems int   // number of systems in the batch
}

// NewTickStartedEvent creates a TickStartedEvent.
func NewTickStartedEvent(tick int64, systems int) TickStartedEvent {
	return TickStartedEvent{
		baseEvent: newBaseEvent("tick.started"),
		Tick:      tick,
		Systems:   systems,
	}
}

// TickCompletedEvent is emitted when every system in a tick's batch
// updated successfully.
type TickCompletedEvent struct {
	baseEvent
	Tick     int64
	Systems  int
	Duration time.Duration // wall time for the whole batch
}

// NewTickCompletedEvent creates a TickCompletedEvent.
func NewTickCompletedEvent(tick int64, systems int, duration time.Duration) TickCompletedEvent {
	return TickCompletedEvent{
		baseEvent: newBaseEvent("tick.completed"),
		Tick:      tick,
		Systems:   systems,
		Duration:  duration,
	}
}

// TickFailedEvent is emitted when a tick's batch returned an error.
// It carries the batch result, which identifies the failing system.
type TickFailedEvent struct {
	baseEvent
	Tick int64
	Err  error
}

// NewTickFailedEvent creates a TickFailedEvent.
func NewTickFailedEvent(tick int64, err error) TickFailedEvent {
	return TickFailedEvent{
		baseEvent: newBaseEvent("tick.failed"),
		Tick:      tick,
		Err:       err,
	}
}

// SystemRegisteredEvent is emitted when a system joins the engine.
type SystemRegisteredEvent struct {
	baseEvent
	System string // the system's name
}

// NewSystemRegisteredEvent creates a SystemRegisteredEvent.
func NewSystemRegisteredEvent(system string) SystemRegisteredEvent {
	return SystemRegisteredEvent{
		baseEvent: newBaseEvent("system.registered"),
		System:    system,
	}
}

// RunCompletedEvent is emitted once when the engine's tick loop exits.
type RunCompletedEvent struct {
	baseEvent
	Ticks    int64 // ticks actually executed
	Duration time.Duration
	Err      error // nil on a clean run
}

// NewRunCompletedEvent creates a RunCompletedEvent.
func NewRunCompletedEvent(ticks int64, duration time.Duration, err error) RunCompletedEvent {
	return RunCompletedEvent{
		baseEvent: newBaseEvent("run.completed"),
		Ticks:     ticks,
		Duration:  duration,
		Err:       err,
	}
}
