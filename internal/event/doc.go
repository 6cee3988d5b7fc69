// Package event provides a pub-sub event bus for the tick lifecycle.
//
// The engine publishes an event when a tick starts, completes or fails,
// and when a system is registered. Observers such as the logger, the
// CLI progress reporter and tests subscribe to these events without the
// engine knowing about them, and systems can use the same bus to talk
// to each other instead of holding direct references.
//
// # Main Types
//
//   - [Event]: interface all events implement (EventType() and Timestamp())
//   - [Bus]: synchronous, panic-safe pub-sub dispatcher
//   - [Handler]: function type for event handlers
//
// The [Bus] is safe for concurrent use. Handlers are called
// synchronously on the publishing goroutine; a panicking handler is
// recovered and logged so it cannot block delivery to other handlers.
//
// # Event Type Naming Convention
//
// Event types follow the pattern "category.action":
//   - tick.started, tick.completed, tick.failed
//   - system.registered
//   - run.completed
package event
