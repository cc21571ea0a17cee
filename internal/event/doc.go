// Package event provides the event record persisted by the chapter events site.
//
// The event package handles event representation, the fixed set of event types,
// the persisted collection document and its duplicate check, and timestamp parsing.
// Whether an event is upcoming is always computed against a caller-supplied instant
// and never stored, so the classification cannot go stale between writes.
package event
