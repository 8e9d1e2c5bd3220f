// Package event is an in-process event bus: prioritized listeners, interceptors,
// one-shot subscriptions and asynchronous listeners run on an ants goroutine pool.
package event

import "time"

// Event event interface
type Event interface {
	// Name event name, for example "singleton.initialized"
	Name() string
}

// BaseEvent embeddable event base
type BaseEvent struct {
	name       string
	occurredAt time.Time
}

// NewEvent creates a base event stamped with the current time
func NewEvent(name string) BaseEvent {
	return BaseEvent{
		name:       name,
		occurredAt: time.Now(),
	}
}

// Name returns the event name
func (e BaseEvent) Name() string {
	return e.name
}

// OccurredAt returns the event occurrence time
func (e BaseEvent) OccurredAt() time.Time {
	return e.occurredAt
}
