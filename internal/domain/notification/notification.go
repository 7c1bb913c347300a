package notification

import "context"

// Event is any domain event with a name identifier.
type Event interface {
	EventName() string
}

// Publisher hands an event to the outbound notification queue. Publication is
// fire-and-forget from the workflow's point of view: a failure is logged by
// the publisher, never surfaced to the operation that emitted the event.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}
