package shared

import "context"

// EventHandler consumes domain events. EventTypes names the types the
// handler wants; an empty slice subscribes it to everything, which is
// how the activity log listens.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	EventTypes() []string
}

// EventPublisher is the side the application services hold. They publish
// the events an aggregate collected once its save succeeds.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber manages handler registrations.
type EventSubscriber interface {
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
}

// EventBus is the full bus: publish, subscribe, and lifecycle hooks for
// implementations with background workers.
type EventBus interface {
	EventPublisher
	EventSubscriber
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
