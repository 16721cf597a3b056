package events

// Subscriber consumes events for one transport. Implementations must be
// comparable, since Unsubscribe matches them by equality.
type Subscriber interface {
	// Send delivers an event. It must not block for long.
	Send(Event) error

	// Close shuts the subscriber down.
	Close() error
}
