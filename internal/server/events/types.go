// Package events fans server events out to the realtime transports.
//
// Ticket rotations and issued auth bundles are published once to a Broker,
// which hands each event to every subscribed transport (WebSocket, SSE).
// Pages embedding the document component listen for ticket.rotated to
// know when to request a fresh AuthConfig.
package events

import (
	"time"

	"github.com/agentstation/utc"
)

// EventType names a server event.
type EventType string

// Event types published by the signing service.
const (
	// TicketRotated is published when the cached jsapi_ticket changes.
	TicketRotated EventType = "ticket.rotated"
	// TicketRefreshFailed is published when a background refresh fails.
	TicketRefreshFailed EventType = "ticket.refresh_failed"

	// AuthIssued is published for every AuthConfig the service signs.
	AuthIssued EventType = "auth.issued"

	// ClientConnected is published when a realtime client attaches.
	ClientConnected EventType = "client.connected"
)

// Event is a typed, timestamped payload.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp utc.Time  `json:"timestamp"`
	Data      any       `json:"data"`
}

// TicketRotation is the data of a TicketRotated event. The ticket value
// itself is never published.
type TicketRotation struct {
	AppID     string   `json:"app_id"`
	ExpiresAt utc.Time `json:"expires_at"`
}

// RefreshFailure is the data of a TicketRefreshFailed event.
type RefreshFailure struct {
	AppID string `json:"app_id"`
	Error string `json:"error"`
}

// Issued is the data of an AuthIssued event.
type Issued struct {
	AppID     string `json:"app_id"`
	URL       string `json:"url"`
	Timestamp int64  `json:"timestamp"`
}

func newEvent(t EventType, data any, now time.Time) Event {
	return Event{Type: t, Timestamp: utc.Time{Time: now.UTC()}, Data: data}
}
