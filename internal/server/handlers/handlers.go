// Package handlers provides the HTTP handlers of the signing service.
package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/agentstation/larkdocs/internal/server/events"
	"github.com/agentstation/larkdocs/internal/server/response"
	"github.com/agentstation/larkdocs/internal/server/sse"
	ws "github.com/agentstation/larkdocs/internal/server/websocket"
	"github.com/agentstation/larkdocs/internal/ticket"
	"github.com/agentstation/larkdocs/pkg/errors"
	"github.com/agentstation/larkdocs/pkg/signature"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 64 << 10

// Publisher queues an event for the realtime transports.
type Publisher interface {
	Publish(eventType events.EventType, data any)
}

// Deps are the collaborators of Handlers. Tickets may be nil, in which
// case the ticket-backed endpoints answer 503.
type Deps struct {
	Tickets   ticket.Source
	AppID     string
	JSAPIList []string
	Signer    *signature.Signer
	Publisher Publisher
	Hub       *ws.Hub
	SSE       *sse.Broadcaster
	Upgrader  websocket.Upgrader
	Logger    *zerolog.Logger
	StartTime time.Time
}

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	Deps

	mu         sync.Mutex
	lastExpiry time.Time
}

// New creates a new Handlers instance.
func New(deps Deps) *Handlers {
	if deps.Signer == nil {
		deps.Signer = signature.NewSigner()
	}
	return &Handlers{Deps: deps}
}

// ObserveTicket publishes a TicketRotated event when t differs from the
// last ticket seen. The first ticket is recorded without an event. It
// reports whether the ticket was new.
func (h *Handlers) ObserveTicket(t ticket.Ticket) bool {
	h.mu.Lock()
	changed := !t.ExpiresAt.Time.Equal(h.lastExpiry)
	first := h.lastExpiry.IsZero()
	h.lastExpiry = t.ExpiresAt.Time
	h.mu.Unlock()

	if !changed {
		return false
	}
	if !first {
		h.Publisher.Publish(events.TicketRotated, events.TicketRotation{
			AppID:     h.AppID,
			ExpiresAt: t.ExpiresAt,
		})
		h.Logger.Info().Str("app_id", h.AppID).Time("expires_at", t.ExpiresAt.Time).Msg("jsapi_ticket rotated")
	}
	return true
}

// decode reads a JSON body into v, rejecting unknown fields.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		response.BadRequest(w, "Invalid request body", err.Error())
		return false
	}
	return true
}

// fail logs err at the level its kind deserves and writes the response.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.IsValidationError(err) {
		h.Logger.Debug().Err(err).Str("path", r.URL.Path).Msg("Rejected request")
	} else {
		h.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
	}
	response.ErrorFromType(w, err)
}
