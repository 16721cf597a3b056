package handlers

import (
	"net/http"
	"time"

	"github.com/agentstation/larkdocs/internal/server/response"
)

// HandleHealth handles GET /health (liveness).
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":  "healthy",
		"service": "larkdocs",
		"version": "v1",
	})
}

// HandleReady handles GET /api/v1/ready. The service is ready once it can
// obtain a jsapi_ticket.
func (h *Handlers) HandleReady(w http.ResponseWriter, r *http.Request) {
	if h.Tickets == nil {
		response.ServiceUnavailable(w, "No app credentials configured")
		return
	}
	t, err := h.Tickets.JSAPITicket(r.Context())
	if err != nil {
		h.Logger.Warn().Err(err).Msg("Readiness check could not obtain a ticket")
		response.ServiceUnavailable(w, "jsapi_ticket unavailable")
		return
	}
	h.ObserveTicket(t)

	response.OK(w, map[string]any{
		"status":            "ready",
		"app_id":            h.AppID,
		"ticket_expires_at": t.ExpiresAt,
		"uptime_seconds":    int64(time.Since(h.StartTime).Seconds()),
		"websocket_clients": h.Hub.ClientCount(),
		"sse_clients":       h.SSE.ClientCount(),
	})
}
