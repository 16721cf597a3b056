package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/agentstation/larkdocs/internal/server/events"
	ws "github.com/agentstation/larkdocs/internal/server/websocket"
)

// HandleWebSocket handles GET /api/v1/events/ws.
func (h *Handlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logger.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := ws.NewClient(r.RemoteAddr+"-"+strconv.FormatInt(time.Now().UnixNano(), 36), h.Hub, conn)
	if !h.Hub.Register(client) {
		_ = conn.Close()
		return
	}
	h.Publisher.Publish(events.ClientConnected, map[string]string{"transport": "websocket"})

	go client.WritePump()
	go client.ReadPump()
}

// HandleSSE handles GET /api/v1/events/stream.
func (h *Handlers) HandleSSE(w http.ResponseWriter, r *http.Request) {
	h.SSE.ServeHTTP(w, r)
}
