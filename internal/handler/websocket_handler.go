package handler

import (
	"net/http"

	gorilla "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/facturel/facturel-backend/internal/websocket"
)

// WebSocketHandler upgrades HTTP connections and wires them into the hub
type WebSocketHandler struct {
	hub       *websocket.Hub
	originSet map[string]struct{}
	upgrader  gorilla.Upgrader
}

// NewWebSocketHandler creates a new WebSocketHandler. allowedOrigins controls
// which browser origins may open a connection; an empty list allows all.
func NewWebSocketHandler(hub *websocket.Hub, allowedOrigins []string) *WebSocketHandler {
	h := &WebSocketHandler{
		hub:       hub,
		originSet: make(map[string]struct{}, len(allowedOrigins)),
	}
	for _, origin := range allowedOrigins {
		h.originSet[origin] = struct{}{}
	}

	h.upgrader = gorilla.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}

	return h
}

// checkOrigin validates the Origin header against the allowed origins.
// Requests without an Origin header (the desktop shell, non-browser clients)
// are always allowed.
func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if len(h.originSet) == 0 {
		return true
	}
	_, ok := h.originSet[origin]
	return ok
}

// HandleConnection handles GET /ws, upgrading the request and pumping events
// until the client disconnects
func (h *WebSocketHandler) HandleConnection(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response
		log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return nil
	}

	client := websocket.NewClient(conn, h.hub)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	return nil
}
