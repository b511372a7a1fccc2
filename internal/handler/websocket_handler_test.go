package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/facturel/facturel-backend/internal/websocket"
)

var testAllowedOrigins = []string{"http://localhost:3000", "https://facturel.app"}

func TestWebSocketHandler_CheckOrigin(t *testing.T) {
	hub := websocket.NewHub()
	h := NewWebSocketHandler(hub, testAllowedOrigins)

	tests := []struct {
		name     string
		origin   string
		expected bool
	}{
		{"allowed origin", "http://localhost:3000", true},
		{"allowed origin https", "https://facturel.app", true},
		{"disallowed origin", "https://evil.com", false},
		{"empty origin (desktop shell)", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ws", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			result := h.checkOrigin(req)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestWebSocketHandler_CheckOrigin_NoConfiguredOrigins(t *testing.T) {
	hub := websocket.NewHub()
	h := NewWebSocketHandler(hub, nil)

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Origin", "https://anywhere.example")
	assert.True(t, h.checkOrigin(req))
}

func TestWebSocketHandler_NonUpgradeRequestRejected(t *testing.T) {
	e := echo.New()
	hub := websocket.NewHub()
	h := NewWebSocketHandler(hub, testAllowedOrigins)

	// Plain GET without upgrade headers
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.HandleConnection(c)
	assert.NoError(t, err)

	// gorilla writes the failure status itself
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, hub.ClientCount())
}
