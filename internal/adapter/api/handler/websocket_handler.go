package handler

import (
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"microtask/internal/adapter/api/middleware"
	ws "microtask/internal/infrastructure/websocket"
	"microtask/pkg/errors"
	"microtask/pkg/response"
)

type WebSocketHandler struct {
	wsManager *ws.Manager
	upgrader  gorillaws.Upgrader
}

// NewWebSocketHandler accepts handshakes from allowedOrigins, or from any
// origin when the list is empty.
func NewWebSocketHandler(wsManager *ws.Manager, allowedOrigins []string) *WebSocketHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return &WebSocketHandler{
		wsManager: wsManager,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return len(allowed) == 0 || allowed[r.Header.Get("Origin")]
			},
		},
	}
}

// HandleWebSocket upgrades the connection and subscribes it to the
// caller's ledger notifications.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	email := middleware.Email(c)
	if email == "" {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// The upgrader has already replied to the client.
		return nil
	}

	client := ws.NewClient(email, conn)
	h.wsManager.Register(client)

	go client.ReadPump(h.wsManager)
	go client.WritePump()

	return nil
}
