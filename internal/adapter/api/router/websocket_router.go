package router

import (
	"github.com/labstack/echo/v4"

	"microtask/internal/adapter/api/handler"
)

func SetupWebSocketRouter(e *echo.Echo, wsHandler *handler.WebSocketHandler, m Middlewares) {
	e.GET("/v1/ws", wsHandler.HandleWebSocket, m.Auth.Authenticate)
}
