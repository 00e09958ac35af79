package router

import (
	"github.com/labstack/echo/v4"

	"microtask/internal/adapter/api/handler"
	"microtask/internal/adapter/api/middleware"
	"microtask/internal/infrastructure/ratelimit"
)

func SetupAuthRouter(e *echo.Echo, authHandler *handler.AuthHandler, m Middlewares) {
	e.POST("/jwt", authHandler.IssueToken, middleware.RateLimit(m.Limiter, ratelimit.ActionAuth))
}
