package router

import (
	"github.com/labstack/echo/v4"

	"microtask/internal/adapter/api/handler"
	"microtask/internal/adapter/api/middleware"
	"microtask/internal/infrastructure/ratelimit"
)

func SetupUserRouter(e *echo.Echo, userHandler *handler.UserHandler, m Middlewares) {
	// Registration only needs a valid token; the account does not exist yet.
	e.POST("/v1/users", userHandler.Register,
		m.Auth.Authenticate,
		middleware.RateLimit(m.Limiter, ratelimit.ActionAuth),
		m.Idempotency,
	)

	users := m.authed(e, "/v1/users")
	users.GET("/me", userHandler.GetMe)
	users.GET("/:email", userHandler.GetUser)
}
