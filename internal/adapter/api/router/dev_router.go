package router

import (
	"github.com/labstack/echo/v4"

	"microtask/internal/adapter/api/handler"
)

// SetupDevRouter mounts sandbox controls in development only.
func SetupDevRouter(e *echo.Echo, devHandler *handler.DevHandler, environment string) {
	if environment != "development" || devHandler == nil {
		return
	}

	e.POST("/_dev/payments/:id/settle", devHandler.SettleIntent)
	e.POST("/_dev/payments/:id/fail", devHandler.FailIntent)
}
