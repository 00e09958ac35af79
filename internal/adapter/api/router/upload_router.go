package router

import (
	"github.com/labstack/echo/v4"

	"microtask/internal/adapter/api/handler"
)

func SetupUploadRouter(e *echo.Echo, uploadHandler *handler.UploadHandler, m Middlewares) {
	uploads := m.authed(e, "/v1/uploads")
	uploads.POST("/images", uploadHandler.UploadImage)
}
