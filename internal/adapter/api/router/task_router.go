package router

import (
	"github.com/labstack/echo/v4"

	"microtask/internal/adapter/api/handler"
	"microtask/internal/adapter/api/middleware"
	"microtask/internal/domain/entity"
)

func SetupTaskRouter(e *echo.Echo, taskHandler *handler.TaskHandler, m Middlewares) {
	tasks := m.authed(e, "/v1/tasks")
	tasks.GET("", taskHandler.ListAvailableTasks)
	tasks.GET("/:id", taskHandler.GetTask)
	tasks.POST("", taskHandler.CreateTask, middleware.RequireRole(entity.RoleBuyer), m.Idempotency)
	tasks.PATCH("/:id", taskHandler.UpdateTask)
	tasks.DELETE("/:id", taskHandler.DeleteTask, m.Idempotency)

	buyers := m.authed(e, "/v1/buyers")
	buyers.GET("/:email/tasks", taskHandler.ListBuyerTasks)
}
