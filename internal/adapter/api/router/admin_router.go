package router

import (
	"github.com/labstack/echo/v4"

	"microtask/internal/adapter/api/handler"
	"microtask/internal/adapter/api/middleware"
)

func SetupAdminRouter(e *echo.Echo, adminHandler *handler.AdminHandler, taskHandler *handler.TaskHandler, m Middlewares) {
	admin := m.authed(e, "/v1/admin")
	admin.Use(middleware.AdminOnly)

	// User management
	admin.GET("/users", adminHandler.ListUsers)
	admin.PATCH("/users/:email/role", adminHandler.UpdateUserRole)
	admin.DELETE("/users/:email", adminHandler.DeleteUser)

	// Withdrawals
	admin.GET("/withdrawals", adminHandler.ListPendingWithdrawals)
	admin.PATCH("/withdrawals/:id/approve", adminHandler.ApproveWithdrawal)

	admin.DELETE("/tasks/:id", taskHandler.DeleteTask)

	admin.GET("/ledger/reconcile", adminHandler.Reconcile)
}
