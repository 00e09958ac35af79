package router

import (
	"github.com/labstack/echo/v4"

	"microtask/internal/adapter/api/handler"
	"microtask/internal/adapter/api/middleware"
	"microtask/internal/domain/entity"
)

func SetupWithdrawalRouter(e *echo.Echo, withdrawalHandler *handler.WithdrawalHandler, m Middlewares) {
	withdrawals := m.authed(e, "/v1/withdrawals")
	withdrawals.POST("", withdrawalHandler.CreateWithdrawal, middleware.RequireRole(entity.RoleWorker), m.Idempotency)

	workers := m.authed(e, "/v1/workers")
	workers.GET("/:email/withdrawals", withdrawalHandler.ListWorkerWithdrawals)
}
