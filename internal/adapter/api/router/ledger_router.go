package router

import (
	"github.com/labstack/echo/v4"

	"microtask/internal/adapter/api/handler"
)

func SetupLedgerRouter(e *echo.Echo, ledgerHandler *handler.LedgerHandler, m Middlewares) {
	ledger := m.authed(e, "/v1/ledger")
	ledger.GET("", ledgerHandler.ListEntries)
}
