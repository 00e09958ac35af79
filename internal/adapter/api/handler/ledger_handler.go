package handler

import (
	"github.com/labstack/echo/v4"

	"microtask/internal/domain/entity"
	"microtask/internal/usecase"
)

type LedgerHandler struct {
	ledgerUseCase *usecase.LedgerUseCase
}

func NewLedgerHandler(ledgerUseCase *usecase.LedgerUseCase) *LedgerHandler {
	return &LedgerHandler{
		ledgerUseCase: ledgerUseCase,
	}
}

// ListEntries returns the caller's ledger, newest first.
func (h *LedgerHandler) ListEntries(c echo.Context) error {
	return paginated(c, func(limit, offset int) ([]*entity.LedgerEntry, int64, error) {
		return h.ledgerUseCase.ListEntries(c.Request().Context(), actorOf(c), limit, offset)
	})
}
