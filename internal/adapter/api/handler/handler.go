package handler

import (
	"github.com/labstack/echo/v4"

	"microtask/internal/adapter/api/middleware"
	"microtask/pkg/errors"
	"microtask/pkg/response"
	"microtask/pkg/utils"
)

// Handlers groups every HTTP handler the routers mount.
type Handlers struct {
	Health     *HealthHandler
	Auth       *AuthHandler
	User       *UserHandler
	Task       *TaskHandler
	Submission *SubmissionHandler
	Payment    *PaymentHandler
	Withdrawal *WithdrawalHandler
	Ledger     *LedgerHandler
	Review     *ReviewHandler
	Admin      *AdminHandler
	WebSocket  *WebSocketHandler
	Upload     *UploadHandler
}

func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errors.BadRequest("Invalid request body", err)
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}

func paginated[T any](c echo.Context, list func(limit, offset int) ([]T, int64, error)) error {
	p := utils.GetPagination(c)
	items, total, err := list(p.Limit, p.Offset())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, items, total, p.Page, p.Limit)
}

var actorOf = middleware.Actor
