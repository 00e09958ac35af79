package handler

import (
	"github.com/labstack/echo/v4"

	"microtask/internal/domain/entity"
	"microtask/internal/usecase"
	"microtask/pkg/response"
)

type WithdrawalHandler struct {
	withdrawalUseCase *usecase.WithdrawalUseCase
}

func NewWithdrawalHandler(withdrawalUseCase *usecase.WithdrawalUseCase) *WithdrawalHandler {
	return &WithdrawalHandler{
		withdrawalUseCase: withdrawalUseCase,
	}
}

type createWithdrawalRequest struct {
	WithdrawalCoin flexInt `json:"withdrawal_coin"`
	PaymentSystem  string  `json:"payment_system" validate:"required"`
	AccountNumber  string  `json:"account_number" validate:"required"`
}

func (h *WithdrawalHandler) CreateWithdrawal(c echo.Context) error {
	var req createWithdrawalRequest
	if err := bind(c, &req); err != nil {
		return response.Error(c, err)
	}

	withdrawal, err := h.withdrawalUseCase.CreateWithdrawal(c.Request().Context(), actorOf(c), usecase.CreateWithdrawalInput{
		WithdrawalCoin: int64(req.WithdrawalCoin),
		PaymentSystem:  req.PaymentSystem,
		AccountNumber:  req.AccountNumber,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, withdrawal)
}

func (h *WithdrawalHandler) ListWorkerWithdrawals(c echo.Context) error {
	return paginated(c, func(limit, offset int) ([]*entity.Withdrawal, int64, error) {
		return h.withdrawalUseCase.ListWorkerWithdrawals(c.Request().Context(), actorOf(c), c.Param("email"), limit, offset)
	})
}
