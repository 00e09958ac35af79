package handler

import (
	"github.com/labstack/echo/v4"

	"microtask/internal/domain/entity"
	"microtask/internal/usecase"
	"microtask/pkg/response"
)

type AdminHandler struct {
	userUseCase       *usecase.UserUseCase
	withdrawalUseCase *usecase.WithdrawalUseCase
	ledgerUseCase     *usecase.LedgerUseCase
}

func NewAdminHandler(
	userUseCase *usecase.UserUseCase,
	withdrawalUseCase *usecase.WithdrawalUseCase,
	ledgerUseCase *usecase.LedgerUseCase,
) *AdminHandler {
	return &AdminHandler{
		userUseCase:       userUseCase,
		withdrawalUseCase: withdrawalUseCase,
		ledgerUseCase:     ledgerUseCase,
	}
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin buyer worker"`
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	return paginated(c, func(limit, offset int) ([]*entity.User, int64, error) {
		return h.userUseCase.ListUsers(c.Request().Context(), actorOf(c), limit, offset)
	})
}

func (h *AdminHandler) UpdateUserRole(c echo.Context) error {
	var req updateRoleRequest
	if err := bind(c, &req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.UpdateRole(c.Request().Context(), actorOf(c), c.Param("email"), req.Role)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}

// DeleteUser removes an account and forfeits its remaining coins.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	if err := h.userUseCase.DeleteUser(c.Request().Context(), actorOf(c), c.Param("email")); err != nil {
		return response.Error(c, err)
	}
	return response.SuccessMessage(c, "User deleted", nil)
}

func (h *AdminHandler) ListPendingWithdrawals(c echo.Context) error {
	return paginated(c, func(limit, offset int) ([]*entity.Withdrawal, int64, error) {
		return h.withdrawalUseCase.ListPendingWithdrawals(c.Request().Context(), actorOf(c), limit, offset)
	})
}

func (h *AdminHandler) ApproveWithdrawal(c echo.Context) error {
	withdrawal, err := h.withdrawalUseCase.ApproveWithdrawal(c.Request().Context(), actorOf(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.SuccessMessage(c, "Withdrawal approved", withdrawal)
}

// Reconcile checks that balances and escrow add up to the coins minted.
func (h *AdminHandler) Reconcile(c echo.Context) error {
	report, err := h.ledgerUseCase.Reconcile(c.Request().Context(), actorOf(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, report)
}
