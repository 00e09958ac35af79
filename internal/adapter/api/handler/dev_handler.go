package handler

import (
	"github.com/labstack/echo/v4"

	"microtask/internal/domain/service"
	"microtask/pkg/errors"
	"microtask/pkg/response"
)

// DevHandler drives the sandbox payment gateway by hand during local
// development.
type DevHandler struct {
	sandbox *service.SandboxPaymentService
}

func NewDevHandler(sandbox *service.SandboxPaymentService) *DevHandler {
	return &DevHandler{
		sandbox: sandbox,
	}
}

func (h *DevHandler) SettleIntent(c echo.Context) error {
	if err := h.sandbox.Settle(c.Param("id")); err != nil {
		return response.Error(c, errors.NotFound("Payment intent", err))
	}
	return h.intent(c)
}

func (h *DevHandler) FailIntent(c echo.Context) error {
	if err := h.sandbox.Fail(c.Param("id")); err != nil {
		return response.Error(c, errors.NotFound("Payment intent", err))
	}
	return h.intent(c)
}

func (h *DevHandler) intent(c echo.Context) error {
	intent, err := h.sandbox.GetIntent(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, errors.NotFound("Payment intent", err))
	}
	return response.Success(c, intent)
}
