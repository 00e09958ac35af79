package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"microtask/internal/domain/entity"
	"microtask/internal/usecase"
	"microtask/pkg/response"
)

type PaymentHandler struct {
	paymentUseCase *usecase.PaymentUseCase
}

func NewPaymentHandler(paymentUseCase *usecase.PaymentUseCase) *PaymentHandler {
	return &PaymentHandler{
		paymentUseCase: paymentUseCase,
	}
}

type createIntentRequest struct {
	// Price in dollars, as a number or decimal string.
	Price decimal.Decimal `json:"price"`
}

type confirmPaymentRequest struct {
	PaymentIntentID string  `json:"paymentIntentId" validate:"required"`
	Coins           flexInt `json:"coins"`
}

func (h *PaymentHandler) CreatePaymentIntent(c echo.Context) error {
	var req createIntentRequest
	if err := bind(c, &req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.paymentUseCase.CreatePaymentIntent(c.Request().Context(), actorOf(c), req.Price)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, result)
}

// ConfirmPayment credits the buyer for a succeeded payment intent.
func (h *PaymentHandler) ConfirmPayment(c echo.Context) error {
	var req confirmPaymentRequest
	if err := bind(c, &req); err != nil {
		return response.Error(c, err)
	}

	payment, err := h.paymentUseCase.ConfirmPayment(c.Request().Context(), actorOf(c), usecase.ConfirmPaymentInput{
		PaymentIntentID: req.PaymentIntentID,
		Coins:           int64(req.Coins),
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.SuccessMessage(c, "Payment recorded", payment)
}

func (h *PaymentHandler) ListBuyerPayments(c echo.Context) error {
	return paginated(c, func(limit, offset int) ([]*entity.Payment, int64, error) {
		return h.paymentUseCase.ListBuyerPayments(c.Request().Context(), actorOf(c), c.Param("buyerId"), limit, offset)
	})
}
