package router

import (
	"github.com/labstack/echo/v4"

	"microtask/internal/adapter/api/handler"
	"microtask/internal/adapter/api/middleware"
	"microtask/internal/domain/entity"
	"microtask/internal/infrastructure/ratelimit"
)

func SetupPaymentRouter(e *echo.Echo, paymentHandler *handler.PaymentHandler, m Middlewares) {
	payments := m.authed(e, "/v1/payments")

	buyerOnly := middleware.RequireRole(entity.RoleBuyer)
	limited := middleware.RateLimit(m.Limiter, ratelimit.ActionPayment)
	payments.POST("/intent", paymentHandler.CreatePaymentIntent, buyerOnly, limited, m.Idempotency)
	payments.POST("/confirm", paymentHandler.ConfirmPayment, buyerOnly, limited)

	payments.GET("/:buyerId", paymentHandler.ListBuyerPayments)
}
