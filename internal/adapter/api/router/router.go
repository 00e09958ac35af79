package router

import (
	"time"

	"github.com/labstack/echo/v4"

	"microtask/internal/adapter/api/handler"
	"microtask/internal/adapter/api/middleware"
	"microtask/internal/infrastructure/cache"
	"microtask/internal/infrastructure/ratelimit"
)

const idempotencyTTL = 24 * time.Hour

// Middlewares are the shared guards the routers attach per group.
type Middlewares struct {
	Auth        *middleware.AuthMiddleware
	Limiter     *ratelimit.RateLimiter
	Idempotency echo.MiddlewareFunc
}

func NewMiddlewares(auth *middleware.AuthMiddleware, limiter *ratelimit.RateLimiter, store cache.Cache) Middlewares {
	return Middlewares{
		Auth:        auth,
		Limiter:     limiter,
		Idempotency: middleware.Idempotency(store, idempotencyTTL),
	}
}

// authed returns a group whose routes need a registered caller.
func (m Middlewares) authed(e *echo.Echo, prefix string) *echo.Group {
	g := e.Group(prefix)
	g.Use(m.Auth.Authenticate)
	g.Use(middleware.RateLimit(m.Limiter, ratelimit.ActionGeneral))
	g.Use(m.Auth.LoadActor)
	return g
}

func Setup(e *echo.Echo, h *handler.Handlers, m Middlewares) {
	SetupHealthRouter(e, h.Health)
	SetupAuthRouter(e, h.Auth, m)
	SetupUserRouter(e, h.User, m)
	SetupReviewRouter(e, h.Review, m)
	SetupTaskRouter(e, h.Task, m)
	SetupSubmissionRouter(e, h.Submission, m)
	SetupPaymentRouter(e, h.Payment, m)
	SetupWithdrawalRouter(e, h.Withdrawal, m)
	SetupLedgerRouter(e, h.Ledger, m)
	SetupAdminRouter(e, h.Admin, h.Task, m)
	if h.WebSocket != nil {
		SetupWebSocketRouter(e, h.WebSocket, m)
	}
	if h.Upload != nil {
		SetupUploadRouter(e, h.Upload, m)
	}
}
