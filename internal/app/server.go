package app

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"microtask/internal/adapter/api"
	"microtask/internal/adapter/api/handler"
	apimiddleware "microtask/internal/adapter/api/middleware"
	"microtask/internal/adapter/api/router"
	"microtask/internal/domain/service"
	"microtask/internal/infrastructure/cache"
	"microtask/internal/infrastructure/events"
	"microtask/internal/infrastructure/jwt"
	"microtask/internal/infrastructure/ratelimit"
	"microtask/internal/infrastructure/websocket"
	"microtask/internal/usecase"
	"microtask/pkg/config"
)

// Server holds the wired HTTP application and the pieces callers may need
// after startup.
type Server struct {
	Echo      *echo.Echo
	Tokens    *jwt.Manager
	WebSocket *websocket.Manager
	Ledger    *usecase.LedgerUseCase
}

type Options struct {
	Config  *config.Config
	Stores  *Stores
	Gateway service.PaymentGateway
	// Verifier is optional; without it only development tokens are issued.
	Verifier usecase.IdentityVerifier
	// Cache backs idempotency keys. Defaults to an in-process cache.
	Cache cache.Cache
	// Publisher receives ledger events in addition to the WebSocket hub.
	Publisher *events.Fanout
	Limits    map[string]ratelimit.Policy
	Checks    map[string]handler.Pinger
	// Images enables POST /v1/uploads/images when set.
	Images service.ImageStore
}

// NewServer wires use cases, handlers and routes. The WebSocket hub and the
// rate limiter cleanup run until ctx is done.
func NewServer(ctx context.Context, o Options) (*Server, error) {
	cfg := o.Config

	policy, err := usecase.NewCoinPolicy(cfg.CoinPolicy, cfg.CoinsPerDollar)
	if err != nil {
		return nil, err
	}

	store := o.Cache
	if store == nil {
		store = cache.NewMemoryCache()
	}

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	publisher := o.Publisher
	if publisher == nil {
		publisher = events.NewFanout()
	}
	publisher.Add("websocket", wsManager)

	tokens := jwt.NewManager(cfg.JWTSecret, time.Duration(cfg.JWTExpiry)*time.Second)
	s := o.Stores

	ledger := usecase.NewLedger(s.Transactor, publisher)
	authUseCase := usecase.NewAuthUseCase(tokens, o.Verifier, cfg.IsDevelopment())
	userUseCase := usecase.NewUserUseCase(ledger, s.Users, s.Tasks, cfg.SignupBonusBuyer, cfg.SignupBonusWorker)
	taskUseCase := usecase.NewTaskUseCase(ledger, s.Tasks)
	submissionUseCase := usecase.NewSubmissionUseCase(ledger, s.Submissions)
	withdrawalUseCase := usecase.NewWithdrawalUseCase(ledger, s.Withdrawals, cfg.MinWithdrawalCoins, cfg.CoinsPerWithdrawalDollar)
	paymentUseCase := usecase.NewPaymentUseCase(ledger, s.Payments, s.Users, o.Gateway, policy, cfg.PaymentCurrency)
	reviewUseCase := usecase.NewReviewUseCase(s.Reviews, s.Users)
	ledgerUseCase := usecase.NewLedgerUseCase(s.Entries, s.Users, s.Tasks, s.Submissions)

	checks := map[string]handler.Pinger{"store": s.Ping}
	for name, ping := range o.Checks {
		checks[name] = ping
	}

	handlers := &handler.Handlers{
		Health:     handler.NewHealthHandler(s.Driver, checks),
		Auth:       handler.NewAuthHandler(authUseCase),
		User:       handler.NewUserHandler(userUseCase),
		Task:       handler.NewTaskHandler(taskUseCase),
		Submission: handler.NewSubmissionHandler(submissionUseCase),
		Payment:    handler.NewPaymentHandler(paymentUseCase),
		Withdrawal: handler.NewWithdrawalHandler(withdrawalUseCase),
		Ledger:     handler.NewLedgerHandler(ledgerUseCase),
		Review:     handler.NewReviewHandler(reviewUseCase),
		Admin:      handler.NewAdminHandler(userUseCase, withdrawalUseCase, ledgerUseCase),
		WebSocket:  handler.NewWebSocketHandler(wsManager, cfg.AllowedOrigins),
	}
	if o.Images != nil {
		handlers.Upload = handler.NewUploadHandler(o.Images)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(apimiddleware.RequestLogger())
	if len(cfg.AllowedOrigins) > 0 {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: cfg.AllowedOrigins}))
	} else {
		e.Use(echomw.CORS())
	}
	e.Validator = api.NewValidator()

	limiter := ratelimit.NewRateLimiter(o.Limits)
	limiter.StartCleanupRoutine(ctx.Done())

	authMiddleware := apimiddleware.NewAuthMiddleware(tokens, s.Users)
	router.Setup(e, handlers, router.NewMiddlewares(authMiddleware, limiter, store))

	if sandbox, ok := o.Gateway.(*service.SandboxPaymentService); ok {
		router.SetupDevRouter(e, handler.NewDevHandler(sandbox), cfg.Environment)
	}

	return &Server{
		Echo:      e,
		Tokens:    tokens,
		WebSocket: wsManager,
		Ledger:    ledgerUseCase,
	}, nil
}

// NewPaymentGateway builds the gateway named by PAYMENT_PROVIDER.
func NewPaymentGateway(cfg *config.Config) service.PaymentGateway {
	switch cfg.PaymentProvider {
	case "midtrans":
		return service.NewMidtransPaymentService(cfg.MidtransServerKey, cfg.MidtransClientKey, cfg.MidtransEnvironment == "production")
	case "sandbox":
		return service.NewSandboxPaymentService()
	default:
		return service.NewStripePaymentService(cfg.StripeSecretKey)
	}
}
