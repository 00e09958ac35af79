package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"microtask/internal/domain/entity"
	"microtask/internal/domain/repository"
	"microtask/internal/domain/service"
	"microtask/pkg/errors"
	"microtask/pkg/logger"
)

const (
	CoinPolicyMultiplier = "multiplier"
	CoinPolicyExplicit   = "explicit"
)

// CoinPolicy decides how many coins a confirmed payment is worth.
type CoinPolicy interface {
	Coins(amountReceivedCents, requested int64) (int64, error)
}

// multiplierPolicy pays a fixed number of coins per whole dollar received.
type multiplierPolicy struct {
	coinsPerDollar int64
}

func (p multiplierPolicy) Coins(amountReceivedCents, _ int64) (int64, error) {
	coins := decimal.New(amountReceivedCents, -2).
		Mul(decimal.NewFromInt(p.coinsPerDollar)).
		Floor().
		IntPart()
	if coins <= 0 {
		return 0, errors.BadRequest("Payment amount is too small to buy coins", nil)
	}
	return coins, nil
}

// explicitPolicy trusts the coin amount agreed on the checkout page.
type explicitPolicy struct{}

func (explicitPolicy) Coins(_, requested int64) (int64, error) {
	if requested <= 0 {
		return 0, errors.BadRequest("coins must be greater than zero", nil)
	}
	return requested, nil
}

func NewCoinPolicy(name string, coinsPerDollar int64) (CoinPolicy, error) {
	switch name {
	case CoinPolicyMultiplier, "":
		return multiplierPolicy{coinsPerDollar: coinsPerDollar}, nil
	case CoinPolicyExplicit:
		return explicitPolicy{}, nil
	}
	return nil, fmt.Errorf("unknown coin policy %q", name)
}

type PaymentUseCase struct {
	ledger      *Ledger
	paymentRepo repository.PaymentRepository
	userRepo    repository.UserRepository
	gateway     service.PaymentGateway
	policy      CoinPolicy
	currency    string
}

func NewPaymentUseCase(
	ledger *Ledger,
	paymentRepo repository.PaymentRepository,
	userRepo repository.UserRepository,
	gateway service.PaymentGateway,
	policy CoinPolicy,
	currency string,
) *PaymentUseCase {
	return &PaymentUseCase{
		ledger:      ledger,
		paymentRepo: paymentRepo,
		userRepo:    userRepo,
		gateway:     gateway,
		policy:      policy,
		currency:    currency,
	}
}

type PaymentIntentResult struct {
	PaymentIntentID string `json:"paymentIntentId"`
	ClientSecret    string `json:"clientSecret"`
	RedirectURL     string `json:"redirectUrl,omitempty"`
	AmountCents     int64  `json:"amountCents"`
	Currency        string `json:"currency"`
}

type ConfirmPaymentInput struct {
	PaymentIntentID string
	// Coins is only read under the explicit coin policy.
	Coins int64
}

// CreatePaymentIntent opens a gateway payment for amount dollars on behalf
// of the calling buyer.
func (uc *PaymentUseCase) CreatePaymentIntent(ctx context.Context, actor Actor, amount decimal.Decimal) (*PaymentIntentResult, error) {
	if err := requireRole(actor, entity.RoleBuyer); err != nil {
		return nil, err
	}

	cents := amount.Shift(2).Round(0).IntPart()
	if cents <= 0 {
		return nil, errors.BadRequest("price must be greater than zero", nil)
	}

	buyer, err := uc.userRepo.GetByEmail(ctx, actor.Email)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.UserNotFound(err)
		}
		return nil, errors.Internal("Failed to get user", err)
	}

	intent, err := uc.gateway.CreateIntent(ctx, cents, uc.currency, buyer.ID)
	if err != nil {
		return nil, errors.Internal("Failed to create payment intent", err)
	}

	return &PaymentIntentResult{
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		RedirectURL:     intent.RedirectURL,
		AmountCents:     cents,
		Currency:        uc.currency,
	}, nil
}

// ConfirmPayment credits the buyer once the gateway reports the payment as
// succeeded. The payment record is keyed by the gateway transaction id, so a
// repeated confirmation returns the stored record without a second credit.
func (uc *PaymentUseCase) ConfirmPayment(ctx context.Context, actor Actor, input ConfirmPaymentInput) (*entity.Payment, error) {
	if err := requireRole(actor, entity.RoleBuyer); err != nil {
		return nil, err
	}
	if input.PaymentIntentID == "" {
		return nil, errors.BadRequest("paymentIntentId is required", nil)
	}

	intent, err := uc.gateway.GetIntent(ctx, input.PaymentIntentID)
	if err != nil {
		return nil, errors.Internal("Failed to verify payment", err)
	}
	if intent.Status != service.IntentSucceeded {
		return nil, errors.PaymentNotSucceeded(intent.Status)
	}

	buyer, err := uc.userRepo.GetByEmail(ctx, actor.Email)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.UserNotFound(err)
		}
		return nil, errors.Internal("Failed to get user", err)
	}
	// Intents without an owner, such as ones created outside this service,
	// are never credited.
	if intent.BuyerID == "" || intent.BuyerID != buyer.ID {
		return nil, errors.Forbidden("Payment belongs to another account", nil)
	}

	coins, err := uc.policy.Coins(intent.AmountReceived, input.Coins)
	if err != nil {
		return nil, err
	}

	var payment *entity.Payment
	err = uc.ledger.run(ctx, "confirm_payment", intent.ID, func(tx repository.LedgerTx, p *posting) error {
		existing, err := tx.GetPayment(intent.ID)
		if err == nil {
			payment = existing
			return nil
		}
		if !errors.IsNotFound(err) {
			return err
		}

		user, err := getUser(tx, actor.Email)
		if err != nil {
			return err
		}

		payment = &entity.Payment{
			ID:            intent.ID,
			BuyerID:       user.ID,
			BuyerEmail:    user.Email,
			BuyerName:     user.Name,
			BuyerPhoto:    user.PhotoURL,
			TransactionID: intent.ID,
			Provider:      uc.gateway.Name(),
			AmountCents:   intent.AmountReceived,
			Amount:        decimal.New(intent.AmountReceived, -2).StringFixed(2),
			CoinsAdded:    coins,
			Date:          p.now,
		}
		if err := tx.PutPayment(payment); err != nil {
			return err
		}
		return p.apply(tx, user, coins, entity.EntryPurchase, intent.ID, fmt.Sprintf("Purchased %d coins", coins))
	})
	if err != nil {
		return nil, errors.AsAppError(err, "Failed to confirm payment")
	}

	logger.Info("Payment %s confirmed for %s: %d coins", payment.TransactionID, payment.BuyerEmail, payment.CoinsAdded)
	return payment, nil
}

func (uc *PaymentUseCase) ListBuyerPayments(ctx context.Context, actor Actor, buyerID string, limit, offset int) ([]*entity.Payment, int64, error) {
	buyer, err := uc.userRepo.GetByID(ctx, buyerID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, 0, errors.UserNotFound(err)
		}
		return nil, 0, errors.Internal("Failed to get user", err)
	}
	if err := requireSelfOrAdmin(actor, buyer.Email); err != nil {
		return nil, 0, err
	}

	payments, total, err := uc.paymentRepo.ListByBuyer(ctx, buyerID, limit, offset)
	if err != nil {
		return nil, 0, errors.Internal("Failed to list payments", err)
	}
	return payments, total, nil
}
