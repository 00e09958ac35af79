package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapterrepo "microtask/internal/adapter/repository"
	"microtask/internal/domain/entity"
	"microtask/internal/domain/service"
	"microtask/pkg/errors"
)

func TestMultiplierPolicy(t *testing.T) {
	policy, err := NewCoinPolicy(CoinPolicyMultiplier, 10)
	require.NoError(t, err)

	coins, err := policy.Coins(1050, 9999)
	require.NoError(t, err)
	assert.Equal(t, int64(105), coins, "requested coins are ignored")

	_, err = policy.Coins(5, 0)
	assert.True(t, errors.Is(err, errors.CodeBadRequest))
}

func TestExplicitPolicy(t *testing.T) {
	policy, err := NewCoinPolicy(CoinPolicyExplicit, 10)
	require.NoError(t, err)

	coins, err := policy.Coins(1000, 250)
	require.NoError(t, err)
	assert.Equal(t, int64(250), coins)

	_, err = policy.Coins(1000, 0)
	assert.Error(t, err)

	_, err = NewCoinPolicy("bonus", 10)
	assert.Error(t, err)
}

func TestConfirmPaymentCreditsOnce(t *testing.T) {
	f := newFixture(t)
	buyer := f.register(t, "buyer@example.com", entity.RoleBuyer)

	intent, err := f.payments.CreatePaymentIntent(f.ctx, buyer, decimal.RequireFromString("20"))
	require.NoError(t, err)
	assert.Equal(t, int64(2000), intent.AmountCents)
	assert.NotEmpty(t, intent.ClientSecret)

	_, err = f.payments.ConfirmPayment(f.ctx, buyer, ConfirmPaymentInput{PaymentIntentID: intent.PaymentIntentID})
	assert.True(t, errors.Is(err, errors.CodePaymentNotSucceeded))
	assert.Equal(t, int64(50), f.balance(t, buyer.Email))

	require.NoError(t, f.gateway.Settle(intent.PaymentIntentID))

	payment, err := f.payments.ConfirmPayment(f.ctx, buyer, ConfirmPaymentInput{PaymentIntentID: intent.PaymentIntentID})
	require.NoError(t, err)
	assert.Equal(t, int64(200), payment.CoinsAdded)
	assert.Equal(t, "20.00", payment.Amount)
	assert.Equal(t, int64(250), f.balance(t, buyer.Email))

	again, err := f.payments.ConfirmPayment(f.ctx, buyer, ConfirmPaymentInput{PaymentIntentID: intent.PaymentIntentID})
	require.NoError(t, err)
	assert.Equal(t, payment.TransactionID, again.TransactionID)
	assert.Equal(t, int64(250), f.balance(t, buyer.Email))
	assert.Len(t, f.events.ofType(entity.EntryPurchase), 1)

	user, err := f.userRepo.GetByEmail(f.ctx, buyer.Email)
	require.NoError(t, err)
	history, total, err := f.payments.ListBuyerPayments(f.ctx, buyer, user.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, payment.TransactionID, history[0].TransactionID)
	f.assertBalanced(t)
}

func TestConfirmPaymentOfAnotherBuyer(t *testing.T) {
	f := newFixture(t)
	owner := f.register(t, "owner@example.com", entity.RoleBuyer)
	thief := f.register(t, "thief@example.com", entity.RoleBuyer)

	intent, err := f.payments.CreatePaymentIntent(f.ctx, owner, decimal.NewFromInt(5))
	require.NoError(t, err)
	require.NoError(t, f.gateway.Settle(intent.PaymentIntentID))

	_, err = f.payments.ConfirmPayment(f.ctx, thief, ConfirmPaymentInput{PaymentIntentID: intent.PaymentIntentID})
	assert.True(t, errors.Is(err, errors.CodeForbidden))
	assert.Equal(t, int64(50), f.balance(t, thief.Email))
	assert.Equal(t, int64(50), f.balance(t, owner.Email))
}

// ownerlessGateway reports every intent without the buyer it was created for.
type ownerlessGateway struct {
	*service.SandboxPaymentService
}

func (g ownerlessGateway) GetIntent(ctx context.Context, id string) (*service.PaymentIntent, error) {
	intent, err := g.SandboxPaymentService.GetIntent(ctx, id)
	if err != nil {
		return nil, err
	}
	intent.BuyerID = ""
	return intent, nil
}

func TestConfirmPaymentWithoutOwner(t *testing.T) {
	f := newFixture(t)
	buyer := f.register(t, "buyer@example.com", entity.RoleBuyer)

	policy, err := NewCoinPolicy(CoinPolicyMultiplier, 10)
	require.NoError(t, err)
	payments := NewPaymentUseCase(f.ledger, adapterrepo.NewMemoryPaymentRepository(f.store), f.userRepo,
		ownerlessGateway{f.gateway}, policy, "usd")

	intent, err := payments.CreatePaymentIntent(f.ctx, buyer, decimal.NewFromInt(5))
	require.NoError(t, err)
	require.NoError(t, f.gateway.Settle(intent.PaymentIntentID))

	_, err = payments.ConfirmPayment(f.ctx, buyer, ConfirmPaymentInput{PaymentIntentID: intent.PaymentIntentID})
	assert.True(t, errors.Is(err, errors.CodeForbidden))
	assert.Equal(t, int64(50), f.balance(t, buyer.Email))
	f.assertBalanced(t)
}

func TestPaymentIntentValidation(t *testing.T) {
	f := newFixture(t)
	buyer := f.register(t, "buyer@example.com", entity.RoleBuyer)
	worker := f.register(t, "worker@example.com", entity.RoleWorker)

	_, err := f.payments.CreatePaymentIntent(f.ctx, buyer, decimal.Zero)
	assert.True(t, errors.Is(err, errors.CodeBadRequest))

	_, err = f.payments.CreatePaymentIntent(f.ctx, worker, decimal.NewFromInt(5))
	assert.True(t, errors.Is(err, errors.CodeForbidden))

	_, err = f.payments.ConfirmPayment(f.ctx, buyer, ConfirmPaymentInput{PaymentIntentID: "pi_unknown"})
	assert.True(t, errors.Is(err, errors.CodeInternal))
}
