package service

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"microtask/pkg/logger"
)

type StripePaymentService struct {
	sc *client.API
}

func NewStripePaymentService(secretKey string) *StripePaymentService {
	return &StripePaymentService{
		sc: client.New(secretKey, nil),
	}
}

func (s *StripePaymentService) Name() string {
	return "stripe"
}

func (s *StripePaymentService) CreateIntent(ctx context.Context, amountCents int64, currency, buyerID string) (*PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata("buyerId", buyerID)

	pi, err := s.sc.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe create payment intent: %w", err)
	}

	logger.Debug("Stripe payment intent %s created for buyer %s", pi.ID, buyerID)
	return fromStripe(pi), nil
}

func (s *StripePaymentService) GetIntent(ctx context.Context, id string) (*PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := s.sc.PaymentIntents.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("stripe get payment intent %s: %w", id, err)
	}
	return fromStripe(pi), nil
}

func fromStripe(pi *stripe.PaymentIntent) *PaymentIntent {
	status := IntentPending
	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		status = IntentSucceeded
	case stripe.PaymentIntentStatusCanceled:
		status = IntentFailed
	}

	return &PaymentIntent{
		ID:             pi.ID,
		ClientSecret:   pi.ClientSecret,
		Status:         status,
		Amount:         pi.Amount,
		AmountReceived: pi.AmountReceived,
		Currency:       string(pi.Currency),
		BuyerID:        pi.Metadata["buyerId"],
	}
}
