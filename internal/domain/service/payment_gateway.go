package service

import (
	"context"
)

// Normalized intent statuses. Only IntentSucceeded credits coins.
const (
	IntentPending   = "pending"
	IntentSucceeded = "succeeded"
	IntentFailed    = "failed"
)

// PaymentIntent is the gateway-neutral view of a payment. Amounts are in
// minor currency units (cents).
type PaymentIntent struct {
	ID             string
	ClientSecret   string
	RedirectURL    string
	Status         string
	Amount         int64
	AmountReceived int64
	Currency       string
	BuyerID        string
}

// PaymentGateway creates and verifies payments with an external provider.
type PaymentGateway interface {
	Name() string
	CreateIntent(ctx context.Context, amountCents int64, currency, buyerID string) (*PaymentIntent, error)
	GetIntent(ctx context.Context, id string) (*PaymentIntent, error)
}
