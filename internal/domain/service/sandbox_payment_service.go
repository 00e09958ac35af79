package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"microtask/pkg/logger"
)

// SandboxPaymentService keeps intents in memory for local development and
// tests. Intents stay pending until Settle is called.
type SandboxPaymentService struct {
	mu      sync.Mutex
	intents map[string]*PaymentIntent
}

func NewSandboxPaymentService() *SandboxPaymentService {
	return &SandboxPaymentService{
		intents: make(map[string]*PaymentIntent),
	}
}

func (s *SandboxPaymentService) Name() string {
	return "sandbox"
}

func (s *SandboxPaymentService) CreateIntent(ctx context.Context, amountCents int64, currency, buyerID string) (*PaymentIntent, error) {
	id := "pi_" + uuid.New().String()
	intent := &PaymentIntent{
		ID:           id,
		ClientSecret: fmt.Sprintf("%s_secret_test", id),
		Status:       IntentPending,
		Amount:       amountCents,
		Currency:     currency,
		BuyerID:      buyerID,
	}

	s.mu.Lock()
	s.intents[id] = intent
	s.mu.Unlock()

	logger.Debug("Sandbox payment intent %s created, amount: %d", id, amountCents)
	c := *intent
	return &c, nil
}

func (s *SandboxPaymentService) GetIntent(ctx context.Context, id string) (*PaymentIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	intent, ok := s.intents[id]
	if !ok {
		return nil, fmt.Errorf("payment intent %s not found", id)
	}
	c := *intent
	return &c, nil
}

// Settle marks an intent as paid in full, as the card network would.
func (s *SandboxPaymentService) Settle(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	intent, ok := s.intents[id]
	if !ok {
		return fmt.Errorf("payment intent %s not found", id)
	}
	intent.Status = IntentSucceeded
	intent.AmountReceived = intent.Amount
	return nil
}

// Fail marks an intent as declined.
func (s *SandboxPaymentService) Fail(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	intent, ok := s.intents[id]
	if !ok {
		return fmt.Errorf("payment intent %s not found", id)
	}
	intent.Status = IntentFailed
	return nil
}
