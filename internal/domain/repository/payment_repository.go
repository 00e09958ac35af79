package repository

import (
	"context"

	"microtask/internal/domain/entity"
)

type PaymentRepository interface {
	GetByTransactionID(ctx context.Context, transactionID string) (*entity.Payment, error)
	ListByBuyer(ctx context.Context, buyerID string, limit, offset int) ([]*entity.Payment, int64, error)
}
