package repository

import (
	"context"

	"microtask/internal/domain/entity"
)

type WithdrawalRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Withdrawal, error)
	ListPending(ctx context.Context, limit, offset int) ([]*entity.Withdrawal, int64, error)
	ListByWorker(ctx context.Context, workerEmail string, limit, offset int) ([]*entity.Withdrawal, int64, error)
}
