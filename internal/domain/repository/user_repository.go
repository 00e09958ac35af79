package repository

import (
	"context"

	"microtask/internal/domain/entity"
)

// UserRepository covers reads and non-ledger writes. Balance changes go
// through LedgerTx only.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context, limit, offset int) ([]*entity.User, int64, error)
	All(ctx context.Context) ([]*entity.User, error)
	UpdateRole(ctx context.Context, email, role string) error
}
