package repository

import (
	"context"

	"microtask/internal/domain/entity"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	List(ctx context.Context, limit, offset int) ([]*entity.Review, int64, error)
}
