package repository

import (
	"context"

	"microtask/internal/domain/entity"
)

type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Task, error)
	// ListAvailable returns tasks with open slots, newest completion date first.
	ListAvailable(ctx context.Context, limit, offset int) ([]*entity.Task, int64, error)
	ListByBuyer(ctx context.Context, buyerEmail string, limit, offset int) ([]*entity.Task, int64, error)
	All(ctx context.Context) ([]*entity.Task, error)
	// UpdateDetails writes the descriptive fields only; slot and price fields
	// are left untouched.
	UpdateDetails(ctx context.Context, task *entity.Task) error
}
