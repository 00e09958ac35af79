package repository

import (
	"context"

	"microtask/internal/domain/entity"
)

type SubmissionRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Submission, error)
	// An empty status matches every submission.
	ListByWorker(ctx context.Context, workerEmail, status string, limit, offset int) ([]*entity.Submission, int64, error)
	ListByBuyer(ctx context.Context, buyerEmail, status string, limit, offset int) ([]*entity.Submission, int64, error)
	ListByStatus(ctx context.Context, status string) ([]*entity.Submission, error)
}
