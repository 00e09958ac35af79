package repository

import (
	"context"

	"cloud.google.com/go/firestore"

	"microtask/internal/domain/entity"
	"microtask/internal/domain/repository"
)

type firestoreSubmissionRepository struct {
	client *firestore.Client
}

func NewFirestoreSubmissionRepository(client *firestore.Client) repository.SubmissionRepository {
	return &firestoreSubmissionRepository{
		client: client,
	}
}

func (r *firestoreSubmissionRepository) GetByID(ctx context.Context, id string) (*entity.Submission, error) {
	return getDoc[entity.Submission](ctx, r.client.Collection(submissionsCollection).Doc(id))
}

func (r *firestoreSubmissionRepository) listBy(ctx context.Context, field, value, status string, limit, offset int) ([]*entity.Submission, int64, error) {
	query := r.client.Collection(submissionsCollection).Where(field, "==", value)
	if status != "" {
		query = query.Where("status", "==", status)
	}
	query = query.OrderBy("current_date", firestore.Desc)
	return paged[entity.Submission](ctx, query, limit, offset)
}

func (r *firestoreSubmissionRepository) ListByWorker(ctx context.Context, workerEmail, status string, limit, offset int) ([]*entity.Submission, int64, error) {
	return r.listBy(ctx, "worker_email", workerEmail, status, limit, offset)
}

func (r *firestoreSubmissionRepository) ListByBuyer(ctx context.Context, buyerEmail, status string, limit, offset int) ([]*entity.Submission, int64, error) {
	return r.listBy(ctx, "buyer_email", buyerEmail, status, limit, offset)
}

func (r *firestoreSubmissionRepository) ListByStatus(ctx context.Context, status string) ([]*entity.Submission, error) {
	query := r.client.Collection(submissionsCollection).Where("status", "==", status)
	return collect[entity.Submission](query.Documents(ctx))
}
