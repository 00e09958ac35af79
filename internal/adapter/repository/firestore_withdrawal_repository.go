package repository

import (
	"context"

	"cloud.google.com/go/firestore"

	"microtask/internal/domain/entity"
	"microtask/internal/domain/repository"
)

type firestoreWithdrawalRepository struct {
	client *firestore.Client
}

func NewFirestoreWithdrawalRepository(client *firestore.Client) repository.WithdrawalRepository {
	return &firestoreWithdrawalRepository{
		client: client,
	}
}

func (r *firestoreWithdrawalRepository) GetByID(ctx context.Context, id string) (*entity.Withdrawal, error) {
	return getDoc[entity.Withdrawal](ctx, r.client.Collection(withdrawalsCollection).Doc(id))
}

func (r *firestoreWithdrawalRepository) ListPending(ctx context.Context, limit, offset int) ([]*entity.Withdrawal, int64, error) {
	query := r.client.Collection(withdrawalsCollection).
		Where("status", "==", entity.WithdrawalPending).
		OrderBy("withdraw_date", firestore.Desc)
	return paged[entity.Withdrawal](ctx, query, limit, offset)
}

func (r *firestoreWithdrawalRepository) ListByWorker(ctx context.Context, workerEmail string, limit, offset int) ([]*entity.Withdrawal, int64, error) {
	query := r.client.Collection(withdrawalsCollection).
		Where("worker_email", "==", workerEmail).
		OrderBy("withdraw_date", firestore.Desc)
	return paged[entity.Withdrawal](ctx, query, limit, offset)
}
