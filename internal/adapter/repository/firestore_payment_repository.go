package repository

import (
	"context"

	"cloud.google.com/go/firestore"

	"microtask/internal/domain/entity"
	"microtask/internal/domain/repository"
)

type firestorePaymentRepository struct {
	client *firestore.Client
}

func NewFirestorePaymentRepository(client *firestore.Client) repository.PaymentRepository {
	return &firestorePaymentRepository{
		client: client,
	}
}

func (r *firestorePaymentRepository) GetByTransactionID(ctx context.Context, transactionID string) (*entity.Payment, error) {
	return getDoc[entity.Payment](ctx, r.client.Collection(paymentsCollection).Doc(transactionID))
}

func (r *firestorePaymentRepository) ListByBuyer(ctx context.Context, buyerID string, limit, offset int) ([]*entity.Payment, int64, error) {
	query := r.client.Collection(paymentsCollection).
		Where("buyerId", "==", buyerID).
		OrderBy("date", firestore.Desc)
	return paged[entity.Payment](ctx, query, limit, offset)
}
