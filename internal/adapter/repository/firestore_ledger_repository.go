package repository

import (
	"context"

	"cloud.google.com/go/firestore"

	"microtask/internal/domain/entity"
	"microtask/internal/domain/repository"
)

type firestoreLedgerEntryRepository struct {
	client *firestore.Client
}

func NewFirestoreLedgerEntryRepository(client *firestore.Client) repository.LedgerEntryRepository {
	return &firestoreLedgerEntryRepository{
		client: client,
	}
}

func (r *firestoreLedgerEntryRepository) ListByUser(ctx context.Context, email string, limit, offset int) ([]*entity.LedgerEntry, int64, error) {
	query := r.client.Collection(ledgerCollection).
		Where("userEmail", "==", email).
		OrderBy("createdAt", firestore.Desc)
	return paged[entity.LedgerEntry](ctx, query, limit, offset)
}

func (r *firestoreLedgerEntryRepository) All(ctx context.Context) ([]*entity.LedgerEntry, error) {
	return collect[entity.LedgerEntry](r.client.Collection(ledgerCollection).Documents(ctx))
}
