package repository

import (
	"context"

	"cloud.google.com/go/firestore"

	"microtask/internal/domain/entity"
	"microtask/internal/domain/repository"
)

type firestoreReviewRepository struct {
	client *firestore.Client
}

func NewFirestoreReviewRepository(client *firestore.Client) repository.ReviewRepository {
	return &firestoreReviewRepository{
		client: client,
	}
}

func (r *firestoreReviewRepository) Create(ctx context.Context, review *entity.Review) error {
	_, err := r.client.Collection(reviewsCollection).Doc(review.ID).Set(ctx, review)
	return err
}

func (r *firestoreReviewRepository) List(ctx context.Context, limit, offset int) ([]*entity.Review, int64, error) {
	query := r.client.Collection(reviewsCollection).OrderBy("createdAt", firestore.Desc)
	return paged[entity.Review](ctx, query, limit, offset)
}
