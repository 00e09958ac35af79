package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"microtask/internal/domain/entity"
	"microtask/internal/domain/repository"
)

// Users are keyed by email so the natural key stays unique inside
// transactions.
type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	query := r.client.Collection(usersCollection).Where("id", "==", id)
	return first[entity.User](ctx, query, usersCollection+"/id="+id)
}

func (r *firestoreUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return getDoc[entity.User](ctx, r.client.Collection(usersCollection).Doc(email))
}

func (r *firestoreUserRepository) List(ctx context.Context, limit, offset int) ([]*entity.User, int64, error) {
	query := r.client.Collection(usersCollection).OrderBy("createdAt", firestore.Desc)
	return paged[entity.User](ctx, query, limit, offset)
}

func (r *firestoreUserRepository) All(ctx context.Context) ([]*entity.User, error) {
	return collect[entity.User](r.client.Collection(usersCollection).Documents(ctx))
}

func (r *firestoreUserRepository) UpdateRole(ctx context.Context, email, role string) error {
	ref := r.client.Collection(usersCollection).Doc(email)
	_, err := ref.Update(ctx, []firestore.Update{
		{Path: "role", Value: role},
		{Path: "updatedAt", Value: time.Now()},
	})
	return notFound(err, ref.Path)
}
