package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"microtask/internal/domain/entity"
	"microtask/internal/domain/repository"
	"microtask/pkg/errors"
)

type ReviewUseCase struct {
	reviewRepo repository.ReviewRepository
	userRepo   repository.UserRepository
}

func NewReviewUseCase(reviewRepo repository.ReviewRepository, userRepo repository.UserRepository) *ReviewUseCase {
	return &ReviewUseCase{
		reviewRepo: reviewRepo,
		userRepo:   userRepo,
	}
}

type CreateReviewInput struct {
	Rating  int
	Content string
}

func (uc *ReviewUseCase) CreateReview(ctx context.Context, actor Actor, input CreateReviewInput) (*entity.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, errors.BadRequest("Rating must be between 1 and 5", nil)
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, errors.BadRequest("Review content is required", nil)
	}

	user, err := uc.userRepo.GetByEmail(ctx, actor.Email)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.UserNotFound(err)
		}
		return nil, errors.Internal("Failed to get user", err)
	}

	review := &entity.Review{
		ID:        uuid.New().String(),
		Name:      user.Name,
		Email:     user.Email,
		Photo:     user.PhotoURL,
		Rating:    input.Rating,
		Content:   input.Content,
		CreatedAt: time.Now(),
	}
	if err := uc.reviewRepo.Create(ctx, review); err != nil {
		return nil, errors.Internal("Failed to create review", err)
	}
	return review, nil
}

func (uc *ReviewUseCase) ListReviews(ctx context.Context, limit, offset int) ([]*entity.Review, int64, error) {
	reviews, total, err := uc.reviewRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, errors.Internal("Failed to list reviews", err)
	}
	return reviews, total, nil
}
