package handler

import (
	"github.com/labstack/echo/v4"

	"microtask/internal/domain/entity"
	"microtask/internal/usecase"
	"microtask/pkg/response"
)

type ReviewHandler struct {
	reviewUseCase *usecase.ReviewUseCase
}

func NewReviewHandler(reviewUseCase *usecase.ReviewUseCase) *ReviewHandler {
	return &ReviewHandler{
		reviewUseCase: reviewUseCase,
	}
}

type createReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Content string `json:"review" validate:"required"`
}

func (h *ReviewHandler) CreateReview(c echo.Context) error {
	var req createReviewRequest
	if err := bind(c, &req); err != nil {
		return response.Error(c, err)
	}

	review, err := h.reviewUseCase.CreateReview(c.Request().Context(), actorOf(c), usecase.CreateReviewInput{
		Rating:  req.Rating,
		Content: req.Content,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, review)
}

func (h *ReviewHandler) GetReviews(c echo.Context) error {
	return paginated(c, func(limit, offset int) ([]*entity.Review, int64, error) {
		return h.reviewUseCase.ListReviews(c.Request().Context(), limit, offset)
	})
}
