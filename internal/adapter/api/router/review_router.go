package router

import (
	"github.com/labstack/echo/v4"

	"microtask/internal/adapter/api/handler"
)

func SetupReviewRouter(e *echo.Echo, reviewHandler *handler.ReviewHandler, m Middlewares) {
	// Public routes
	e.GET("/v1/reviews", reviewHandler.GetReviews)

	reviews := m.authed(e, "/v1/reviews")
	reviews.POST("", reviewHandler.CreateReview)
}
