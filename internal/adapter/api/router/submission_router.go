package router

import (
	"github.com/labstack/echo/v4"

	"microtask/internal/adapter/api/handler"
	"microtask/internal/adapter/api/middleware"
	"microtask/internal/domain/entity"
)

func SetupSubmissionRouter(e *echo.Echo, submissionHandler *handler.SubmissionHandler, m Middlewares) {
	submissions := m.authed(e, "/v1/submissions")
	submissions.POST("", submissionHandler.CreateSubmission, middleware.RequireRole(entity.RoleWorker), m.Idempotency)
	submissions.PATCH("/:id/approve", submissionHandler.ApproveSubmission)
	submissions.PATCH("/:id/reject", submissionHandler.RejectSubmission)

	workers := m.authed(e, "/v1/workers")
	workers.GET("/:email/submissions", submissionHandler.ListWorkerSubmissions)

	buyers := m.authed(e, "/v1/buyers")
	buyers.GET("/:email/submissions", submissionHandler.ListBuyerSubmissions)
}
