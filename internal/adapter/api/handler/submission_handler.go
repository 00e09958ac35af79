package handler

import (
	"github.com/labstack/echo/v4"

	"microtask/internal/domain/entity"
	"microtask/internal/usecase"
	"microtask/pkg/response"
)

type SubmissionHandler struct {
	submissionUseCase *usecase.SubmissionUseCase
}

func NewSubmissionHandler(submissionUseCase *usecase.SubmissionUseCase) *SubmissionHandler {
	return &SubmissionHandler{
		submissionUseCase: submissionUseCase,
	}
}

type createSubmissionRequest struct {
	TaskID            string `json:"task_id" validate:"required"`
	SubmissionDetails string `json:"submission_details" validate:"required"`
}

func (h *SubmissionHandler) CreateSubmission(c echo.Context) error {
	var req createSubmissionRequest
	if err := bind(c, &req); err != nil {
		return response.Error(c, err)
	}

	submission, err := h.submissionUseCase.CreateSubmission(c.Request().Context(), actorOf(c), usecase.CreateSubmissionInput{
		TaskID:            req.TaskID,
		SubmissionDetails: req.SubmissionDetails,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, submission)
}

func (h *SubmissionHandler) ApproveSubmission(c echo.Context) error {
	submission, err := h.submissionUseCase.ApproveSubmission(c.Request().Context(), actorOf(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.SuccessMessage(c, "Submission approved", submission)
}

func (h *SubmissionHandler) RejectSubmission(c echo.Context) error {
	submission, err := h.submissionUseCase.RejectSubmission(c.Request().Context(), actorOf(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.SuccessMessage(c, "Submission rejected", submission)
}

func (h *SubmissionHandler) ListWorkerSubmissions(c echo.Context) error {
	return paginated(c, func(limit, offset int) ([]*entity.Submission, int64, error) {
		return h.submissionUseCase.ListWorkerSubmissions(c.Request().Context(), actorOf(c), c.Param("email"), c.QueryParam("status"), limit, offset)
	})
}

func (h *SubmissionHandler) ListBuyerSubmissions(c echo.Context) error {
	return paginated(c, func(limit, offset int) ([]*entity.Submission, int64, error) {
		return h.submissionUseCase.ListBuyerSubmissions(c.Request().Context(), actorOf(c), c.Param("email"), c.QueryParam("status"), limit, offset)
	})
}
