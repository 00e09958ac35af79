package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"microtask/internal/domain/entity"
	"microtask/internal/usecase"
	"microtask/pkg/response"
)

type TaskHandler struct {
	taskUseCase *usecase.TaskUseCase
}

func NewTaskHandler(taskUseCase *usecase.TaskUseCase) *TaskHandler {
	return &TaskHandler{
		taskUseCase: taskUseCase,
	}
}

type createTaskRequest struct {
	Title            string    `json:"task_title" validate:"required"`
	Detail           string    `json:"task_detail" validate:"required"`
	SubmissionInfo   string    `json:"submission_info"`
	ImageURL         string    `json:"task_image_url" validate:"omitempty,url"`
	RequiredWorkers  flexInt   `json:"required_workers"`
	PayableAmount    flexInt   `json:"payable_amount"`
	TotalPayableCoin flexInt   `json:"totalPayableCoin"`
	CompletionDate   time.Time `json:"completion_date" validate:"required"`
}

type updateTaskRequest struct {
	Title          string     `json:"task_title"`
	Detail         string     `json:"task_detail"`
	SubmissionInfo string     `json:"submission_info"`
	ImageURL       string     `json:"task_image_url" validate:"omitempty,url"`
	CompletionDate *time.Time `json:"completion_date"`
}

func (h *TaskHandler) CreateTask(c echo.Context) error {
	var req createTaskRequest
	if err := bind(c, &req); err != nil {
		return response.Error(c, err)
	}

	task, err := h.taskUseCase.CreateTask(c.Request().Context(), actorOf(c), usecase.CreateTaskInput{
		Title:            req.Title,
		Detail:           req.Detail,
		SubmissionInfo:   req.SubmissionInfo,
		ImageURL:         req.ImageURL,
		RequiredWorkers:  int64(req.RequiredWorkers),
		PayableAmount:    int64(req.PayableAmount),
		TotalPayableCoin: int64(req.TotalPayableCoin),
		CompletionDate:   req.CompletionDate,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, task)
}

func (h *TaskHandler) GetTask(c echo.Context) error {
	task, err := h.taskUseCase.GetTask(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, task)
}

// ListAvailableTasks lists tasks that still have open worker slots.
func (h *TaskHandler) ListAvailableTasks(c echo.Context) error {
	return paginated(c, func(limit, offset int) ([]*entity.Task, int64, error) {
		return h.taskUseCase.ListAvailableTasks(c.Request().Context(), limit, offset)
	})
}

func (h *TaskHandler) ListBuyerTasks(c echo.Context) error {
	return paginated(c, func(limit, offset int) ([]*entity.Task, int64, error) {
		return h.taskUseCase.ListBuyerTasks(c.Request().Context(), actorOf(c), c.Param("email"), limit, offset)
	})
}

func (h *TaskHandler) UpdateTask(c echo.Context) error {
	var req updateTaskRequest
	if err := bind(c, &req); err != nil {
		return response.Error(c, err)
	}

	task, err := h.taskUseCase.UpdateTask(c.Request().Context(), actorOf(c), c.Param("id"), usecase.UpdateTaskInput{
		Title:          req.Title,
		Detail:         req.Detail,
		SubmissionInfo: req.SubmissionInfo,
		ImageURL:       req.ImageURL,
		CompletionDate: req.CompletionDate,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, task)
}

// DeleteTask removes a task and refunds its unfilled slots to the buyer.
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	result, err := h.taskUseCase.DeleteTask(c.Request().Context(), actorOf(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.SuccessMessage(c, "Task deleted", result)
}
