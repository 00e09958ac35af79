package usecase

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"microtask/internal/domain/entity"
	"microtask/internal/domain/repository"
	"microtask/pkg/errors"
)

type TaskUseCase struct {
	ledger   *Ledger
	taskRepo repository.TaskRepository
}

func NewTaskUseCase(ledger *Ledger, taskRepo repository.TaskRepository) *TaskUseCase {
	return &TaskUseCase{
		ledger:   ledger,
		taskRepo: taskRepo,
	}
}

type CreateTaskInput struct {
	Title           string
	Detail          string
	SubmissionInfo  string
	ImageURL        string
	RequiredWorkers int64
	PayableAmount   int64
	// TotalPayableCoin is optional. When set it must equal
	// RequiredWorkers * PayableAmount.
	TotalPayableCoin int64
	CompletionDate   time.Time
}

type UpdateTaskInput struct {
	Title          string
	Detail         string
	SubmissionInfo string
	ImageURL       string
	CompletionDate *time.Time
}

type DeleteTaskResult struct {
	TaskID   string `json:"taskId"`
	Refunded int64  `json:"refunded"`
}

// CreateTask escrows the full task cost from the buyer and inserts the task
// in the same transaction.
func (uc *TaskUseCase) CreateTask(ctx context.Context, actor Actor, input CreateTaskInput) (*entity.Task, error) {
	if err := requireRole(actor, entity.RoleBuyer); err != nil {
		return nil, err
	}

	if input.RequiredWorkers <= 0 {
		return nil, errors.BadRequest("required_workers must be greater than zero", nil)
	}
	if input.PayableAmount <= 0 {
		return nil, errors.BadRequest("payable_amount must be greater than zero", nil)
	}
	if input.RequiredWorkers > math.MaxInt64/input.PayableAmount {
		return nil, errors.BadRequest("Task cost is too large", nil)
	}

	total := input.RequiredWorkers * input.PayableAmount
	if input.TotalPayableCoin != 0 && input.TotalPayableCoin != total {
		return nil, errors.BadRequest("totalPayableCoin must equal required_workers * payable_amount", nil)
	}

	now := time.Now()
	task := &entity.Task{
		ID:               uuid.New().String(),
		BuyerEmail:       actor.Email,
		Title:            input.Title,
		Detail:           input.Detail,
		SubmissionInfo:   input.SubmissionInfo,
		ImageURL:         input.ImageURL,
		RequiredWorkers:  input.RequiredWorkers,
		PayableAmount:    input.PayableAmount,
		TotalPayableCoin: total,
		CompletionDate:   input.CompletionDate,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err := uc.ledger.run(ctx, "create_task", task.ID, func(tx repository.LedgerTx, p *posting) error {
		buyer, err := getUser(tx, actor.Email)
		if err != nil {
			return err
		}
		if buyer.TotalCoin < total {
			return errors.InsufficientFunds("")
		}

		task.BuyerName = buyer.Name
		buyer.OpenTasks++
		if err := tx.PutTask(task); err != nil {
			return err
		}
		return p.apply(tx, buyer, -total, entity.EntryEscrowLock, task.ID, "Escrow for task: "+task.Title)
	})
	if err != nil {
		return nil, errors.AsAppError(err, "Failed to create task")
	}

	return task, nil
}

func (uc *TaskUseCase) GetTask(ctx context.Context, id string) (*entity.Task, error) {
	task, err := uc.taskRepo.GetByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.TaskNotFound(err)
		}
		return nil, errors.Internal("Failed to get task", err)
	}
	return task, nil
}

// ListAvailableTasks returns tasks that still accept submissions.
func (uc *TaskUseCase) ListAvailableTasks(ctx context.Context, limit, offset int) ([]*entity.Task, int64, error) {
	tasks, total, err := uc.taskRepo.ListAvailable(ctx, limit, offset)
	if err != nil {
		return nil, 0, errors.Internal("Failed to list tasks", err)
	}
	return tasks, total, nil
}

func (uc *TaskUseCase) ListBuyerTasks(ctx context.Context, actor Actor, buyerEmail string, limit, offset int) ([]*entity.Task, int64, error) {
	if err := requireSelfOrAdmin(actor, buyerEmail); err != nil {
		return nil, 0, err
	}

	tasks, total, err := uc.taskRepo.ListByBuyer(ctx, buyerEmail, limit, offset)
	if err != nil {
		return nil, 0, errors.Internal("Failed to list tasks", err)
	}
	return tasks, total, nil
}

// UpdateTask changes descriptive fields only. Slot count and price back the
// escrow and cannot change after creation.
func (uc *TaskUseCase) UpdateTask(ctx context.Context, actor Actor, id string, input UpdateTaskInput) (*entity.Task, error) {
	task, err := uc.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireSelfOrAdmin(actor, task.BuyerEmail); err != nil {
		return nil, err
	}

	if input.Title != "" {
		task.Title = input.Title
	}
	if input.Detail != "" {
		task.Detail = input.Detail
	}
	if input.SubmissionInfo != "" {
		task.SubmissionInfo = input.SubmissionInfo
	}
	if input.ImageURL != "" {
		task.ImageURL = input.ImageURL
	}
	if input.CompletionDate != nil {
		task.CompletionDate = *input.CompletionDate
	}
	task.UpdatedAt = time.Now()

	if err := uc.taskRepo.UpdateDetails(ctx, task); err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.TaskNotFound(err)
		}
		return nil, errors.Internal("Failed to update task", err)
	}
	return task, nil
}

// DeleteTask removes the task and refunds the escrow of its unfilled slots
// to the owning buyer. Pending submissions keep their share until reviewed.
// If the buyer account no longer exists the escrow is forfeited.
func (uc *TaskUseCase) DeleteTask(ctx context.Context, actor Actor, id string) (*DeleteTaskResult, error) {
	if err := requireRole(actor, entity.RoleBuyer, entity.RoleAdmin); err != nil {
		return nil, err
	}

	result := &DeleteTaskResult{TaskID: id}
	err := uc.ledger.run(ctx, "delete_task", id, func(tx repository.LedgerTx, p *posting) error {
		task, err := tx.GetTask(id)
		if err != nil {
			if errors.IsNotFound(err) {
				return errors.TaskNotFound(err)
			}
			return err
		}
		if err := requireSelfOrAdmin(actor, task.BuyerEmail); err != nil {
			return err
		}

		buyer, err := tx.GetUser(task.BuyerEmail)
		if err != nil && !errors.IsNotFound(err) {
			return err
		}

		if err := tx.DeleteTask(task.ID); err != nil {
			return err
		}

		refund := task.RemainingEscrow()
		if buyer == nil {
			if refund == 0 {
				return nil
			}
			return p.record(tx, task.BuyerEmail, -refund, 0, entity.EntryForfeit, task.ID, "Escrow of removed buyer")
		}

		if buyer.OpenTasks > 0 {
			buyer.OpenTasks--
		}
		result.Refunded = refund
		if refund == 0 {
			buyer.UpdatedAt = p.now
			return tx.PutUser(buyer)
		}
		return p.apply(tx, buyer, refund, entity.EntryRefund, task.ID, "Refund for deleted task: "+task.Title)
	})
	if err != nil {
		return nil, errors.AsAppError(err, "Failed to delete task")
	}

	return result, nil
}
