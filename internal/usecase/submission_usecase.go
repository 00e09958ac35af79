package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"microtask/internal/domain/entity"
	"microtask/internal/domain/repository"
	"microtask/pkg/errors"
)

type SubmissionUseCase struct {
	ledger         *Ledger
	submissionRepo repository.SubmissionRepository
}

func NewSubmissionUseCase(ledger *Ledger, submissionRepo repository.SubmissionRepository) *SubmissionUseCase {
	return &SubmissionUseCase{
		ledger:         ledger,
		submissionRepo: submissionRepo,
	}
}

type CreateSubmissionInput struct {
	TaskID            string
	SubmissionDetails string
}

// CreateSubmission takes one slot of the task and records a pending
// submission. Title, price and buyer are copied from the task.
func (uc *SubmissionUseCase) CreateSubmission(ctx context.Context, actor Actor, input CreateSubmissionInput) (*entity.Submission, error) {
	if err := requireRole(actor, entity.RoleWorker); err != nil {
		return nil, err
	}

	var submission *entity.Submission
	err := uc.ledger.run(ctx, "create_submission", input.TaskID, func(tx repository.LedgerTx, p *posting) error {
		task, err := tx.GetTask(input.TaskID)
		if err != nil {
			if errors.IsNotFound(err) {
				return errors.TaskNotFound(err)
			}
			return err
		}
		worker, err := getUser(tx, actor.Email)
		if err != nil {
			return err
		}

		if task.RequiredWorkers <= 0 {
			return errors.NoSlotsAvailable()
		}
		task.RequiredWorkers--
		task.UpdatedAt = p.now
		if err := tx.PutTask(task); err != nil {
			return err
		}

		submission = &entity.Submission{
			ID:                uuid.New().String(),
			TaskID:            task.ID,
			TaskTitle:         task.Title,
			PayableAmount:     task.PayableAmount,
			WorkerEmail:       worker.Email,
			WorkerName:        worker.Name,
			BuyerEmail:        task.BuyerEmail,
			BuyerName:         task.BuyerName,
			SubmissionDetails: input.SubmissionDetails,
			Status:            entity.SubmissionPending,
			CurrentDate:       p.now,
		}
		return tx.PutSubmission(submission)
	})
	if err != nil {
		return nil, errors.AsAppError(err, "Failed to create submission")
	}

	return submission, nil
}

// ApproveSubmission credits the worker with the stored payable amount.
// Approving an approved submission again is a no-op.
func (uc *SubmissionUseCase) ApproveSubmission(ctx context.Context, actor Actor, id string) (*entity.Submission, error) {
	if err := requireRole(actor, entity.RoleBuyer, entity.RoleAdmin); err != nil {
		return nil, err
	}

	var submission *entity.Submission
	err := uc.ledger.run(ctx, "approve_submission", id, func(tx repository.LedgerTx, p *posting) error {
		sub, err := uc.loadForReview(tx, actor, id)
		if err != nil {
			return err
		}
		submission = sub

		switch sub.Status {
		case entity.SubmissionApproved:
			return nil
		case entity.SubmissionRejected:
			return errors.InvalidTransition(sub.Status, entity.SubmissionApproved)
		}

		worker, err := getUser(tx, sub.WorkerEmail)
		if err != nil {
			return err
		}

		uc.markReviewed(sub, entity.SubmissionApproved, actor, p.now)
		if err := tx.PutSubmission(sub); err != nil {
			return err
		}
		return p.apply(tx, worker, sub.PayableAmount, entity.EntryTaskEarning, sub.ID, "Earning for task: "+sub.TaskTitle)
	})
	if err != nil {
		return nil, errors.AsAppError(err, "Failed to approve submission")
	}

	return submission, nil
}

// RejectSubmission gives the slot back to the task. When the task is gone
// the escrowed amount is refunded to the buyer instead.
func (uc *SubmissionUseCase) RejectSubmission(ctx context.Context, actor Actor, id string) (*entity.Submission, error) {
	if err := requireRole(actor, entity.RoleBuyer, entity.RoleAdmin); err != nil {
		return nil, err
	}

	var submission *entity.Submission
	err := uc.ledger.run(ctx, "reject_submission", id, func(tx repository.LedgerTx, p *posting) error {
		sub, err := uc.loadForReview(tx, actor, id)
		if err != nil {
			return err
		}
		submission = sub

		switch sub.Status {
		case entity.SubmissionRejected:
			return nil
		case entity.SubmissionApproved:
			return errors.InvalidTransition(sub.Status, entity.SubmissionRejected)
		}

		task, err := tx.GetTask(sub.TaskID)
		if err != nil && !errors.IsNotFound(err) {
			return err
		}

		var buyer *entity.User
		if task == nil {
			buyer, err = tx.GetUser(sub.BuyerEmail)
			if err != nil && !errors.IsNotFound(err) {
				return err
			}
		}

		uc.markReviewed(sub, entity.SubmissionRejected, actor, p.now)
		if err := tx.PutSubmission(sub); err != nil {
			return err
		}

		switch {
		case task != nil:
			task.RequiredWorkers++
			task.UpdatedAt = p.now
			return tx.PutTask(task)
		case buyer != nil:
			return p.apply(tx, buyer, sub.PayableAmount, entity.EntryRefund, sub.ID, "Refund for rejected submission: "+sub.TaskTitle)
		default:
			// Both task and buyer are gone; the escrow leaves circulation.
			return p.record(tx, sub.BuyerEmail, -sub.PayableAmount, 0, entity.EntryForfeit, sub.ID, "Escrow of removed buyer")
		}
	})
	if err != nil {
		return nil, errors.AsAppError(err, "Failed to reject submission")
	}

	return submission, nil
}

func (uc *SubmissionUseCase) loadForReview(tx repository.LedgerTx, actor Actor, id string) (*entity.Submission, error) {
	sub, err := tx.GetSubmission(id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.SubmissionNotFound(err)
		}
		return nil, err
	}
	if err := requireSelfOrAdmin(actor, sub.BuyerEmail); err != nil {
		return nil, err
	}
	return sub, nil
}

func (uc *SubmissionUseCase) markReviewed(sub *entity.Submission, status string, actor Actor, at time.Time) {
	sub.Status = status
	sub.ReviewedBy = actor.Email
	sub.ReviewedAt = &at
}

func (uc *SubmissionUseCase) ListWorkerSubmissions(ctx context.Context, actor Actor, workerEmail, status string, limit, offset int) ([]*entity.Submission, int64, error) {
	if err := requireSelfOrAdmin(actor, workerEmail); err != nil {
		return nil, 0, err
	}
	if err := validateSubmissionStatus(status); err != nil {
		return nil, 0, err
	}

	subs, total, err := uc.submissionRepo.ListByWorker(ctx, workerEmail, status, limit, offset)
	if err != nil {
		return nil, 0, errors.Internal("Failed to list submissions", err)
	}
	return subs, total, nil
}

func (uc *SubmissionUseCase) ListBuyerSubmissions(ctx context.Context, actor Actor, buyerEmail, status string, limit, offset int) ([]*entity.Submission, int64, error) {
	if err := requireSelfOrAdmin(actor, buyerEmail); err != nil {
		return nil, 0, err
	}
	if err := validateSubmissionStatus(status); err != nil {
		return nil, 0, err
	}

	subs, total, err := uc.submissionRepo.ListByBuyer(ctx, buyerEmail, status, limit, offset)
	if err != nil {
		return nil, 0, errors.Internal("Failed to list submissions", err)
	}
	return subs, total, nil
}

func validateSubmissionStatus(status string) error {
	switch status {
	case "", entity.SubmissionPending, entity.SubmissionApproved, entity.SubmissionRejected:
		return nil
	}
	return errors.BadRequest("Unknown submission status: "+status, nil)
}
