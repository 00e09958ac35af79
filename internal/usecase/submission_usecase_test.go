package usecase

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"microtask/internal/domain/entity"
	"microtask/pkg/errors"
)

func TestCreateSubmissionTakesSlot(t *testing.T) {
	f := newFixture(t)
	buyer := f.register(t, "buyer@example.com", entity.RoleBuyer)
	worker := f.register(t, "worker@example.com", entity.RoleWorker)
	task := f.createTask(t, buyer, 2, 5)

	sub, err := f.submissions.CreateSubmission(f.ctx, worker, CreateSubmissionInput{TaskID: task.ID, SubmissionDetails: "proof"})
	require.NoError(t, err)

	assert.Equal(t, entity.SubmissionPending, sub.Status)
	assert.Equal(t, int64(5), sub.PayableAmount)
	assert.Equal(t, buyer.Email, sub.BuyerEmail)
	assert.Equal(t, task.Title, sub.TaskTitle)
	assert.Equal(t, int64(1), f.task(t, task.ID).RequiredWorkers)
	f.assertBalanced(t)
}

func TestCreateSubmissionNoSlots(t *testing.T) {
	f := newFixture(t)
	buyer := f.register(t, "buyer@example.com", entity.RoleBuyer)
	worker := f.register(t, "worker@example.com", entity.RoleWorker)
	task := f.createTask(t, buyer, 1, 5)

	_, err := f.submissions.CreateSubmission(f.ctx, worker, CreateSubmissionInput{TaskID: task.ID})
	require.NoError(t, err)

	_, err = f.submissions.CreateSubmission(f.ctx, worker, CreateSubmissionInput{TaskID: task.ID})
	assert.True(t, errors.Is(err, errors.CodeNoSlotsAvailable))
	assert.Equal(t, int64(0), f.task(t, task.ID).RequiredWorkers)

	subs, total, err := f.submissions.ListWorkerSubmissions(f.ctx, worker, worker.Email, "", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, subs, 1)
}

func TestCreateSubmissionErrors(t *testing.T) {
	f := newFixture(t)
	buyer := f.register(t, "buyer@example.com", entity.RoleBuyer)
	worker := f.register(t, "worker@example.com", entity.RoleWorker)
	task := f.createTask(t, buyer, 1, 5)

	_, err := f.submissions.CreateSubmission(f.ctx, worker, CreateSubmissionInput{TaskID: "missing"})
	assert.True(t, errors.Is(err, errors.CodeTaskNotFound))

	_, err = f.submissions.CreateSubmission(f.ctx, buyer, CreateSubmissionInput{TaskID: task.ID})
	assert.True(t, errors.Is(err, errors.CodeForbidden))
	assert.Equal(t, int64(1), f.task(t, task.ID).RequiredWorkers)
}

func TestConcurrentSubmissionsNeverOversell(t *testing.T) {
	f := newFixture(t)
	buyer := f.register(t, "buyer@example.com", entity.RoleBuyer)
	task := f.createTask(t, buyer, 5, 2)

	workers := make([]Actor, 20)
	for i := range workers {
		workers[i] = f.register(t, fmt.Sprintf("worker%d@example.com", i), entity.RoleWorker)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		noSlots   int
	)
	for _, w := range workers {
		wg.Add(1)
		go func(w Actor) {
			defer wg.Done()
			_, err := f.submissions.CreateSubmission(f.ctx, w, CreateSubmissionInput{TaskID: task.ID})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else if errors.Is(err, errors.CodeNoSlotsAvailable) {
				noSlots++
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, 5, succeeded)
	assert.Equal(t, 15, noSlots)
	assert.Equal(t, int64(0), f.task(t, task.ID).RequiredWorkers)
	f.assertBalanced(t)
}

func TestApproveSubmissionCreditsOnce(t *testing.T) {
	f := newFixture(t)
	buyer := f.register(t, "buyer@example.com", entity.RoleBuyer)
	worker := f.register(t, "worker@example.com", entity.RoleWorker)
	task := f.createTask(t, buyer, 2, 7)
	sub, err := f.submissions.CreateSubmission(f.ctx, worker, CreateSubmissionInput{TaskID: task.ID})
	require.NoError(t, err)

	approved, err := f.submissions.ApproveSubmission(f.ctx, buyer, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SubmissionApproved, approved.Status)
	assert.Equal(t, buyer.Email, approved.ReviewedBy)
	assert.Equal(t, int64(17), f.balance(t, worker.Email))

	again, err := f.submissions.ApproveSubmission(f.ctx, buyer, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SubmissionApproved, again.Status)
	assert.Equal(t, int64(17), f.balance(t, worker.Email))
	assert.Len(t, f.events.ofType(entity.EntryTaskEarning), 1)

	_, err = f.submissions.RejectSubmission(f.ctx, buyer, sub.ID)
	assert.True(t, errors.Is(err, errors.CodeInvalidTransition))
	assert.Equal(t, int64(1), f.task(t, task.ID).RequiredWorkers)
	f.assertBalanced(t)
}

func TestRejectSubmissionRestoresSlot(t *testing.T) {
	f := newFixture(t)
	buyer := f.register(t, "buyer@example.com", entity.RoleBuyer)
	worker := f.register(t, "worker@example.com", entity.RoleWorker)
	task := f.createTask(t, buyer, 2, 5)
	sub, err := f.submissions.CreateSubmission(f.ctx, worker, CreateSubmissionInput{TaskID: task.ID})
	require.NoError(t, err)
	require.Equal(t, int64(1), f.task(t, task.ID).RequiredWorkers)

	rejected, err := f.submissions.RejectSubmission(f.ctx, buyer, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SubmissionRejected, rejected.Status)
	assert.Equal(t, int64(2), f.task(t, task.ID).RequiredWorkers)

	_, err = f.submissions.RejectSubmission(f.ctx, buyer, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), f.task(t, task.ID).RequiredWorkers)

	_, err = f.submissions.ApproveSubmission(f.ctx, buyer, sub.ID)
	assert.True(t, errors.Is(err, errors.CodeInvalidTransition))
	assert.Equal(t, int64(10), f.balance(t, worker.Email))
	f.assertBalanced(t)
}

func TestRejectSubmissionOfDeletedTaskRefundsBuyer(t *testing.T) {
	f := newFixture(t)
	buyer := f.register(t, "buyer@example.com", entity.RoleBuyer)
	worker := f.register(t, "worker@example.com", entity.RoleWorker)
	task := f.createTask(t, buyer, 2, 5)
	sub, err := f.submissions.CreateSubmission(f.ctx, worker, CreateSubmissionInput{TaskID: task.ID})
	require.NoError(t, err)

	_, err = f.tasks.DeleteTask(f.ctx, buyer, task.ID)
	require.NoError(t, err)
	require.Equal(t, int64(45), f.balance(t, buyer.Email))

	_, err = f.submissions.RejectSubmission(f.ctx, buyer, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(50), f.balance(t, buyer.Email))
	f.assertBalanced(t)
}

func TestReviewRequiresOwnership(t *testing.T) {
	f := newFixture(t)
	owner := f.register(t, "owner@example.com", entity.RoleBuyer)
	other := f.register(t, "other@example.com", entity.RoleBuyer)
	worker := f.register(t, "worker@example.com", entity.RoleWorker)
	admin := f.admin(t)
	task := f.createTask(t, owner, 1, 5)
	sub, err := f.submissions.CreateSubmission(f.ctx, worker, CreateSubmissionInput{TaskID: task.ID})
	require.NoError(t, err)

	_, err = f.submissions.ApproveSubmission(f.ctx, other, sub.ID)
	assert.True(t, errors.Is(err, errors.CodeForbidden))
	_, err = f.submissions.ApproveSubmission(f.ctx, worker, sub.ID)
	assert.True(t, errors.Is(err, errors.CodeForbidden))
	_, err = f.submissions.ApproveSubmission(f.ctx, admin, "missing")
	assert.True(t, errors.Is(err, errors.CodeSubmissionNotFound))

	_, err = f.submissions.ApproveSubmission(f.ctx, admin, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(15), f.balance(t, worker.Email))
}

func TestListBuyerSubmissionsByStatus(t *testing.T) {
	f := newFixture(t)
	buyer := f.register(t, "buyer@example.com", entity.RoleBuyer)
	worker := f.register(t, "worker@example.com", entity.RoleWorker)
	task := f.createTask(t, buyer, 3, 5)

	first, err := f.submissions.CreateSubmission(f.ctx, worker, CreateSubmissionInput{TaskID: task.ID})
	require.NoError(t, err)
	_, err = f.submissions.CreateSubmission(f.ctx, worker, CreateSubmissionInput{TaskID: task.ID})
	require.NoError(t, err)
	_, err = f.submissions.ApproveSubmission(f.ctx, buyer, first.ID)
	require.NoError(t, err)

	pending, total, err := f.submissions.ListBuyerSubmissions(f.ctx, buyer, buyer.Email, entity.SubmissionPending, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.NotEqual(t, first.ID, pending[0].ID)

	_, _, err = f.submissions.ListBuyerSubmissions(f.ctx, buyer, buyer.Email, "archived", 10, 0)
	assert.True(t, errors.Is(err, errors.CodeBadRequest))

	_, _, err = f.submissions.ListBuyerSubmissions(f.ctx, worker, buyer.Email, "", 10, 0)
	assert.True(t, errors.Is(err, errors.CodeForbidden))
}
