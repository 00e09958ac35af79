package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"microtask/internal/domain/entity"
	"microtask/internal/domain/repository"
	"microtask/pkg/errors"
)

func TestRegisterGrantsSignupBonus(t *testing.T) {
	f := newFixture(t)

	buyer, err := f.users.Register(f.ctx, RegisterInput{Email: " Buyer@Example.com ", Name: "B", Role: entity.RoleBuyer})
	require.NoError(t, err)
	assert.Equal(t, "buyer@example.com", buyer.Email)
	assert.Equal(t, int64(50), buyer.TotalCoin)

	worker, err := f.users.Register(f.ctx, RegisterInput{Email: "worker@example.com", Role: entity.RoleWorker})
	require.NoError(t, err)
	assert.Equal(t, int64(10), worker.TotalCoin)

	entries, total, err := f.entryRepo.ListByUser(f.ctx, "buyer@example.com", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, entity.EntrySignupBonus, entries[0].Type)
	f.assertBalanced(t)
}

func TestRegisterRejectsDuplicatesAndAdmins(t *testing.T) {
	f := newFixture(t)
	f.register(t, "buyer@example.com", entity.RoleBuyer)

	_, err := f.users.Register(f.ctx, RegisterInput{Email: "buyer@example.com", Role: entity.RoleWorker})
	assert.True(t, errors.Is(err, errors.CodeConflict))
	assert.Equal(t, int64(50), f.balance(t, "buyer@example.com"))

	_, err = f.users.Register(f.ctx, RegisterInput{Email: "root@example.com", Role: entity.RoleAdmin})
	assert.True(t, errors.Is(err, errors.CodeBadRequest))
}

func TestUpdateRole(t *testing.T) {
	f := newFixture(t)
	admin := f.admin(t)
	buyer := f.register(t, "buyer@example.com", entity.RoleBuyer)

	user, err := f.users.UpdateRole(f.ctx, admin, buyer.Email, entity.RoleWorker)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleWorker, user.Role)

	_, err = f.users.UpdateRole(f.ctx, admin, buyer.Email, "owner")
	assert.True(t, errors.Is(err, errors.CodeBadRequest))

	_, err = f.users.UpdateRole(f.ctx, buyer, buyer.Email, entity.RoleAdmin)
	assert.True(t, errors.Is(err, errors.CodeForbidden))

	_, err = f.users.UpdateRole(f.ctx, admin, "ghost@example.com", entity.RoleWorker)
	assert.True(t, errors.Is(err, errors.CodeUserNotFound))
}

func TestDeleteUserForfeitsBalance(t *testing.T) {
	f := newFixture(t)
	admin := f.admin(t)
	worker := f.register(t, "worker@example.com", entity.RoleWorker)
	buyer := f.register(t, "buyer@example.com", entity.RoleBuyer)
	task := f.createTask(t, buyer, 1, 5)

	require.NoError(t, f.users.DeleteUser(f.ctx, admin, worker.Email))
	_, err := f.users.GetUserByEmail(f.ctx, worker.Email)
	assert.True(t, errors.Is(err, errors.CodeUserNotFound))

	err = f.users.DeleteUser(f.ctx, admin, buyer.Email)
	assert.True(t, errors.Is(err, errors.CodeConflict))

	_, err = f.tasks.DeleteTask(f.ctx, buyer, task.ID)
	require.NoError(t, err)
	require.NoError(t, f.users.DeleteUser(f.ctx, admin, buyer.Email))

	report, err := f.ledgerUC.Reconcile(f.ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, int64(60), report.Forfeited)
	assert.True(t, report.Balanced)
}

func TestReconcileDetectsDrift(t *testing.T) {
	f := newFixture(t)
	admin := f.admin(t)
	buyer := f.register(t, "buyer@example.com", entity.RoleBuyer)
	f.createTask(t, buyer, 2, 5)
	f.assertBalanced(t)

	// A balance edited behind the ledger's back.
	err := f.store.RunInTx(context.Background(), func(tx repository.LedgerTx) error {
		user, err := tx.GetUser(buyer.Email)
		if err != nil {
			return err
		}
		user.TotalCoin += 1000
		user.UpdatedAt = time.Now()
		return tx.PutUser(user)
	})
	require.NoError(t, err)

	report, err := f.ledgerUC.Reconcile(f.ctx, admin)
	require.NoError(t, err)
	assert.False(t, report.Balanced)
	require.Len(t, report.Drifts, 1)
	assert.Equal(t, buyer.Email, report.Drifts[0].Email)
	assert.Equal(t, int64(1000), report.Drifts[0].Drift)

	_, err = f.ledgerUC.Reconcile(f.ctx, buyer)
	assert.True(t, errors.Is(err, errors.CodeForbidden))
}

func TestLedgerScenario(t *testing.T) {
	f := newFixture(t)
	admin := f.admin(t)
	buyer := f.register(t, "buyer@example.com", entity.RoleBuyer)
	workerA := f.register(t, "a@example.com", entity.RoleWorker)
	workerB := f.register(t, "b@example.com", entity.RoleWorker)
	f.credit(t, buyer.Email, 950)

	task := f.createTask(t, buyer, 10, 40)
	subA, err := f.submissions.CreateSubmission(f.ctx, workerA, CreateSubmissionInput{TaskID: task.ID})
	require.NoError(t, err)
	subB, err := f.submissions.CreateSubmission(f.ctx, workerB, CreateSubmissionInput{TaskID: task.ID})
	require.NoError(t, err)
	subA2, err := f.submissions.CreateSubmission(f.ctx, workerA, CreateSubmissionInput{TaskID: task.ID})
	require.NoError(t, err)

	_, err = f.submissions.ApproveSubmission(f.ctx, buyer, subA.ID)
	require.NoError(t, err)
	_, err = f.submissions.ApproveSubmission(f.ctx, admin, subA2.ID)
	require.NoError(t, err)
	_, err = f.submissions.RejectSubmission(f.ctx, buyer, subB.ID)
	require.NoError(t, err)
	f.assertBalanced(t)

	w, err := f.withdrawals.CreateWithdrawal(f.ctx, workerA, CreateWithdrawalInput{WithdrawalCoin: 90, PaymentSystem: "bkash", AccountNumber: "1"})
	require.Error(t, err, "below minimum")
	w, err = f.withdrawals.CreateWithdrawal(f.ctx, workerA, CreateWithdrawalInput{WithdrawalCoin: 200, PaymentSystem: "bkash", AccountNumber: "1"})
	require.Error(t, err, "worker holds only 90")
	assert.Nil(t, w)

	_, err = f.tasks.DeleteTask(f.ctx, buyer, task.ID)
	require.NoError(t, err)
	f.assertBalanced(t)

	assert.Equal(t, int64(1000-80), f.balance(t, buyer.Email))
	assert.Equal(t, int64(90), f.balance(t, workerA.Email))
	assert.Equal(t, int64(10), f.balance(t, workerB.Email))

	entries, _, err := f.ledgerUC.ListEntries(f.ctx, workerA, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, entity.EntryTaskEarning, entries[0].Type)
	assert.Equal(t, entity.EntrySignupBonus, entries[2].Type)
}

// taskRepoWithHook runs afterList once, right after a ListByBuyer call has
// been answered.
type taskRepoWithHook struct {
	repository.TaskRepository
	afterList func()
}

func (r *taskRepoWithHook) ListByBuyer(ctx context.Context, buyerEmail string, limit, offset int) ([]*entity.Task, int64, error) {
	tasks, total, err := r.TaskRepository.ListByBuyer(ctx, buyerEmail, limit, offset)
	if r.afterList != nil {
		hook := r.afterList
		r.afterList = nil
		hook()
	}
	return tasks, total, err
}

func TestDeleteUserRechecksTasksCreatedAfterListing(t *testing.T) {
	f := newFixture(t)
	admin := f.admin(t)
	buyer := f.register(t, "buyer@example.com", entity.RoleBuyer)

	var created *entity.Task
	repo := &taskRepoWithHook{TaskRepository: f.taskRepo, afterList: func() {
		created = f.createTask(t, buyer, 4, 10)
	}}
	users := NewUserUseCase(f.ledger, f.userRepo, repo, 50, 10)

	err := users.DeleteUser(f.ctx, admin, buyer.Email)
	assert.True(t, errors.Is(err, errors.CodeConflict))
	require.NotNil(t, created)
	assert.Equal(t, int64(10), f.balance(t, buyer.Email))

	result, err := f.tasks.DeleteTask(f.ctx, buyer, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(40), result.Refunded)

	user, err := f.userRepo.GetByEmail(f.ctx, buyer.Email)
	require.NoError(t, err)
	assert.Equal(t, int64(0), user.OpenTasks)
	require.NoError(t, users.DeleteUser(f.ctx, admin, buyer.Email))
	f.assertBalanced(t)
}

func TestDeleteTaskOfRemovedBuyerForfeitsEscrow(t *testing.T) {
	f := newFixture(t)
	admin := f.admin(t)
	buyer := f.register(t, "buyer@example.com", entity.RoleBuyer)
	task := f.createTask(t, buyer, 4, 10)

	// An account removed while its task was still open.
	err := f.ledger.run(f.ctx, "seed", buyer.Email, func(tx repository.LedgerTx, p *posting) error {
		user, err := getUser(tx, buyer.Email)
		if err != nil {
			return err
		}
		if err := tx.DeleteUser(user); err != nil {
			return err
		}
		return p.record(tx, user.Email, -user.TotalCoin, 0, entity.EntryForfeit, user.ID, "Account deleted")
	})
	require.NoError(t, err)

	result, err := f.tasks.DeleteTask(f.ctx, admin, task.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Refunded)

	entries, err := f.entryRepo.All(f.ctx)
	require.NoError(t, err)
	last := entries[len(entries)-1]
	assert.Equal(t, entity.EntryForfeit, last.Type)
	assert.Equal(t, int64(-40), last.Amount)
	assert.Equal(t, task.ID, last.Reference)

	report, err := f.ledgerUC.Reconcile(f.ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, int64(50), report.Forfeited)
	assert.Equal(t, int64(0), report.EscrowOutstanding)
	assert.True(t, report.Balanced)
}
