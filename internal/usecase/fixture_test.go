package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	adapterrepo "microtask/internal/adapter/repository"
	"microtask/internal/domain/entity"
	"microtask/internal/domain/repository"
	"microtask/internal/domain/service"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []entity.LedgerEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, event entity.LedgerEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) ofType(eventType string) []entity.LedgerEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []entity.LedgerEvent
	for _, e := range p.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

type fixture struct {
	ctx       context.Context
	store     *adapterrepo.MemoryStore
	userRepo  repository.UserRepository
	taskRepo  repository.TaskRepository
	subRepo   repository.SubmissionRepository
	entryRepo repository.LedgerEntryRepository
	events    *recordingPublisher
	gateway   *service.SandboxPaymentService

	ledger      *Ledger
	users       *UserUseCase
	tasks       *TaskUseCase
	submissions *SubmissionUseCase
	withdrawals *WithdrawalUseCase
	payments    *PaymentUseCase
	ledgerUC    *LedgerUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := adapterrepo.NewMemoryStore()
	f := &fixture{
		ctx:       context.Background(),
		store:     store,
		userRepo:  adapterrepo.NewMemoryUserRepository(store),
		taskRepo:  adapterrepo.NewMemoryTaskRepository(store),
		subRepo:   adapterrepo.NewMemorySubmissionRepository(store),
		entryRepo: adapterrepo.NewMemoryLedgerEntryRepository(store),
		events:    &recordingPublisher{},
		gateway:   service.NewSandboxPaymentService(),
	}

	f.ledger = NewLedger(store, f.events)
	f.users = NewUserUseCase(f.ledger, f.userRepo, f.taskRepo, 50, 10)
	f.tasks = NewTaskUseCase(f.ledger, f.taskRepo)
	f.submissions = NewSubmissionUseCase(f.ledger, f.subRepo)
	f.withdrawals = NewWithdrawalUseCase(f.ledger, adapterrepo.NewMemoryWithdrawalRepository(store), 200, 20)
	policy, err := NewCoinPolicy(CoinPolicyMultiplier, 10)
	require.NoError(t, err)
	f.payments = NewPaymentUseCase(f.ledger, adapterrepo.NewMemoryPaymentRepository(store), f.userRepo, f.gateway, policy, "usd")
	f.ledgerUC = NewLedgerUseCase(f.entryRepo, f.userRepo, f.taskRepo, f.subRepo)
	return f
}

func adapterReviewRepo(f *fixture) repository.ReviewRepository {
	return adapterrepo.NewMemoryReviewRepository(f.store)
}

func (f *fixture) register(t *testing.T, email, role string) Actor {
	t.Helper()
	_, err := f.users.Register(f.ctx, RegisterInput{Email: email, Name: email, Role: role})
	require.NoError(t, err)
	return Actor{Email: email, Role: role}
}

func (f *fixture) admin(t *testing.T) Actor {
	t.Helper()
	err := f.store.RunInTx(f.ctx, func(tx repository.LedgerTx) error {
		return tx.PutUser(&entity.User{ID: "admin-id", Email: "admin@example.com", Role: entity.RoleAdmin, CreatedAt: time.Now()})
	})
	require.NoError(t, err)
	return Actor{Email: "admin@example.com", Role: entity.RoleAdmin}
}

// credit tops a balance up through the ledger, as a purchase would.
func (f *fixture) credit(t *testing.T, email string, coins int64) {
	t.Helper()
	err := f.ledger.run(f.ctx, "seed", email, func(tx repository.LedgerTx, p *posting) error {
		user, err := getUser(tx, email)
		if err != nil {
			return err
		}
		return p.apply(tx, user, coins, entity.EntryPurchase, "seed", "test credit")
	})
	require.NoError(t, err)
}

func (f *fixture) balance(t *testing.T, email string) int64 {
	t.Helper()
	user, err := f.userRepo.GetByEmail(f.ctx, email)
	require.NoError(t, err)
	return user.TotalCoin
}

func (f *fixture) task(t *testing.T, id string) *entity.Task {
	t.Helper()
	task, err := f.taskRepo.GetByID(f.ctx, id)
	require.NoError(t, err)
	return task
}

func (f *fixture) createTask(t *testing.T, buyer Actor, workers, pay int64) *entity.Task {
	t.Helper()
	task, err := f.tasks.CreateTask(f.ctx, buyer, CreateTaskInput{
		Title:           "Watch a video",
		Detail:          "Watch and comment",
		RequiredWorkers: workers,
		PayableAmount:   pay,
		CompletionDate:  time.Now().Add(72 * time.Hour),
	})
	require.NoError(t, err)
	return task
}

func (f *fixture) assertBalanced(t *testing.T) {
	t.Helper()
	report, err := f.ledgerUC.Reconcile(f.ctx, Actor{Email: "admin@example.com", Role: entity.RoleAdmin})
	require.NoError(t, err)
	require.Empty(t, report.Drifts)
	require.Equal(t, report.Circulating(), report.TotalBalances+report.EscrowOutstanding,
		"balances %d + escrow %d != circulating %d", report.TotalBalances, report.EscrowOutstanding, report.Circulating())
	require.True(t, report.Balanced)
}
