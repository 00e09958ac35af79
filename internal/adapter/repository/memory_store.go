package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"microtask/internal/domain/entity"
	"microtask/internal/domain/repository"
	"microtask/pkg/errors"
)

// MemoryStore keeps every collection in process. Transactions hold the write
// lock for their whole duration and stage writes until fn returns, so a failed
// transaction leaves no trace.
type MemoryStore struct {
	mu          sync.RWMutex
	users       map[string]*entity.User // keyed by email
	tasks       map[string]*entity.Task
	submissions map[string]*entity.Submission
	withdrawals map[string]*entity.Withdrawal
	payments    map[string]*entity.Payment // keyed by transaction id
	reviews     []*entity.Review
	entries     []*entity.LedgerEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:       make(map[string]*entity.User),
		tasks:       make(map[string]*entity.Task),
		submissions: make(map[string]*entity.Submission),
		withdrawals: make(map[string]*entity.Withdrawal),
		payments:    make(map[string]*entity.Payment),
	}
}

func (s *MemoryStore) RunInTx(ctx context.Context, fn func(tx repository.LedgerTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memoryTx{
		store:        s,
		users:        make(map[string]*entity.User),
		deletedUsers: make(map[string]bool),
		tasks:        make(map[string]*entity.Task),
		deletedTasks: make(map[string]bool),
		submissions:  make(map[string]*entity.Submission),
		withdrawals:  make(map[string]*entity.Withdrawal),
		payments:     make(map[string]*entity.Payment),
	}
	if err := fn(tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

type memoryTx struct {
	store   *MemoryStore
	written bool

	users        map[string]*entity.User
	deletedUsers map[string]bool
	tasks        map[string]*entity.Task
	deletedTasks map[string]bool
	submissions  map[string]*entity.Submission
	withdrawals  map[string]*entity.Withdrawal
	payments     map[string]*entity.Payment
	entries      []*entity.LedgerEntry
}

// errReadAfterWrite mirrors the Firestore rule so tests catch ordering bugs.
var errReadAfterWrite = fmt.Errorf("transaction read after write")

func (t *memoryTx) checkRead() error {
	if t.written {
		return errReadAfterWrite
	}
	return nil
}

func (t *memoryTx) GetUser(email string) (*entity.User, error) {
	if err := t.checkRead(); err != nil {
		return nil, err
	}
	u, ok := t.store.users[email]
	if !ok {
		return nil, fmt.Errorf("users/%s: %w", email, errors.ErrNotFound)
	}
	c := *u
	return &c, nil
}

func (t *memoryTx) GetTask(id string) (*entity.Task, error) {
	if err := t.checkRead(); err != nil {
		return nil, err
	}
	task, ok := t.store.tasks[id]
	if !ok {
		return nil, fmt.Errorf("tasks/%s: %w", id, errors.ErrNotFound)
	}
	c := *task
	return &c, nil
}

func (t *memoryTx) GetSubmission(id string) (*entity.Submission, error) {
	if err := t.checkRead(); err != nil {
		return nil, err
	}
	sub, ok := t.store.submissions[id]
	if !ok {
		return nil, fmt.Errorf("submissions/%s: %w", id, errors.ErrNotFound)
	}
	c := *sub
	return &c, nil
}

func (t *memoryTx) GetWithdrawal(id string) (*entity.Withdrawal, error) {
	if err := t.checkRead(); err != nil {
		return nil, err
	}
	w, ok := t.store.withdrawals[id]
	if !ok {
		return nil, fmt.Errorf("withdrawals/%s: %w", id, errors.ErrNotFound)
	}
	c := *w
	return &c, nil
}

func (t *memoryTx) GetPayment(transactionID string) (*entity.Payment, error) {
	if err := t.checkRead(); err != nil {
		return nil, err
	}
	p, ok := t.store.payments[transactionID]
	if !ok {
		return nil, fmt.Errorf("payments/%s: %w", transactionID, errors.ErrNotFound)
	}
	c := *p
	return &c, nil
}

func (t *memoryTx) PutUser(user *entity.User) error {
	t.written = true
	c := *user
	t.users[user.Email] = &c
	delete(t.deletedUsers, user.Email)
	return nil
}

func (t *memoryTx) DeleteUser(user *entity.User) error {
	t.written = true
	delete(t.users, user.Email)
	t.deletedUsers[user.Email] = true
	return nil
}

func (t *memoryTx) PutTask(task *entity.Task) error {
	t.written = true
	c := *task
	t.tasks[task.ID] = &c
	delete(t.deletedTasks, task.ID)
	return nil
}

func (t *memoryTx) DeleteTask(id string) error {
	t.written = true
	delete(t.tasks, id)
	t.deletedTasks[id] = true
	return nil
}

func (t *memoryTx) PutSubmission(submission *entity.Submission) error {
	t.written = true
	c := *submission
	t.submissions[submission.ID] = &c
	return nil
}

func (t *memoryTx) PutWithdrawal(withdrawal *entity.Withdrawal) error {
	t.written = true
	c := *withdrawal
	t.withdrawals[withdrawal.ID] = &c
	return nil
}

func (t *memoryTx) PutPayment(payment *entity.Payment) error {
	t.written = true
	c := *payment
	t.payments[payment.TransactionID] = &c
	return nil
}

func (t *memoryTx) AppendEntry(entry *entity.LedgerEntry) error {
	t.written = true
	c := *entry
	t.entries = append(t.entries, &c)
	return nil
}

func (t *memoryTx) commit() {
	s := t.store
	for email := range t.deletedUsers {
		delete(s.users, email)
	}
	for email, u := range t.users {
		s.users[email] = u
	}
	for id := range t.deletedTasks {
		delete(s.tasks, id)
	}
	for id, task := range t.tasks {
		s.tasks[id] = task
	}
	for id, sub := range t.submissions {
		s.submissions[id] = sub
	}
	for id, w := range t.withdrawals {
		s.withdrawals[id] = w
	}
	for id, p := range t.payments {
		s.payments[id] = p
	}
	s.entries = append(s.entries, t.entries...)
}

// page applies offset and limit to an already sorted slice.
func page[T any](items []T, limit, offset int) ([]T, int64) {
	total := int64(len(items))
	if offset >= len(items) {
		return []T{}, total
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end], total
}

type memoryUserRepository struct {
	store *MemoryStore
}

func NewMemoryUserRepository(store *MemoryStore) repository.UserRepository {
	return &memoryUserRepository{store: store}
}

func (r *memoryUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, u := range r.store.users {
		if u.ID == id {
			c := *u
			return &c, nil
		}
	}
	return nil, fmt.Errorf("users/%s: %w", id, errors.ErrNotFound)
}

func (r *memoryUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	u, ok := r.store.users[email]
	if !ok {
		return nil, fmt.Errorf("users/%s: %w", email, errors.ErrNotFound)
	}
	c := *u
	return &c, nil
}

func (r *memoryUserRepository) List(ctx context.Context, limit, offset int) ([]*entity.User, int64, error) {
	users, _ := r.All(ctx)
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	items, total := page(users, limit, offset)
	return items, total, nil
}

func (r *memoryUserRepository) All(ctx context.Context) ([]*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	users := make([]*entity.User, 0, len(r.store.users))
	for _, u := range r.store.users {
		c := *u
		users = append(users, &c)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return users, nil
}

func (r *memoryUserRepository) UpdateRole(ctx context.Context, email, role string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	u, ok := r.store.users[email]
	if !ok {
		return fmt.Errorf("users/%s: %w", email, errors.ErrNotFound)
	}
	c := *u
	c.Role = role
	r.store.users[email] = &c
	return nil
}

type memoryTaskRepository struct {
	store *MemoryStore
}

func NewMemoryTaskRepository(store *MemoryStore) repository.TaskRepository {
	return &memoryTaskRepository{store: store}
}

func (r *memoryTaskRepository) GetByID(ctx context.Context, id string) (*entity.Task, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	task, ok := r.store.tasks[id]
	if !ok {
		return nil, fmt.Errorf("tasks/%s: %w", id, errors.ErrNotFound)
	}
	c := *task
	return &c, nil
}

func (r *memoryTaskRepository) filter(keep func(*entity.Task) bool) []*entity.Task {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	tasks := make([]*entity.Task, 0)
	for _, task := range r.store.tasks {
		if keep(task) {
			c := *task
			tasks = append(tasks, &c)
		}
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].CompletionDate.Equal(tasks[j].CompletionDate) {
			return tasks[i].ID < tasks[j].ID
		}
		return tasks[i].CompletionDate.After(tasks[j].CompletionDate)
	})
	return tasks
}

func (r *memoryTaskRepository) ListAvailable(ctx context.Context, limit, offset int) ([]*entity.Task, int64, error) {
	tasks := r.filter(func(t *entity.Task) bool { return t.RequiredWorkers > 0 })
	items, total := page(tasks, limit, offset)
	return items, total, nil
}

func (r *memoryTaskRepository) ListByBuyer(ctx context.Context, buyerEmail string, limit, offset int) ([]*entity.Task, int64, error) {
	tasks := r.filter(func(t *entity.Task) bool { return t.BuyerEmail == buyerEmail })
	items, total := page(tasks, limit, offset)
	return items, total, nil
}

func (r *memoryTaskRepository) All(ctx context.Context) ([]*entity.Task, error) {
	return r.filter(func(*entity.Task) bool { return true }), nil
}

func (r *memoryTaskRepository) UpdateDetails(ctx context.Context, task *entity.Task) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.tasks[task.ID]
	if !ok {
		return fmt.Errorf("tasks/%s: %w", task.ID, errors.ErrNotFound)
	}
	c := *current
	c.Title = task.Title
	c.Detail = task.Detail
	c.SubmissionInfo = task.SubmissionInfo
	c.ImageURL = task.ImageURL
	c.CompletionDate = task.CompletionDate
	c.UpdatedAt = task.UpdatedAt
	r.store.tasks[task.ID] = &c
	return nil
}

type memorySubmissionRepository struct {
	store *MemoryStore
}

func NewMemorySubmissionRepository(store *MemoryStore) repository.SubmissionRepository {
	return &memorySubmissionRepository{store: store}
}

func (r *memorySubmissionRepository) GetByID(ctx context.Context, id string) (*entity.Submission, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	sub, ok := r.store.submissions[id]
	if !ok {
		return nil, fmt.Errorf("submissions/%s: %w", id, errors.ErrNotFound)
	}
	c := *sub
	return &c, nil
}

func (r *memorySubmissionRepository) filter(keep func(*entity.Submission) bool) []*entity.Submission {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	subs := make([]*entity.Submission, 0)
	for _, sub := range r.store.submissions {
		if keep(sub) {
			c := *sub
			subs = append(subs, &c)
		}
	}
	sort.SliceStable(subs, func(i, j int) bool {
		if subs[i].CurrentDate.Equal(subs[j].CurrentDate) {
			return subs[i].ID < subs[j].ID
		}
		return subs[i].CurrentDate.After(subs[j].CurrentDate)
	})
	return subs
}

func (r *memorySubmissionRepository) ListByWorker(ctx context.Context, workerEmail, status string, limit, offset int) ([]*entity.Submission, int64, error) {
	subs := r.filter(func(s *entity.Submission) bool {
		return s.WorkerEmail == workerEmail && (status == "" || s.Status == status)
	})
	items, total := page(subs, limit, offset)
	return items, total, nil
}

func (r *memorySubmissionRepository) ListByBuyer(ctx context.Context, buyerEmail, status string, limit, offset int) ([]*entity.Submission, int64, error) {
	subs := r.filter(func(s *entity.Submission) bool {
		return s.BuyerEmail == buyerEmail && (status == "" || s.Status == status)
	})
	items, total := page(subs, limit, offset)
	return items, total, nil
}

func (r *memorySubmissionRepository) ListByStatus(ctx context.Context, status string) ([]*entity.Submission, error) {
	return r.filter(func(s *entity.Submission) bool { return s.Status == status }), nil
}

type memoryPaymentRepository struct {
	store *MemoryStore
}

func NewMemoryPaymentRepository(store *MemoryStore) repository.PaymentRepository {
	return &memoryPaymentRepository{store: store}
}

func (r *memoryPaymentRepository) GetByTransactionID(ctx context.Context, transactionID string) (*entity.Payment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, ok := r.store.payments[transactionID]
	if !ok {
		return nil, fmt.Errorf("payments/%s: %w", transactionID, errors.ErrNotFound)
	}
	c := *p
	return &c, nil
}

func (r *memoryPaymentRepository) ListByBuyer(ctx context.Context, buyerID string, limit, offset int) ([]*entity.Payment, int64, error) {
	r.store.mu.RLock()
	payments := make([]*entity.Payment, 0)
	for _, p := range r.store.payments {
		if p.BuyerID == buyerID {
			c := *p
			payments = append(payments, &c)
		}
	}
	r.store.mu.RUnlock()

	sort.SliceStable(payments, func(i, j int) bool {
		return payments[i].Date.After(payments[j].Date)
	})
	items, total := page(payments, limit, offset)
	return items, total, nil
}

type memoryWithdrawalRepository struct {
	store *MemoryStore
}

func NewMemoryWithdrawalRepository(store *MemoryStore) repository.WithdrawalRepository {
	return &memoryWithdrawalRepository{store: store}
}

func (r *memoryWithdrawalRepository) GetByID(ctx context.Context, id string) (*entity.Withdrawal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	w, ok := r.store.withdrawals[id]
	if !ok {
		return nil, fmt.Errorf("withdrawals/%s: %w", id, errors.ErrNotFound)
	}
	c := *w
	return &c, nil
}

func (r *memoryWithdrawalRepository) filter(keep func(*entity.Withdrawal) bool) []*entity.Withdrawal {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*entity.Withdrawal, 0)
	for _, w := range r.store.withdrawals {
		if keep(w) {
			c := *w
			out = append(out, &c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].WithdrawDate.After(out[j].WithdrawDate)
	})
	return out
}

func (r *memoryWithdrawalRepository) ListPending(ctx context.Context, limit, offset int) ([]*entity.Withdrawal, int64, error) {
	items, total := page(r.filter(func(w *entity.Withdrawal) bool {
		return w.Status == entity.WithdrawalPending
	}), limit, offset)
	return items, total, nil
}

func (r *memoryWithdrawalRepository) ListByWorker(ctx context.Context, workerEmail string, limit, offset int) ([]*entity.Withdrawal, int64, error) {
	items, total := page(r.filter(func(w *entity.Withdrawal) bool {
		return w.WorkerEmail == workerEmail
	}), limit, offset)
	return items, total, nil
}

type memoryReviewRepository struct {
	store *MemoryStore
}

func NewMemoryReviewRepository(store *MemoryStore) repository.ReviewRepository {
	return &memoryReviewRepository{store: store}
}

func (r *memoryReviewRepository) Create(ctx context.Context, review *entity.Review) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c := *review
	r.store.reviews = append(r.store.reviews, &c)
	return nil
}

func (r *memoryReviewRepository) List(ctx context.Context, limit, offset int) ([]*entity.Review, int64, error) {
	r.store.mu.RLock()
	reviews := make([]*entity.Review, len(r.store.reviews))
	for i, rv := range r.store.reviews {
		c := *rv
		reviews[len(reviews)-1-i] = &c
	}
	r.store.mu.RUnlock()

	items, total := page(reviews, limit, offset)
	return items, total, nil
}

type memoryLedgerEntryRepository struct {
	store *MemoryStore
}

func NewMemoryLedgerEntryRepository(store *MemoryStore) repository.LedgerEntryRepository {
	return &memoryLedgerEntryRepository{store: store}
}

// ListByUser returns the newest entries first.
func (r *memoryLedgerEntryRepository) ListByUser(ctx context.Context, email string, limit, offset int) ([]*entity.LedgerEntry, int64, error) {
	r.store.mu.RLock()
	entries := make([]*entity.LedgerEntry, 0)
	for i := len(r.store.entries) - 1; i >= 0; i-- {
		if e := r.store.entries[i]; e.UserEmail == email {
			c := *e
			entries = append(entries, &c)
		}
	}
	r.store.mu.RUnlock()

	items, total := page(entries, limit, offset)
	return items, total, nil
}

func (r *memoryLedgerEntryRepository) All(ctx context.Context) ([]*entity.LedgerEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	entries := make([]*entity.LedgerEntry, len(r.store.entries))
	for i, e := range r.store.entries {
		c := *e
		entries[i] = &c
	}
	return entries, nil
}
