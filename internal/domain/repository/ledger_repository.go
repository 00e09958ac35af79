package repository

import (
	"context"

	"microtask/internal/domain/entity"
)

type LedgerEntryRepository interface {
	ListByUser(ctx context.Context, email string, limit, offset int) ([]*entity.LedgerEntry, int64, error)
	All(ctx context.Context) ([]*entity.LedgerEntry, error)
}

// Transactor runs fn inside a single store transaction. If fn returns an
// error nothing it wrote is persisted. fn may be invoked more than once when
// the store retries on contention, so it must not have side effects outside
// tx.
type Transactor interface {
	RunInTx(ctx context.Context, fn func(tx LedgerTx) error) error
}

// LedgerTx is the unit of work for balance-affecting mutations. Getters
// return errors.ErrNotFound for missing documents. Every read must happen
// before the first write.
type LedgerTx interface {
	GetUser(email string) (*entity.User, error)
	GetTask(id string) (*entity.Task, error)
	GetSubmission(id string) (*entity.Submission, error)
	GetWithdrawal(id string) (*entity.Withdrawal, error)
	GetPayment(transactionID string) (*entity.Payment, error)

	PutUser(user *entity.User) error
	DeleteUser(user *entity.User) error
	PutTask(task *entity.Task) error
	DeleteTask(id string) error
	PutSubmission(submission *entity.Submission) error
	PutWithdrawal(withdrawal *entity.Withdrawal) error
	PutPayment(payment *entity.Payment) error
	AppendEntry(entry *entity.LedgerEntry) error
}
