package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"microtask/internal/domain/entity"
	"microtask/internal/domain/repository"
	"microtask/pkg/errors"
	"microtask/pkg/logger"
)

// Actor is the authenticated caller as loaded from the user store.
type Actor struct {
	Email string
	Role  string
}

func (a Actor) IsAdmin() bool {
	return a.Role == entity.RoleAdmin
}

// requireRole fails with Forbidden unless the actor holds one of roles.
func requireRole(actor Actor, roles ...string) error {
	for _, role := range roles {
		if actor.Role == role {
			return nil
		}
	}
	return errors.Forbidden("You are not allowed to perform this action", nil)
}

// requireSelfOrAdmin guards per-user resources.
func requireSelfOrAdmin(actor Actor, email string) error {
	if actor.IsAdmin() || actor.Email == email {
		return nil
	}
	return errors.Forbidden("Access denied", nil)
}

// LedgerPublisher receives an event for every committed ledger entry.
type LedgerPublisher interface {
	Publish(ctx context.Context, event entity.LedgerEvent) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, entity.LedgerEvent) error { return nil }

// Ledger runs balance mutations inside a store transaction and records an
// entry for each of them.
type Ledger struct {
	transactor repository.Transactor
	publisher  LedgerPublisher
	now        func() time.Time
}

func NewLedger(transactor repository.Transactor, publisher LedgerPublisher) *Ledger {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	return &Ledger{
		transactor: transactor,
		publisher:  publisher,
		now:        time.Now,
	}
}

// posting collects the entries written by one transaction attempt.
type posting struct {
	now     time.Time
	entries []*entity.LedgerEntry
}

// apply moves user's balance by amount and appends the matching entry.
// A debit that would leave the balance negative fails with InsufficientFunds.
func (p *posting) apply(tx repository.LedgerTx, user *entity.User, amount int64, entryType, reference, description string) error {
	balance := user.TotalCoin + amount
	if balance < 0 {
		return errors.InsufficientFunds("")
	}
	user.TotalCoin = balance
	user.UpdatedAt = p.now
	if err := tx.PutUser(user); err != nil {
		return err
	}
	return p.record(tx, user.Email, amount, balance, entryType, reference, description)
}

func (p *posting) record(tx repository.LedgerTx, email string, amount, balance int64, entryType, reference, description string) error {
	entry := &entity.LedgerEntry{
		ID:           uuid.New().String(),
		UserEmail:    email,
		Type:         entryType,
		Amount:       amount,
		BalanceAfter: balance,
		Reference:    reference,
		Description:  description,
		CreatedAt:    p.now,
	}
	if err := tx.AppendEntry(entry); err != nil {
		return err
	}
	p.entries = append(p.entries, entry)
	return nil
}

// run executes fn in one transaction. On success the collected entries are
// published; publish failures are logged and never undo the mutation.
func (l *Ledger) run(ctx context.Context, action, reference string, fn func(tx repository.LedgerTx, p *posting) error) error {
	var p *posting
	err := l.transactor.RunInTx(ctx, func(tx repository.LedgerTx) error {
		p = &posting{now: l.now()}
		return fn(tx, p)
	})
	if err != nil {
		if !errors.IsAppError(err) {
			logger.LogLedgerError(action, reference, err)
		}
		return err
	}

	for _, entry := range p.entries {
		if err := l.publisher.Publish(ctx, entity.EventFromEntry(entry)); err != nil {
			logger.Warn("Failed to publish %s event for %s: %v", entry.Type, entry.UserEmail, err)
		}
	}
	return nil
}

// getUser loads a user inside tx, mapping a miss to UserNotFound.
func getUser(tx repository.LedgerTx, email string) (*entity.User, error) {
	user, err := tx.GetUser(email)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.UserNotFound(err)
		}
		return nil, err
	}
	return user, nil
}
