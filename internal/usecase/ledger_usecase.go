package usecase

import (
	"context"
	"sort"
	"time"

	"microtask/internal/domain/entity"
	"microtask/internal/domain/repository"
	"microtask/pkg/errors"
)

type LedgerUseCase struct {
	entryRepo      repository.LedgerEntryRepository
	userRepo       repository.UserRepository
	taskRepo       repository.TaskRepository
	submissionRepo repository.SubmissionRepository
}

func NewLedgerUseCase(
	entryRepo repository.LedgerEntryRepository,
	userRepo repository.UserRepository,
	taskRepo repository.TaskRepository,
	submissionRepo repository.SubmissionRepository,
) *LedgerUseCase {
	return &LedgerUseCase{
		entryRepo:      entryRepo,
		userRepo:       userRepo,
		taskRepo:       taskRepo,
		submissionRepo: submissionRepo,
	}
}

// ListEntries returns the caller's own ledger history, newest first.
func (uc *LedgerUseCase) ListEntries(ctx context.Context, actor Actor, limit, offset int) ([]*entity.LedgerEntry, int64, error) {
	entries, total, err := uc.entryRepo.ListByUser(ctx, actor.Email, limit, offset)
	if err != nil {
		return nil, 0, errors.Internal("Failed to list ledger entries", err)
	}
	return entries, total, nil
}

type UserDrift struct {
	Email    string `json:"email"`
	Balance  int64  `json:"balance"`
	EntrySum int64  `json:"entrySum"`
	Drift    int64  `json:"drift"`
}

type ReconcileReport struct {
	Users             int         `json:"users"`
	Entries           int         `json:"entries"`
	TotalBalances     int64       `json:"totalBalances"`
	EscrowOutstanding int64       `json:"escrowOutstanding"`
	Minted            int64       `json:"minted"`
	Withdrawn         int64       `json:"withdrawn"`
	Forfeited         int64       `json:"forfeited"`
	Drifts            []UserDrift `json:"drifts"`
	Balanced          bool        `json:"balanced"`
	GeneratedAt       time.Time   `json:"generatedAt"`
}

// Circulating is the amount the ledger says should exist in balances and
// escrow combined.
func (r *ReconcileReport) Circulating() int64 {
	return r.Minted - r.Withdrawn - r.Forfeited
}

// Reconcile checks every balance against its entry log and the global
// identity balances + escrow == minted - withdrawn - forfeited. The scan is
// not a snapshot, so run it when traffic is quiet for exact results.
func (uc *LedgerUseCase) Reconcile(ctx context.Context, actor Actor) (*ReconcileReport, error) {
	if err := requireRole(actor, entity.RoleAdmin); err != nil {
		return nil, err
	}

	users, err := uc.userRepo.All(ctx)
	if err != nil {
		return nil, errors.Internal("Failed to load users", err)
	}
	entries, err := uc.entryRepo.All(ctx)
	if err != nil {
		return nil, errors.Internal("Failed to load ledger entries", err)
	}
	tasks, err := uc.taskRepo.All(ctx)
	if err != nil {
		return nil, errors.Internal("Failed to load tasks", err)
	}
	pending, err := uc.submissionRepo.ListByStatus(ctx, entity.SubmissionPending)
	if err != nil {
		return nil, errors.Internal("Failed to load submissions", err)
	}

	report := &ReconcileReport{
		Users:       len(users),
		Entries:     len(entries),
		Drifts:      []UserDrift{},
		GeneratedAt: time.Now(),
	}

	sums := make(map[string]int64)
	for _, e := range entries {
		sums[e.UserEmail] += e.Amount
		switch {
		case e.IsMint():
			report.Minted += e.Amount
		case e.Type == entity.EntryWithdrawal:
			report.Withdrawn -= e.Amount
		case e.Type == entity.EntryForfeit:
			report.Forfeited -= e.Amount
		}
	}

	for _, u := range users {
		report.TotalBalances += u.TotalCoin
		if sum := sums[u.Email]; sum != u.TotalCoin {
			report.Drifts = append(report.Drifts, UserDrift{
				Email:    u.Email,
				Balance:  u.TotalCoin,
				EntrySum: sum,
				Drift:    u.TotalCoin - sum,
			})
		}
	}
	sort.Slice(report.Drifts, func(i, j int) bool {
		return report.Drifts[i].Email < report.Drifts[j].Email
	})

	for _, t := range tasks {
		report.EscrowOutstanding += t.RemainingEscrow()
	}
	for _, s := range pending {
		report.EscrowOutstanding += s.PayableAmount
	}

	report.Balanced = len(report.Drifts) == 0 &&
		report.TotalBalances+report.EscrowOutstanding == report.Circulating()

	return report, nil
}
