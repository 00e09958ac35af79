package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"microtask/internal/domain/entity"
	"microtask/internal/domain/repository"
	"microtask/pkg/errors"
)

type WithdrawalUseCase struct {
	ledger                   *Ledger
	withdrawalRepo           repository.WithdrawalRepository
	minWithdrawalCoins       int64
	coinsPerWithdrawalDollar int64
}

func NewWithdrawalUseCase(
	ledger *Ledger,
	withdrawalRepo repository.WithdrawalRepository,
	minWithdrawalCoins int64,
	coinsPerWithdrawalDollar int64,
) *WithdrawalUseCase {
	return &WithdrawalUseCase{
		ledger:                   ledger,
		withdrawalRepo:           withdrawalRepo,
		minWithdrawalCoins:       minWithdrawalCoins,
		coinsPerWithdrawalDollar: coinsPerWithdrawalDollar,
	}
}

type CreateWithdrawalInput struct {
	WithdrawalCoin int64
	PaymentSystem  string
	AccountNumber  string
}

// WithdrawalAmount converts coins to the dollar payout, rounded down to cents.
func (uc *WithdrawalUseCase) WithdrawalAmount(coins int64) decimal.Decimal {
	return decimal.NewFromInt(coins).
		Div(decimal.NewFromInt(uc.coinsPerWithdrawalDollar)).
		RoundDown(2)
}

// CreateWithdrawal records a pending request. Coins stay with the worker
// until an admin approves it.
func (uc *WithdrawalUseCase) CreateWithdrawal(ctx context.Context, actor Actor, input CreateWithdrawalInput) (*entity.Withdrawal, error) {
	if err := requireRole(actor, entity.RoleWorker); err != nil {
		return nil, err
	}
	if input.WithdrawalCoin <= 0 {
		return nil, errors.BadRequest("withdrawal_coin must be greater than zero", nil)
	}
	if input.WithdrawalCoin < uc.minWithdrawalCoins {
		return nil, errors.BadRequest(fmt.Sprintf("Minimum withdrawal is %d coins", uc.minWithdrawalCoins), nil)
	}
	if strings.TrimSpace(input.PaymentSystem) == "" || strings.TrimSpace(input.AccountNumber) == "" {
		return nil, errors.BadRequest("payment_system and account_number are required", nil)
	}

	var withdrawal *entity.Withdrawal
	err := uc.ledger.run(ctx, "create_withdrawal", actor.Email, func(tx repository.LedgerTx, p *posting) error {
		worker, err := getUser(tx, actor.Email)
		if err != nil {
			return err
		}
		if worker.TotalCoin < input.WithdrawalCoin {
			return errors.InsufficientFunds("")
		}

		withdrawal = &entity.Withdrawal{
			ID:               uuid.New().String(),
			WorkerEmail:      worker.Email,
			WorkerName:       worker.Name,
			WithdrawalCoin:   input.WithdrawalCoin,
			WithdrawalAmount: uc.WithdrawalAmount(input.WithdrawalCoin).StringFixed(2),
			PaymentSystem:    input.PaymentSystem,
			AccountNumber:    input.AccountNumber,
			Status:           entity.WithdrawalPending,
			WithdrawDate:     p.now,
		}
		return tx.PutWithdrawal(withdrawal)
	})
	if err != nil {
		return nil, errors.AsAppError(err, "Failed to create withdrawal")
	}

	return withdrawal, nil
}

func (uc *WithdrawalUseCase) ListPendingWithdrawals(ctx context.Context, actor Actor, limit, offset int) ([]*entity.Withdrawal, int64, error) {
	if err := requireRole(actor, entity.RoleAdmin); err != nil {
		return nil, 0, err
	}

	withdrawals, total, err := uc.withdrawalRepo.ListPending(ctx, limit, offset)
	if err != nil {
		return nil, 0, errors.Internal("Failed to list withdrawals", err)
	}
	return withdrawals, total, nil
}

func (uc *WithdrawalUseCase) ListWorkerWithdrawals(ctx context.Context, actor Actor, workerEmail string, limit, offset int) ([]*entity.Withdrawal, int64, error) {
	if err := requireSelfOrAdmin(actor, workerEmail); err != nil {
		return nil, 0, err
	}

	withdrawals, total, err := uc.withdrawalRepo.ListByWorker(ctx, workerEmail, limit, offset)
	if err != nil {
		return nil, 0, errors.Internal("Failed to list withdrawals", err)
	}
	return withdrawals, total, nil
}

// ApproveWithdrawal debits the worker and marks the request approved. It
// fails with InsufficientFunds when the worker spent the coins meanwhile.
func (uc *WithdrawalUseCase) ApproveWithdrawal(ctx context.Context, actor Actor, id string) (*entity.Withdrawal, error) {
	if err := requireRole(actor, entity.RoleAdmin); err != nil {
		return nil, err
	}

	var withdrawal *entity.Withdrawal
	err := uc.ledger.run(ctx, "approve_withdrawal", id, func(tx repository.LedgerTx, p *posting) error {
		w, err := tx.GetWithdrawal(id)
		if err != nil {
			if errors.IsNotFound(err) {
				return errors.WithdrawalNotFound(err)
			}
			return err
		}
		withdrawal = w
		if w.Status == entity.WithdrawalApproved {
			return nil
		}

		worker, err := getUser(tx, w.WorkerEmail)
		if err != nil {
			return err
		}
		if worker.TotalCoin < w.WithdrawalCoin {
			return errors.InsufficientFunds("Worker balance is below the withdrawal amount")
		}

		approvedAt := p.now
		w.Status = entity.WithdrawalApproved
		w.ApprovedBy = actor.Email
		w.ApprovedAt = &approvedAt
		if err := tx.PutWithdrawal(w); err != nil {
			return err
		}
		return p.apply(tx, worker, -w.WithdrawalCoin, entity.EntryWithdrawal, w.ID, "Withdrawal via "+w.PaymentSystem)
	})
	if err != nil {
		return nil, errors.AsAppError(err, "Failed to approve withdrawal")
	}

	return withdrawal, nil
}
