package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"microtask/internal/domain/entity"
	"microtask/internal/domain/repository"
	"microtask/pkg/errors"
)

type UserUseCase struct {
	ledger      *Ledger
	userRepo    repository.UserRepository
	taskRepo    repository.TaskRepository
	signupBonus map[string]int64
}

func NewUserUseCase(
	ledger *Ledger,
	userRepo repository.UserRepository,
	taskRepo repository.TaskRepository,
	buyerBonus int64,
	workerBonus int64,
) *UserUseCase {
	return &UserUseCase{
		ledger:   ledger,
		userRepo: userRepo,
		taskRepo: taskRepo,
		signupBonus: map[string]int64{
			entity.RoleBuyer:  buyerBonus,
			entity.RoleWorker: workerBonus,
		},
	}
}

type RegisterInput struct {
	Email    string
	Name     string
	PhotoURL string
	Role     string
}

// Register creates the account and grants the role's signup bonus in one
// transaction. Admins are never self-registered.
func (uc *UserUseCase) Register(ctx context.Context, input RegisterInput) (*entity.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, errors.BadRequest("email is required", nil)
	}
	if input.Role != entity.RoleBuyer && input.Role != entity.RoleWorker {
		return nil, errors.BadRequest("role must be buyer or worker", nil)
	}

	now := time.Now()
	user := &entity.User{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      input.Name,
		PhotoURL:  input.PhotoURL,
		Role:      input.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	bonus := uc.signupBonus[input.Role]

	err := uc.ledger.run(ctx, "register", email, func(tx repository.LedgerTx, p *posting) error {
		if _, err := tx.GetUser(email); err == nil {
			return errors.Conflict("User already exists")
		} else if !errors.IsNotFound(err) {
			return err
		}

		user.TotalCoin = 0
		if bonus <= 0 {
			return tx.PutUser(user)
		}
		return p.apply(tx, user, bonus, entity.EntrySignupBonus, user.ID, "Signup bonus")
	})
	if err != nil {
		return nil, errors.AsAppError(err, "Failed to register user")
	}

	return user, nil
}

func (uc *UserUseCase) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.UserNotFound(err)
		}
		return nil, errors.Internal("Failed to get user", err)
	}
	return user, nil
}

func (uc *UserUseCase) ListUsers(ctx context.Context, actor Actor, limit, offset int) ([]*entity.User, int64, error) {
	if err := requireRole(actor, entity.RoleAdmin); err != nil {
		return nil, 0, err
	}

	users, total, err := uc.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, errors.Internal("Failed to list users", err)
	}
	return users, total, nil
}

func (uc *UserUseCase) UpdateRole(ctx context.Context, actor Actor, email, role string) (*entity.User, error) {
	if err := requireRole(actor, entity.RoleAdmin); err != nil {
		return nil, err
	}
	if !entity.IsValidRole(role) {
		return nil, errors.BadRequest("Unknown role: "+role, nil)
	}

	if err := uc.userRepo.UpdateRole(ctx, email, role); err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.UserNotFound(err)
		}
		return nil, errors.Internal("Failed to update role", err)
	}
	return uc.GetUserByEmail(ctx, email)
}

// DeleteUser removes an account. Its remaining balance is written off with a
// forfeit entry so the ledger still adds up. Buyers with live tasks must
// delete them first, since their escrow refunds to this account.
func (uc *UserUseCase) DeleteUser(ctx context.Context, actor Actor, email string) error {
	if err := requireRole(actor, entity.RoleAdmin); err != nil {
		return err
	}
	if actor.Email == email {
		return errors.BadRequest("Admins cannot delete their own account", nil)
	}

	_, openTasks, err := uc.taskRepo.ListByBuyer(ctx, email, 1, 0)
	if err != nil {
		return errors.Internal("Failed to check user tasks", err)
	}
	if openTasks > 0 {
		return errors.Conflict("User still owns tasks")
	}

	err = uc.ledger.run(ctx, "delete_user", email, func(tx repository.LedgerTx, p *posting) error {
		user, err := getUser(tx, email)
		if err != nil {
			return err
		}
		// Tasks created after the listing above are counted here.
		if user.OpenTasks > 0 {
			return errors.Conflict("User still owns tasks")
		}
		if err := tx.DeleteUser(user); err != nil {
			return err
		}
		if user.TotalCoin == 0 {
			return nil
		}
		return p.record(tx, user.Email, -user.TotalCoin, 0, entity.EntryForfeit, user.ID, "Account deleted")
	})
	return errors.AsAppError(err, "Failed to delete user")
}
