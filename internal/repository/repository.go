package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nkiryanov/bankcore/internal/models"
)

// Storage gives access to every repository and runs units of work
type Storage interface {
	Account() AccountRepo
	Movement() MovementRepo

	// InTx runs fn inside a transaction.
	// Commits if fn returns nil, rolls back otherwise.
	InTx(ctx context.Context, fn func(Storage) error) error
}

type AccountRepo interface {
	// Create account
	// If account with the number exists already has to return apperrors.ErrAccountAlreadyExists
	CreateAccount(ctx context.Context, account models.Account) (models.Account, error)

	// Get account by id or number
	// If account not found must return apperrors.ErrAccountNotFound
	// With lock=true the row is locked until the transaction ends
	GetAccount(ctx context.Context, accountID uuid.UUID, lock bool) (models.Account, error)
	GetAccountByNumber(ctx context.Context, number string) (models.Account, error)

	ExistsByNumber(ctx context.Context, number string) (bool, error)

	// List accounts, never fails with not found
	ListAccounts(ctx context.Context, opts ListAccountsOpts) ([]models.Account, error)

	// Update type or status. Number, customer and initial balance are never touched
	// If account not found must return apperrors.ErrAccountNotFound
	UpdateAccount(ctx context.Context, accountID uuid.UUID, update models.AccountUpdate) (models.Account, error)

	// Set current balance
	// If account not found must return apperrors.ErrAccountNotFound
	SetBalance(ctx context.Context, accountID uuid.UUID, balance decimal.Decimal) (models.Account, error)

	// Mark every active account of the customer inactive and return them
	DeactivateByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Account, error)
}

type ListAccountsOpts struct {
	CustomerID *uuid.UUID
	Status     models.AccountStatus
}

type MovementRepo interface {
	// Create movement
	// If account does not exist must return apperrors.ErrAccountNotFound
	CreateMovement(ctx context.Context, movement models.Movement) (models.Movement, error)

	// If movement not found must return apperrors.ErrMovementNotFound
	GetMovement(ctx context.Context, movementID uuid.UUID, lock bool) (models.Movement, error)

	// Update type, amount and resulting balance
	// If movement not found must return apperrors.ErrMovementNotFound
	UpdateMovement(ctx context.Context, movement models.Movement) (models.Movement, error)

	// If movement not found must return apperrors.ErrMovementNotFound
	DeleteMovement(ctx context.Context, movementID uuid.UUID) error

	// List movements with owning account number, newest first
	ListMovements(ctx context.Context, opts ListMovementsOpts) ([]models.Movement, error)
}

// Zero values mean "no filter"
type ListMovementsOpts struct {
	AccountID  *uuid.UUID
	CustomerID *uuid.UUID
	From       time.Time
	To         time.Time
}
