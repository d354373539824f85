package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/nkiryanov/bankcore/internal/apperrors"
	"github.com/nkiryanov/bankcore/internal/models"
	"github.com/nkiryanov/bankcore/internal/repository"
)

type AccountRepo struct {
	DB DBTX
}

const accountColumns = `id, number, type, initial_balance, current_balance, status, customer_id, created_at, updated_at`

const createAccount = `-- name: CreateAccount
INSERT INTO accounts (` + accountColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + accountColumns

// Create account. Empty id, status and timestamps are filled with defaults
func (r *AccountRepo) CreateAccount(ctx context.Context, a models.Account) (models.Account, error) {
	now := time.Now()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = models.AccountStatusActive
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = a.CreatedAt
	}

	rows, _ := r.DB.Query(ctx, createAccount,
		a.ID, a.Number, a.Type, a.InitialBalance, a.CurrentBalance, a.Status, a.CustomerID, a.CreatedAt, a.UpdatedAt,
	)
	created, err := pgx.CollectOneRow(rows, rowToAccount)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return created, apperrors.ErrAccountAlreadyExists
		}
		return created, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

const getAccount = `-- name: GetAccount
SELECT ` + accountColumns + ` FROM accounts
WHERE id = $1
`

const getAccountForUpdate = getAccount + `FOR UPDATE`

func (r *AccountRepo) GetAccount(ctx context.Context, accountID uuid.UUID, lock bool) (models.Account, error) {
	query := getAccount
	if lock {
		query = getAccountForUpdate
	}

	rows, _ := r.DB.Query(ctx, query, accountID)
	return collectAccount(rows)
}

const getAccountByNumber = `-- name: GetAccountByNumber
SELECT ` + accountColumns + ` FROM accounts
WHERE number = $1
`

func (r *AccountRepo) GetAccountByNumber(ctx context.Context, number string) (models.Account, error) {
	rows, _ := r.DB.Query(ctx, getAccountByNumber, number)
	return collectAccount(rows)
}

const existsByNumber = `-- name: ExistsByNumber
SELECT EXISTS (SELECT 1 FROM accounts WHERE number = $1)
`

func (r *AccountRepo) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx, existsByNumber, number).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

const listAccounts = `-- name: ListAccounts
SELECT ` + accountColumns + ` FROM accounts
WHERE ($1::uuid IS NULL OR customer_id = $1)
	AND ($2::varchar = '' OR status = $2)
ORDER BY created_at, number
`

func (r *AccountRepo) ListAccounts(ctx context.Context, opts repository.ListAccountsOpts) ([]models.Account, error) {
	rows, _ := r.DB.Query(ctx, listAccounts, opts.CustomerID, string(opts.Status))
	accounts, err := pgx.CollectRows(rows, rowToAccount)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return accounts, nil
}

// Fields not provided keep their current values
const updateAccount = `-- name: UpdateAccount
UPDATE accounts SET
	type = CASE WHEN $2::boolean THEN $3::varchar ELSE type END,
	status = CASE WHEN $4::boolean THEN $5::varchar ELSE status END,
	updated_at = $6
WHERE id = $1
RETURNING ` + accountColumns

func (r *AccountRepo) UpdateAccount(ctx context.Context, accountID uuid.UUID, u models.AccountUpdate) (models.Account, error) {
	rows, _ := r.DB.Query(ctx, updateAccount,
		accountID,
		u.Type.Set, string(u.Type.Value),
		u.Status.Set, string(u.Status.Value),
		time.Now(),
	)
	return collectAccount(rows)
}

const setBalance = `-- name: SetBalance
UPDATE accounts SET current_balance = $2, updated_at = $3
WHERE id = $1
RETURNING ` + accountColumns

func (r *AccountRepo) SetBalance(ctx context.Context, accountID uuid.UUID, balance decimal.Decimal) (models.Account, error) {
	rows, _ := r.DB.Query(ctx, setBalance, accountID, balance, time.Now())
	return collectAccount(rows)
}

const deactivateByCustomer = `-- name: DeactivateByCustomer
UPDATE accounts SET status = 'INACTIVE', updated_at = $2
WHERE customer_id = $1 AND status = 'ACTIVE'
RETURNING ` + accountColumns

func (r *AccountRepo) DeactivateByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Account, error) {
	rows, _ := r.DB.Query(ctx, deactivateByCustomer, customerID, time.Now())
	accounts, err := pgx.CollectRows(rows, rowToAccount)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return accounts, nil
}

func collectAccount(rows pgx.Rows) (models.Account, error) {
	a, err := pgx.CollectOneRow(rows, rowToAccount)

	switch {
	case err == nil:
		return a, nil
	case errors.Is(err, pgx.ErrNoRows):
		return a, apperrors.ErrAccountNotFound
	default:
		return a, fmt.Errorf("db error: %w", err)
	}
}

func rowToAccount(row pgx.CollectableRow) (models.Account, error) {
	var a models.Account
	err := row.Scan(&a.ID, &a.Number, &a.Type, &a.InitialBalance, &a.CurrentBalance, &a.Status, &a.CustomerID, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}
