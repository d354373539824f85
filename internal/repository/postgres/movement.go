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

	"github.com/nkiryanov/bankcore/internal/apperrors"
	"github.com/nkiryanov/bankcore/internal/models"
	"github.com/nkiryanov/bankcore/internal/repository"
)

type MovementRepo struct {
	DB DBTX
}

// Movement columns followed by owning account number
const movementColumns = `m.id, m.account_id, m.type, m.amount, m.balance, m.movement_date, m.created_at, a.number`

const createMovement = `-- name: CreateMovement
WITH m AS (
	INSERT INTO movements (id, account_id, type, amount, balance, movement_date, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING *
)
SELECT ` + movementColumns + ` FROM m
JOIN accounts a ON a.id = m.account_id
`

// Create movement. Empty id and timestamps are filled with defaults
func (r *MovementRepo) CreateMovement(ctx context.Context, m models.Movement) (models.Movement, error) {
	now := time.Now()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.MovementDate.IsZero() {
		m.MovementDate = now
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}

	rows, _ := r.DB.Query(ctx, createMovement, m.ID, m.AccountID, m.Type, m.Amount, m.Balance, m.MovementDate, m.CreatedAt)
	created, err := pgx.CollectOneRow(rows, rowToMovement)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return created, apperrors.ErrAccountNotFound
		}
		return created, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

const getMovement = `-- name: GetMovement
SELECT ` + movementColumns + ` FROM movements m
JOIN accounts a ON a.id = m.account_id
WHERE m.id = $1
`

// Only the movement row is locked, the account is locked separately by the caller
const getMovementForUpdate = getMovement + `FOR UPDATE OF m`

func (r *MovementRepo) GetMovement(ctx context.Context, movementID uuid.UUID, lock bool) (models.Movement, error) {
	query := getMovement
	if lock {
		query = getMovementForUpdate
	}

	rows, _ := r.DB.Query(ctx, query, movementID)
	return collectMovement(rows)
}

const updateMovement = `-- name: UpdateMovement
WITH m AS (
	UPDATE movements SET type = $2, amount = $3, balance = $4
	WHERE id = $1
	RETURNING *
)
SELECT ` + movementColumns + ` FROM m
JOIN accounts a ON a.id = m.account_id
`

func (r *MovementRepo) UpdateMovement(ctx context.Context, m models.Movement) (models.Movement, error) {
	rows, _ := r.DB.Query(ctx, updateMovement, m.ID, m.Type, m.Amount, m.Balance)
	return collectMovement(rows)
}

const deleteMovement = `-- name: DeleteMovement
DELETE FROM movements WHERE id = $1
`

func (r *MovementRepo) DeleteMovement(ctx context.Context, movementID uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deleteMovement, movementID)

	switch {
	case err != nil:
		return fmt.Errorf("db error: %w", err)
	case tag.RowsAffected() == 0:
		return apperrors.ErrMovementNotFound
	default:
		return nil
	}
}

const listMovements = `-- name: ListMovements
SELECT ` + movementColumns + ` FROM movements m
JOIN accounts a ON a.id = m.account_id
WHERE ($1::uuid IS NULL OR m.account_id = $1)
	AND ($2::uuid IS NULL OR a.customer_id = $2)
	AND ($3::timestamptz IS NULL OR m.movement_date >= $3)
	AND ($4::timestamptz IS NULL OR m.movement_date <= $4)
ORDER BY m.movement_date DESC, m.created_at DESC
`

func (r *MovementRepo) ListMovements(ctx context.Context, opts repository.ListMovementsOpts) ([]models.Movement, error) {
	var from, to *time.Time
	if !opts.From.IsZero() {
		from = &opts.From
	}
	if !opts.To.IsZero() {
		to = &opts.To
	}

	rows, _ := r.DB.Query(ctx, listMovements, opts.AccountID, opts.CustomerID, from, to)
	movements, err := pgx.CollectRows(rows, rowToMovement)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return movements, nil
}

func collectMovement(rows pgx.Rows) (models.Movement, error) {
	m, err := pgx.CollectOneRow(rows, rowToMovement)

	switch {
	case err == nil:
		return m, nil
	case errors.Is(err, pgx.ErrNoRows):
		return m, apperrors.ErrMovementNotFound
	default:
		return m, fmt.Errorf("db error: %w", err)
	}
}

func rowToMovement(row pgx.CollectableRow) (models.Movement, error) {
	var m models.Movement
	err := row.Scan(&m.ID, &m.AccountID, &m.Type, &m.Amount, &m.Balance, &m.MovementDate, &m.CreatedAt, &m.AccountNumber)
	return m, err
}
