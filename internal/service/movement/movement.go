// Package movement keeps account balances consistent with recorded movements.
//
// Every write runs in a single transaction that locks the rows it reads:
// first the movement (for update and delete), then its account.
// Concurrent operations on the same account are serialized by the account row lock
// and always see the committed balance. The fixed lock order rules out deadlocks.
package movement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nkiryanov/bankcore/internal/apperrors"
	"github.com/nkiryanov/bankcore/internal/balance"
	"github.com/nkiryanov/bankcore/internal/logger"
	"github.com/nkiryanov/bankcore/internal/metrics"
	"github.com/nkiryanov/bankcore/internal/models"
	"github.com/nkiryanov/bankcore/internal/repository"
)

type eventSink interface {
	// Must not block and must not fail
	PublishMovementCreated(ctx context.Context, e models.MovementEvent)
}

type MovementService struct {
	storage repository.Storage
	events  eventSink
	logger  logger.Logger
}

func NewService(storage repository.Storage, events eventSink, l logger.Logger) *MovementService {
	return &MovementService{
		storage: storage,
		events:  events,
		logger:  l.WithGroup("movement"),
	}
}

// CreateMovement applies the movement to the account balance and records it
func (s *MovementService) CreateMovement(ctx context.Context, accountID uuid.UUID, t models.MovementType, amount decimal.Decimal) (models.Movement, error) {
	var (
		movement models.Movement
		event    models.MovementEvent
	)

	if err := balance.Check(amount, t); err != nil {
		metrics.Movement(metrics.OpCreate, string(t), err)
		return movement, err
	}

	err := s.storage.InTx(ctx, func(tx repository.Storage) error {
		account, err := tx.Account().GetAccount(ctx, accountID, true)
		if err != nil {
			return err
		}

		newBalance, err := balance.Apply(account.CurrentBalance, amount, t)
		if err != nil {
			return err
		}

		movement, err = tx.Movement().CreateMovement(ctx, models.Movement{
			AccountID:    account.ID,
			Type:         t,
			Amount:       amount,
			Balance:      newBalance,
			MovementDate: time.Now(),
		})
		if err != nil {
			return err
		}

		if _, err := tx.Account().SetBalance(ctx, account.ID, newBalance); err != nil {
			return err
		}

		event = models.MovementEvent{
			MovementID:    movement.ID,
			AccountID:     account.ID,
			AccountNumber: account.Number,
			CustomerID:    account.CustomerID,
			Type:          t,
			Amount:        amount,
			BalanceBefore: account.CurrentBalance,
			BalanceAfter:  newBalance,
			MovementDate:  movement.MovementDate,
		}
		return nil
	})

	metrics.Movement(metrics.OpCreate, string(t), err)
	if err != nil {
		return models.Movement{}, s.fail("create movement", err)
	}

	s.logger.Info("Movement created",
		"movement_id", movement.ID,
		"account_id", accountID,
		"type", t,
		"amount", amount,
		"balance", movement.Balance,
	)
	s.events.PublishMovementCreated(ctx, event)

	return movement, nil
}

// UpdateMovement reverts the old effect from the current account balance
// and applies the new type and amount on top of it
func (s *MovementService) UpdateMovement(ctx context.Context, movementID uuid.UUID, t models.MovementType, amount decimal.Decimal) (models.Movement, error) {
	var movement models.Movement

	if err := balance.Check(amount, t); err != nil {
		metrics.Movement(metrics.OpUpdate, string(t), err)
		return movement, err
	}

	err := s.storage.InTx(ctx, func(tx repository.Storage) error {
		current, err := tx.Movement().GetMovement(ctx, movementID, true)
		if err != nil {
			return err
		}

		account, err := tx.Account().GetAccount(ctx, current.AccountID, true)
		if err != nil {
			return err
		}

		reverted := balance.Revert(account.CurrentBalance, current.Amount, current.Type)
		newBalance, err := balance.Apply(reverted, amount, t)
		if err != nil {
			return err
		}

		current.Type = t
		current.Amount = amount
		current.Balance = newBalance
		movement, err = tx.Movement().UpdateMovement(ctx, current)
		if err != nil {
			return err
		}

		_, err = tx.Account().SetBalance(ctx, account.ID, newBalance)
		return err
	})

	metrics.Movement(metrics.OpUpdate, string(t), err)
	if err != nil {
		return models.Movement{}, s.fail("update movement", err)
	}

	s.logger.Info("Movement updated",
		"movement_id", movement.ID,
		"account_id", movement.AccountID,
		"type", t,
		"amount", amount,
		"balance", movement.Balance,
	)

	return movement, nil
}

// DeleteMovement reverts the movement effect and removes it
func (s *MovementService) DeleteMovement(ctx context.Context, movementID uuid.UUID) error {
	var deleted models.Movement

	err := s.storage.InTx(ctx, func(tx repository.Storage) error {
		var err error
		deleted, err = tx.Movement().GetMovement(ctx, movementID, true)
		if err != nil {
			return err
		}

		account, err := tx.Account().GetAccount(ctx, deleted.AccountID, true)
		if err != nil {
			return err
		}

		reverted := balance.Revert(account.CurrentBalance, deleted.Amount, deleted.Type)
		if _, err := tx.Account().SetBalance(ctx, account.ID, reverted); err != nil {
			return err
		}

		return tx.Movement().DeleteMovement(ctx, movementID)
	})

	metrics.Movement(metrics.OpDelete, string(deleted.Type), err)
	if err != nil {
		return s.fail("delete movement", err)
	}

	s.logger.Info("Movement deleted", "movement_id", movementID, "account_id", deleted.AccountID)

	return nil
}

func (s *MovementService) GetMovement(ctx context.Context, movementID uuid.UUID) (models.Movement, error) {
	movement, err := s.storage.Movement().GetMovement(ctx, movementID, false)
	if err != nil {
		return movement, s.fail("get movement", err)
	}
	return movement, nil
}

func (s *MovementService) ListMovements(ctx context.Context) ([]models.Movement, error) {
	return s.list(ctx, "list movements", repository.ListMovementsOpts{})
}

func (s *MovementService) ListAccountMovements(ctx context.Context, accountID uuid.UUID) ([]models.Movement, error) {
	return s.list(ctx, "list account movements", repository.ListMovementsOpts{AccountID: &accountID})
}

// ListCustomerMovements returns movements of every customer account made within the period, bounds included
func (s *MovementService) ListCustomerMovements(ctx context.Context, customerID uuid.UUID, period models.StatementPeriod) ([]models.Movement, error) {
	return s.list(ctx, "list customer movements", repository.ListMovementsOpts{
		CustomerID: &customerID,
		From:       period.From,
		To:         period.To,
	})
}

func (s *MovementService) list(ctx context.Context, op string, opts repository.ListMovementsOpts) ([]models.Movement, error) {
	movements, err := s.storage.Movement().ListMovements(ctx, opts)
	if err != nil {
		return nil, s.fail(op, err)
	}
	return movements, nil
}

// fail passes known errors through and hides everything else behind apperrors.ErrInternal
func (s *MovementService) fail(op string, err error) error {
	if apperrors.Known(err) {
		return err
	}
	s.logger.Error("Unexpected error", "op", op, "error", err)
	return fmt.Errorf("%s: %w", op, apperrors.ErrInternal)
}
