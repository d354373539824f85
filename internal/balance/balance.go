// Package balance holds the arithmetic of applying and undoing movements.
// Functions here never touch storage.
package balance

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nkiryanov/bankcore/internal/apperrors"
	"github.com/nkiryanov/bankcore/internal/models"
)

// Revert returns the balance as it was before a movement of the given type and amount was applied.
// Unknown types leave the balance unchanged.
func Revert(balance decimal.Decimal, amount decimal.Decimal, t models.MovementType) decimal.Decimal {
	switch t {
	case models.MovementTypeDebit:
		return balance.Add(amount)
	case models.MovementTypeCredit:
		return balance.Sub(amount)
	default:
		return balance
	}
}

// Apply returns the balance after the movement.
// A debit larger than the balance fails with apperrors.ErrInsufficientBalance.
func Apply(balance decimal.Decimal, amount decimal.Decimal, t models.MovementType) (decimal.Decimal, error) {
	if err := Check(amount, t); err != nil {
		return balance, err
	}

	switch t {
	case models.MovementTypeCredit:
		return balance.Add(amount), nil
	default:
		if balance.LessThan(amount) {
			return balance, apperrors.ErrInsufficientBalance
		}
		return balance.Sub(amount), nil
	}
}

// Money is stored with cents precision
const Places = 2

// Check validates movement input without any balance
func Check(amount decimal.Decimal, t models.MovementType) error {
	if !amount.IsPositive() {
		return fmt.Errorf("got %s: %w", amount, apperrors.ErrInvalidAmount)
	}
	if !amount.Equal(amount.Truncate(Places)) {
		return fmt.Errorf("got %s, at most %d decimal places allowed: %w", amount, Places, apperrors.ErrInvalidAmount)
	}
	if !t.Valid() {
		return fmt.Errorf("got %q: %w", t, apperrors.ErrInvalidMovementType)
	}
	return nil
}
