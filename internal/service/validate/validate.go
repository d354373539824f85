package validate

import (
	"fmt"

	"github.com/nkiryanov/bankcore/internal/apperrors"
)

const (
	minAccountNumberLen = 6
	maxAccountNumberLen = 12
)

// AccountNumber checks the number is 6 to 12 digits
func AccountNumber(number string) error {
	if len(number) < minAccountNumberLen || len(number) > maxAccountNumberLen {
		return fmt.Errorf("got %d characters: %w", len(number), apperrors.ErrInvalidAccountNumber)
	}

	// It's ok to work with string as bytes here
	for i := 0; i < len(number); i++ {
		if number[i] < '0' || number[i] > '9' {
			return fmt.Errorf("number contains invalid characters: %w", apperrors.ErrInvalidAccountNumber)
		}
	}

	return nil
}
