package apperrors

import (
	"errors"
)

var (
	ErrAccountNotFound      = errors.New("account not found")
	ErrAccountAlreadyExists = errors.New("account with this number already exists")
	ErrInvalidAccountNumber = errors.New("account number must contain from 6 to 12 digits")
	ErrInvalidAccountType   = errors.New("account type is invalid")
	ErrInvalidAccountStatus = errors.New("account status is invalid")

	ErrMovementNotFound    = errors.New("movement not found")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInvalidMovementType = errors.New("movement type is invalid")
	ErrInsufficientBalance = errors.New("insufficient balance")

	ErrCustomerValidation = errors.New("unable to validate customer")

	ErrInvalidPeriod = errors.New("period start must not be after its end")

	ErrInternal = errors.New("internal error")
)

var known = []error{
	ErrAccountNotFound,
	ErrAccountAlreadyExists,
	ErrInvalidAccountNumber,
	ErrInvalidAccountType,
	ErrInvalidAccountStatus,
	ErrMovementNotFound,
	ErrInvalidAmount,
	ErrInvalidMovementType,
	ErrInsufficientBalance,
	ErrCustomerValidation,
	ErrInvalidPeriod,
	ErrInternal,
}

// Known reports whether err wraps one of the errors above
func Known(err error) bool {
	for _, target := range known {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
