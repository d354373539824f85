package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypeSavings  AccountType = "SAVINGS"
	AccountTypeChecking AccountType = "CHECKING"
)

func (t AccountType) Valid() bool {
	return t == AccountTypeSavings || t == AccountTypeChecking
}

type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "ACTIVE"
	AccountStatusInactive AccountStatus = "INACTIVE"
)

func (s AccountStatus) Valid() bool {
	return s == AccountStatusActive || s == AccountStatusInactive
}

type Account struct {
	ID             uuid.UUID
	Number         string
	Type           AccountType
	InitialBalance decimal.Decimal
	CurrentBalance decimal.Decimal
	Status         AccountStatus
	CustomerID     uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AccountUpdate holds the fields an account update may change.
// Number, customer and initial balance are immutable after creation.
type AccountUpdate struct {
	Type   Optional[AccountType]
	Status Optional[AccountStatus]
}

func (u AccountUpdate) Empty() bool {
	return !u.Type.Set && !u.Status.Set
}
