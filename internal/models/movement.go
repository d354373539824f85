package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type MovementType string

const (
	MovementTypeCredit MovementType = "CREDIT"
	MovementTypeDebit  MovementType = "DEBIT"
)

func (t MovementType) Valid() bool {
	return t == MovementTypeCredit || t == MovementTypeDebit
}

// ParseMovementType accepts the type in any letter case
func ParseMovementType(s string) (MovementType, error) {
	t := MovementType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return t, fmt.Errorf("unknown movement type %q", s)
	}
	return t, nil
}

type Movement struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Type      MovementType
	Amount    decimal.Decimal

	// Account balance right after the movement was applied
	Balance decimal.Decimal

	MovementDate time.Time
	CreatedAt    time.Time

	// Filled on reads only
	AccountNumber string
}
