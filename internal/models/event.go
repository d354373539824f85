package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EventType string

const (
	EventMovementCreated EventType = "MOVEMENT_CREATED"
	EventAccountCreated  EventType = "ACCOUNT_CREATED"
	EventAccountUpdated  EventType = "ACCOUNT_UPDATED"
	EventAccountDeleted  EventType = "ACCOUNT_DELETED"
)

// Event is the envelope sent to subscribers
type Event struct {
	ID         uuid.UUID `json:"event_id"`
	Type       EventType `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

type MovementEvent struct {
	MovementID    uuid.UUID       `json:"movement_id"`
	AccountID     uuid.UUID       `json:"account_id"`
	AccountNumber string          `json:"account_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	Type          MovementType    `json:"movement_type"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	MovementDate  time.Time       `json:"movement_date"`
}

type AccountEvent struct {
	AccountID      uuid.UUID       `json:"account_id"`
	AccountNumber  string          `json:"account_number"`
	AccountType    AccountType     `json:"account_type"`
	CustomerID     uuid.UUID       `json:"customer_id"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	Status         AccountStatus   `json:"status"`
}

func NewAccountEvent(a Account) AccountEvent {
	return AccountEvent{
		AccountID:      a.ID,
		AccountNumber:  a.Number,
		AccountType:    a.Type,
		CustomerID:     a.CustomerID,
		InitialBalance: a.InitialBalance,
		CurrentBalance: a.CurrentBalance,
		Status:         a.Status,
	}
}

// Inbound notifications from the customer service
const (
	CustomerDeleted       = "CUSTOMER_DELETED"
	CustomerStatusChanged = "CUSTOMER_STATUS_CHANGED"
)

type CustomerEvent struct {
	Type       string
	CustomerID uuid.UUID
	Status     *bool
}
