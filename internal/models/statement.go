package models

import (
	"time"

	"github.com/google/uuid"
)

type Customer struct {
	ID     uuid.UUID
	Name   string
	Active bool
}

type AccountStatement struct {
	CustomerName string
	Account      Account

	// Movements made within the requested period, newest first
	Movements []Movement
}

type StatementPeriod struct {
	From time.Time
	To   time.Time
}
