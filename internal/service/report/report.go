package report

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nkiryanov/bankcore/internal/apperrors"
	"github.com/nkiryanov/bankcore/internal/logger"
	"github.com/nkiryanov/bankcore/internal/models"
	"github.com/nkiryanov/bankcore/internal/repository"
)

type customerGetter interface {
	GetCustomer(ctx context.Context, customerID uuid.UUID) (models.Customer, error)
}

type ReportService struct {
	storage   repository.Storage
	customers customerGetter
	logger    logger.Logger
}

func NewService(storage repository.Storage, customers customerGetter, l logger.Logger) *ReportService {
	return &ReportService{
		storage:   storage,
		customers: customers,
		logger:    l.WithGroup("report"),
	}
}

// Statement lists every customer account with its movements made within the period.
// Customer name is best effort: empty if the customer service can't answer
func (s *ReportService) Statement(ctx context.Context, customerID uuid.UUID, period models.StatementPeriod) ([]models.AccountStatement, error) {
	if !period.From.IsZero() && !period.To.IsZero() && period.From.After(period.To) {
		return nil, apperrors.ErrInvalidPeriod
	}

	accounts, err := s.storage.Account().ListAccounts(ctx, repository.ListAccountsOpts{CustomerID: &customerID})
	if err != nil {
		return nil, s.fail("list accounts", err)
	}

	movements, err := s.storage.Movement().ListMovements(ctx, repository.ListMovementsOpts{
		CustomerID: &customerID,
		From:       period.From,
		To:         period.To,
	})
	if err != nil {
		return nil, s.fail("list movements", err)
	}

	var name string
	if len(accounts) > 0 {
		customer, err := s.customers.GetCustomer(ctx, customerID)
		if err != nil {
			s.logger.Warn("Customer name is not available", "customer_id", customerID, "error", err)
		}
		name = customer.Name
	}

	byAccount := make(map[uuid.UUID][]models.Movement, len(accounts))
	for _, m := range movements {
		byAccount[m.AccountID] = append(byAccount[m.AccountID], m)
	}

	statements := make([]models.AccountStatement, 0, len(accounts))
	for _, a := range accounts {
		accountMovements := byAccount[a.ID]
		if accountMovements == nil {
			accountMovements = []models.Movement{}
		}

		statements = append(statements, models.AccountStatement{
			CustomerName: name,
			Account:      a,
			Movements:    accountMovements,
		})
	}

	return statements, nil
}

func (s *ReportService) fail(op string, err error) error {
	if apperrors.Known(err) {
		return err
	}
	s.logger.Error("Unexpected error", "op", op, "error", err)
	return fmt.Errorf("%s: %w", op, apperrors.ErrInternal)
}
