package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nkiryanov/bankcore/internal/apperrors"
	"github.com/nkiryanov/bankcore/internal/balance"
	"github.com/nkiryanov/bankcore/internal/logger"
	"github.com/nkiryanov/bankcore/internal/models"
	"github.com/nkiryanov/bankcore/internal/repository"
	"github.com/nkiryanov/bankcore/internal/service/validate"
)

type customerValidator interface {
	// Has to return error wrapping apperrors.ErrCustomerValidation
	// if customer is unknown, inactive or could not be checked
	ValidateCustomer(ctx context.Context, customerID uuid.UUID) error
}

type eventSink interface {
	PublishAccountCreated(ctx context.Context, a models.Account)
	PublishAccountUpdated(ctx context.Context, a models.Account)
	PublishAccountDeleted(ctx context.Context, a models.Account)
}

type AccountService struct {
	storage   repository.Storage
	customers customerValidator
	events    eventSink
	logger    logger.Logger
}

func NewService(storage repository.Storage, customers customerValidator, events eventSink, l logger.Logger) *AccountService {
	return &AccountService{
		storage:   storage,
		customers: customers,
		events:    events,
		logger:    l.WithGroup("account"),
	}
}

type CreateAccountRequest struct {
	Number         string
	Type           models.AccountType
	InitialBalance decimal.Decimal
	CustomerID     uuid.UUID
}

// CreateAccount validates input and the owning customer, then stores the account
// with current balance equal to initial one
func (s *AccountService) CreateAccount(ctx context.Context, req CreateAccountRequest) (models.Account, error) {
	var account models.Account

	if err := validate.AccountNumber(req.Number); err != nil {
		return account, err
	}
	if !req.Type.Valid() {
		return account, fmt.Errorf("got %q: %w", req.Type, apperrors.ErrInvalidAccountType)
	}
	if req.InitialBalance.IsNegative() || !req.InitialBalance.Equal(req.InitialBalance.Truncate(balance.Places)) {
		return account, fmt.Errorf("initial balance %s: %w", req.InitialBalance, apperrors.ErrInvalidAmount)
	}

	if err := s.customers.ValidateCustomer(ctx, req.CustomerID); err != nil {
		if !errors.Is(err, apperrors.ErrCustomerValidation) {
			err = fmt.Errorf("%w: %w", apperrors.ErrCustomerValidation, err)
		}
		return account, err
	}

	exists, err := s.storage.Account().ExistsByNumber(ctx, req.Number)
	if err != nil {
		return account, s.fail("check account number", err)
	}
	if exists {
		return account, apperrors.ErrAccountAlreadyExists
	}

	account, err = s.storage.Account().CreateAccount(ctx, models.Account{
		Number:         req.Number,
		Type:           req.Type,
		InitialBalance: req.InitialBalance,
		CurrentBalance: req.InitialBalance,
		Status:         models.AccountStatusActive,
		CustomerID:     req.CustomerID,
	})
	if err != nil {
		return account, s.fail("create account", err)
	}

	s.logger.Info("Account created", "account_id", account.ID, "account_number", account.Number, "customer_id", account.CustomerID)
	s.events.PublishAccountCreated(ctx, account)

	return account, nil
}

func (s *AccountService) GetAccount(ctx context.Context, accountID uuid.UUID) (models.Account, error) {
	account, err := s.storage.Account().GetAccount(ctx, accountID, false)
	if err != nil {
		return account, s.fail("get account", err)
	}
	return account, nil
}

func (s *AccountService) GetAccountByNumber(ctx context.Context, number string) (models.Account, error) {
	account, err := s.storage.Account().GetAccountByNumber(ctx, number)
	if err != nil {
		return account, s.fail("get account by number", err)
	}
	return account, nil
}

func (s *AccountService) ListAccounts(ctx context.Context) ([]models.Account, error) {
	accounts, err := s.storage.Account().ListAccounts(ctx, repository.ListAccountsOpts{})
	if err != nil {
		return nil, s.fail("list accounts", err)
	}
	return accounts, nil
}

func (s *AccountService) ListCustomerAccounts(ctx context.Context, customerID uuid.UUID) ([]models.Account, error) {
	accounts, err := s.storage.Account().ListAccounts(ctx, repository.ListAccountsOpts{CustomerID: &customerID})
	if err != nil {
		return nil, s.fail("list customer accounts", err)
	}
	return accounts, nil
}

// UpdateAccount changes only provided fields
func (s *AccountService) UpdateAccount(ctx context.Context, accountID uuid.UUID, update models.AccountUpdate) (models.Account, error) {
	var account models.Account

	if update.Type.Set && !update.Type.Value.Valid() {
		return account, fmt.Errorf("got %q: %w", update.Type.Value, apperrors.ErrInvalidAccountType)
	}
	if update.Status.Set && !update.Status.Value.Valid() {
		return account, fmt.Errorf("got %q: %w", update.Status.Value, apperrors.ErrInvalidAccountStatus)
	}

	account, err := s.storage.Account().UpdateAccount(ctx, accountID, update)
	if err != nil {
		return account, s.fail("update account", err)
	}

	s.logger.Info("Account updated", "account_id", account.ID, "type", account.Type, "status", account.Status)
	s.events.PublishAccountUpdated(ctx, account)

	return account, nil
}

// DeactivateAccount marks account inactive, the account is never removed
func (s *AccountService) DeactivateAccount(ctx context.Context, accountID uuid.UUID) error {
	account, err := s.storage.Account().UpdateAccount(ctx, accountID, models.AccountUpdate{
		Status: models.Some(models.AccountStatusInactive),
	})
	if err != nil {
		return s.fail("deactivate account", err)
	}

	s.logger.Info("Account deactivated", "account_id", account.ID)
	s.events.PublishAccountDeleted(ctx, account)

	return nil
}

// HandleCustomerEvent reacts on customer lifecycle changes
func (s *AccountService) HandleCustomerEvent(ctx context.Context, e models.CustomerEvent) error {
	switch e.Type {
	case models.CustomerDeleted:
		accounts, err := s.storage.Account().DeactivateByCustomer(ctx, e.CustomerID)
		if err != nil {
			return s.fail("deactivate customer accounts", err)
		}

		s.logger.Info("Customer accounts deactivated", "customer_id", e.CustomerID, "count", len(accounts))
		for _, a := range accounts {
			s.events.PublishAccountDeleted(ctx, a)
		}

	case models.CustomerStatusChanged:
		if e.Status != nil && !*e.Status {
			s.logger.Warn("Customer became inactive, accounts are kept as is", "customer_id", e.CustomerID)
		}

	default:
		s.logger.Debug("Customer event ignored", "event_type", e.Type, "customer_id", e.CustomerID)
	}

	return nil
}

// fail passes known errors through and hides everything else behind apperrors.ErrInternal
func (s *AccountService) fail(op string, err error) error {
	if apperrors.Known(err) {
		return err
	}
	s.logger.Error("Unexpected error", "op", op, "error", err)
	return fmt.Errorf("%s: %w", op, apperrors.ErrInternal)
}
