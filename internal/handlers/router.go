package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nkiryanov/bankcore/internal/handlers/middleware"
	"github.com/nkiryanov/bankcore/internal/logger"
	"github.com/nkiryanov/bankcore/internal/metrics"
	"github.com/nkiryanov/bankcore/internal/models"
	"github.com/nkiryanov/bankcore/internal/service/account"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

type Services struct {
	Accounts  accountService
	Movements movementService
	Reports   reportService
	DB        pinger
}

func NewRouter(s Services, logger logger.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("POST /api/v1/accounts", handleCreateAccount(s.Accounts, logger))
	mux.Handle("GET /api/v1/accounts", handleListAccounts(s.Accounts, logger))
	mux.Handle("GET /api/v1/accounts/{id}", handleGetAccount(s.Accounts, logger))
	mux.Handle("GET /api/v1/accounts/number/{number}", handleGetAccountByNumber(s.Accounts, logger))
	mux.Handle("GET /api/v1/accounts/customer/{customerID}", handleListCustomerAccounts(s.Accounts, logger))
	mux.Handle("PUT /api/v1/accounts/{id}", handleUpdateAccount(s.Accounts, logger))
	mux.Handle("DELETE /api/v1/accounts/{id}", handleDeactivateAccount(s.Accounts, logger))

	mux.Handle("POST /api/v1/movements", handleCreateMovement(s.Movements, logger))
	mux.Handle("GET /api/v1/movements", handleListMovements(s.Movements, logger))
	mux.Handle("GET /api/v1/movements/{id}", handleGetMovement(s.Movements, logger))
	mux.Handle("GET /api/v1/movements/account/{accountID}", handleListAccountMovements(s.Movements, logger))
	mux.Handle("PUT /api/v1/movements/{id}", handleUpdateMovement(s.Movements, logger))
	mux.Handle("DELETE /api/v1/movements/{id}", handleDeleteMovement(s.Movements, logger))

	mux.Handle("GET /api/v1/reports/{customerID}", handleStatement(s.Reports, logger))

	mux.Handle("POST /api/v1/events/customers", handleCustomerEvent(s.Accounts, logger))

	mux.Handle("GET /health", handleHealth(s.DB, logger))
	mux.Handle("GET /metrics", metrics.Handler())

	return chain(mux,
		middleware.LoggerMiddleware(logger),
		middleware.MetricsMiddleware(metrics.HTTPRequest),
	)
}

type accountService interface {
	CreateAccount(ctx context.Context, req account.CreateAccountRequest) (models.Account, error)
	GetAccount(ctx context.Context, accountID uuid.UUID) (models.Account, error)
	GetAccountByNumber(ctx context.Context, number string) (models.Account, error)
	ListAccounts(ctx context.Context) ([]models.Account, error)
	ListCustomerAccounts(ctx context.Context, customerID uuid.UUID) ([]models.Account, error)
	UpdateAccount(ctx context.Context, accountID uuid.UUID, update models.AccountUpdate) (models.Account, error)
	DeactivateAccount(ctx context.Context, accountID uuid.UUID) error
	HandleCustomerEvent(ctx context.Context, e models.CustomerEvent) error
}

type movementService interface {
	CreateMovement(ctx context.Context, accountID uuid.UUID, t models.MovementType, amount decimal.Decimal) (models.Movement, error)
	UpdateMovement(ctx context.Context, movementID uuid.UUID, t models.MovementType, amount decimal.Decimal) (models.Movement, error)
	DeleteMovement(ctx context.Context, movementID uuid.UUID) error
	GetMovement(ctx context.Context, movementID uuid.UUID) (models.Movement, error)
	ListMovements(ctx context.Context) ([]models.Movement, error)
	ListAccountMovements(ctx context.Context, accountID uuid.UUID) ([]models.Movement, error)
}

type reportService interface {
	Statement(ctx context.Context, customerID uuid.UUID, period models.StatementPeriod) ([]models.AccountStatement, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}
