package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nkiryanov/bankcore/internal/balance"
	"github.com/nkiryanov/bankcore/internal/handlers/render"
	"github.com/nkiryanov/bankcore/internal/logger"
	"github.com/nkiryanov/bankcore/internal/models"
	"github.com/nkiryanov/bankcore/internal/service/account"
)

type accountResponse struct {
	ID             uuid.UUID            `json:"id"`
	Number         string               `json:"account_number"`
	Type           models.AccountType   `json:"account_type"`
	InitialBalance string               `json:"initial_balance"`
	CurrentBalance string               `json:"current_balance"`
	Status         models.AccountStatus `json:"status"`
	CustomerID     uuid.UUID            `json:"customer_id"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

func money(d decimal.Decimal) string {
	return d.StringFixed(balance.Places)
}

func toAccountResponse(a models.Account) accountResponse {
	return accountResponse{
		ID:             a.ID,
		Number:         a.Number,
		Type:           a.Type,
		InitialBalance: money(a.InitialBalance),
		CurrentBalance: money(a.CurrentBalance),
		Status:         a.Status,
		CustomerID:     a.CustomerID,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func toAccountsResponse(accounts []models.Account) []accountResponse {
	resp := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		resp = append(resp, toAccountResponse(a))
	}
	return resp
}

func handleCreateAccount(accounts accountService, l logger.Logger) http.Handler {
	type request struct {
		Number         string          `json:"account_number" validate:"required,account_number"`
		Type           string          `json:"account_type" validate:"required,oneof=SAVINGS CHECKING"`
		InitialBalance decimal.Decimal `json:"initial_balance"`
		CustomerID     uuid.UUID       `json:"customer_id" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		a, err := accounts.CreateAccount(r.Context(), account.CreateAccountRequest{
			Number:         req.Number,
			Type:           models.AccountType(req.Type),
			InitialBalance: req.InitialBalance,
			CustomerID:     req.CustomerID,
		})
		if err != nil {
			serviceError(w, err, l)
			return
		}

		render.Created(w, toAccountResponse(a))
	})
}

func handleGetAccount(accounts accountService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathUUID(w, r, "id")
		if !ok {
			return
		}

		a, err := accounts.GetAccount(r.Context(), id)
		if err != nil {
			serviceError(w, err, l)
			return
		}

		render.JSON(w, toAccountResponse(a))
	})
}

func handleGetAccountByNumber(accounts accountService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a, err := accounts.GetAccountByNumber(r.Context(), r.PathValue("number"))
		if err != nil {
			serviceError(w, err, l)
			return
		}

		render.JSON(w, toAccountResponse(a))
	})
}

func handleListAccounts(accounts accountService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		list, err := accounts.ListAccounts(r.Context())
		if err != nil {
			serviceError(w, err, l)
			return
		}

		render.JSON(w, toAccountsResponse(list))
	})
}

func handleListCustomerAccounts(accounts accountService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		customerID, ok := pathUUID(w, r, "customerID")
		if !ok {
			return
		}

		list, err := accounts.ListCustomerAccounts(r.Context(), customerID)
		if err != nil {
			serviceError(w, err, l)
			return
		}

		render.JSON(w, toAccountsResponse(list))
	})
}

// Number, customer and balances are not accepted here: unknown fields fail decoding
func handleUpdateAccount(accounts accountService, l logger.Logger) http.Handler {
	type request struct {
		Type   models.Optional[models.AccountType]   `json:"account_type"`
		Status models.Optional[models.AccountStatus] `json:"status"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathUUID(w, r, "id")
		if !ok {
			return
		}

		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		a, err := accounts.UpdateAccount(r.Context(), id, models.AccountUpdate{Type: req.Type, Status: req.Status})
		if err != nil {
			serviceError(w, err, l)
			return
		}

		render.JSON(w, toAccountResponse(a))
	})
}

func handleDeactivateAccount(accounts accountService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathUUID(w, r, "id")
		if !ok {
			return
		}

		if err := accounts.DeactivateAccount(r.Context(), id); err != nil {
			serviceError(w, err, l)
			return
		}

		render.NoContent(w)
	})
}
