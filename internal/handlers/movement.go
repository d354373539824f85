package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nkiryanov/bankcore/internal/apperrors"
	"github.com/nkiryanov/bankcore/internal/handlers/render"
	"github.com/nkiryanov/bankcore/internal/logger"
	"github.com/nkiryanov/bankcore/internal/models"
)

type movementResponse struct {
	ID            uuid.UUID           `json:"id"`
	AccountID     uuid.UUID           `json:"account_id"`
	AccountNumber string              `json:"account_number,omitempty"`
	Type          models.MovementType `json:"movement_type"`
	Amount        string              `json:"amount"`
	Balance       string              `json:"balance"`
	MovementDate  time.Time           `json:"movement_date"`
}

func toMovementResponse(m models.Movement) movementResponse {
	return movementResponse{
		ID:            m.ID,
		AccountID:     m.AccountID,
		AccountNumber: m.AccountNumber,
		Type:          m.Type,
		Amount:        money(m.Amount),
		Balance:       money(m.Balance),
		MovementDate:  m.MovementDate,
	}
}

func toMovementsResponse(movements []models.Movement) []movementResponse {
	resp := make([]movementResponse, 0, len(movements))
	for _, m := range movements {
		resp = append(resp, toMovementResponse(m))
	}
	return resp
}

type movementRequest struct {
	Type   string          `json:"movement_type" validate:"required"`
	Amount decimal.Decimal `json:"amount"`
}

// movementType renders unprocessable entity on unknown type
func movementType(w http.ResponseWriter, s string) (models.MovementType, bool) {
	t, err := models.ParseMovementType(s)
	if err != nil {
		render.ServiceError(w, apperrors.ErrInvalidMovementType.Error(), http.StatusUnprocessableEntity)
		return t, false
	}
	return t, true
}

func handleCreateMovement(movements movementService, l logger.Logger) http.Handler {
	type request struct {
		AccountID uuid.UUID `json:"account_id" validate:"required"`
		movementRequest
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		t, ok := movementType(w, req.Type)
		if !ok {
			return
		}

		m, err := movements.CreateMovement(r.Context(), req.AccountID, t, req.Amount)
		if err != nil {
			serviceError(w, err, l)
			return
		}

		render.Created(w, toMovementResponse(m))
	})
}

func handleGetMovement(movements movementService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathUUID(w, r, "id")
		if !ok {
			return
		}

		m, err := movements.GetMovement(r.Context(), id)
		if err != nil {
			serviceError(w, err, l)
			return
		}

		render.JSON(w, toMovementResponse(m))
	})
}

func handleListMovements(movements movementService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		list, err := movements.ListMovements(r.Context())
		if err != nil {
			serviceError(w, err, l)
			return
		}

		render.JSON(w, toMovementsResponse(list))
	})
}

func handleListAccountMovements(movements movementService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := pathUUID(w, r, "accountID")
		if !ok {
			return
		}

		list, err := movements.ListAccountMovements(r.Context(), accountID)
		if err != nil {
			serviceError(w, err, l)
			return
		}

		render.JSON(w, toMovementsResponse(list))
	})
}

func handleUpdateMovement(movements movementService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathUUID(w, r, "id")
		if !ok {
			return
		}

		req, err := render.BindAndValidate[movementRequest](w, r)
		if err != nil {
			return
		}

		t, ok := movementType(w, req.Type)
		if !ok {
			return
		}

		m, err := movements.UpdateMovement(r.Context(), id, t, req.Amount)
		if err != nil {
			serviceError(w, err, l)
			return
		}

		render.JSON(w, toMovementResponse(m))
	})
}

func handleDeleteMovement(movements movementService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathUUID(w, r, "id")
		if !ok {
			return
		}

		if err := movements.DeleteMovement(r.Context(), id); err != nil {
			serviceError(w, err, l)
			return
		}

		render.NoContent(w)
	})
}
