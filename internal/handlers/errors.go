package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/nkiryanov/bankcore/internal/apperrors"
	"github.com/nkiryanov/bankcore/internal/handlers/render"
	"github.com/nkiryanov/bankcore/internal/logger"
)

// serviceError renders err as service error with matching status code
func serviceError(w http.ResponseWriter, err error, l logger.Logger) {
	switch {
	case errors.Is(err, apperrors.ErrAccountNotFound):
		render.ServiceError(w, "Account not found", http.StatusNotFound)
	case errors.Is(err, apperrors.ErrMovementNotFound):
		render.ServiceError(w, "Movement not found", http.StatusNotFound)
	case errors.Is(err, apperrors.ErrAccountAlreadyExists):
		render.ServiceError(w, "Account with this number already exists", http.StatusConflict)
	case errors.Is(err, apperrors.ErrInsufficientBalance):
		render.ServiceError(w, "Insufficient balance", http.StatusUnprocessableEntity)
	case errors.Is(err, apperrors.ErrCustomerValidation):
		render.ServiceError(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, apperrors.ErrInvalidAmount),
		errors.Is(err, apperrors.ErrInvalidMovementType),
		errors.Is(err, apperrors.ErrInvalidAccountNumber),
		errors.Is(err, apperrors.ErrInvalidAccountType),
		errors.Is(err, apperrors.ErrInvalidAccountStatus):
		render.ServiceError(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, apperrors.ErrInvalidPeriod):
		render.ServiceError(w, "Start date must not be after end date", http.StatusBadRequest)
	default:
		l.Error("Request failed", "error", err)
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
	}
}

// pathUUID reads uuid path value or renders bad request
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		render.ServiceError(w, "Invalid "+name, http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}
