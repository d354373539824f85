package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/nkiryanov/bankcore/internal/handlers/render"
	"github.com/nkiryanov/bankcore/internal/logger"
	"github.com/nkiryanov/bankcore/internal/models"
)

// handleCustomerEvent receives notifications pushed by the customer service
func handleCustomerEvent(accounts accountService, l logger.Logger) http.Handler {
	type request struct {
		EventType  string    `json:"event_type" validate:"required"`
		CustomerID uuid.UUID `json:"customer_id" validate:"required"`
		Status     *bool     `json:"status"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		err = accounts.HandleCustomerEvent(r.Context(), models.CustomerEvent{
			Type:       req.EventType,
			CustomerID: req.CustomerID,
			Status:     req.Status,
		})
		if err != nil {
			serviceError(w, err, l)
			return
		}

		render.Accepted(w, map[string]string{"status": "accepted"})
	})
}
