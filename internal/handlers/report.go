package handlers

import (
	"net/http"
	"time"

	"github.com/nkiryanov/bankcore/internal/handlers/render"
	"github.com/nkiryanov/bankcore/internal/logger"
	"github.com/nkiryanov/bankcore/internal/models"
)

const dateLayout = time.DateOnly

type statementResponse struct {
	CustomerName string             `json:"customer_name"`
	Account      accountResponse    `json:"account"`
	Movements    []movementResponse `json:"movements"`
}

// parseDate accepts RFC3339 or a plain date.
// A plain end date covers the whole day.
func parseDate(s string, end bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}

	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	if end {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

func handleStatement(reports reportService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		customerID, ok := pathUUID(w, r, "customerID")
		if !ok {
			return
		}

		q := r.URL.Query()
		if q.Get("startDate") == "" || q.Get("endDate") == "" {
			render.ServiceError(w, "Both startDate and endDate are required", http.StatusBadRequest)
			return
		}

		from, err := parseDate(q.Get("startDate"), false)
		if err != nil {
			render.ServiceError(w, "Invalid startDate", http.StatusBadRequest)
			return
		}
		to, err := parseDate(q.Get("endDate"), true)
		if err != nil {
			render.ServiceError(w, "Invalid endDate", http.StatusBadRequest)
			return
		}

		statements, err := reports.Statement(r.Context(), customerID, models.StatementPeriod{From: from, To: to})
		if err != nil {
			serviceError(w, err, l)
			return
		}

		resp := make([]statementResponse, 0, len(statements))
		for _, s := range statements {
			resp = append(resp, statementResponse{
				CustomerName: s.CustomerName,
				Account:      toAccountResponse(s.Account),
				Movements:    toMovementsResponse(s.Movements),
			})
		}

		render.JSON(w, resp)
	})
}
