package metrics

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/bankcore/internal/apperrors"
)

func TestMovement(t *testing.T) {
	before := testutil.ToFloat64(movementsTotal.WithLabelValues(OpCreate, "DEBIT", "insufficient_balance"))

	Movement(OpCreate, "DEBIT", fmt.Errorf("debit: %w", apperrors.ErrInsufficientBalance))

	after := testutil.ToFloat64(movementsTotal.WithLabelValues(OpCreate, "DEBIT", "insufficient_balance"))
	require.Equal(t, before+1, after)
}

func TestResult(t *testing.T) {
	tests := []struct {
		err      error
		expected string
	}{
		{nil, "ok"},
		{apperrors.ErrInsufficientBalance, "insufficient_balance"},
		{apperrors.ErrAccountNotFound, "not_found"},
		{apperrors.ErrMovementNotFound, "not_found"},
		{apperrors.ErrInvalidAmount, "invalid"},
		{apperrors.ErrInvalidMovementType, "invalid"},
		{errors.New("boom"), "error"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			require.Equal(t, tt.expected, result(tt.err))
		})
	}
}

func TestHandler(t *testing.T) {
	Event("MOVEMENT_CREATED", EventSent)
	HTTPRequest(http.MethodGet, "GET /health", http.StatusOK, 10*time.Millisecond)

	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	defer resp.Body.Close() // nolint:errcheck

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), `bankcore_events_total{result="sent",type="MOVEMENT_CREATED"}`)
	require.Contains(t, string(body), `bankcore_http_request_duration_seconds_count{method="GET",route="GET /health",status="200"}`)
}
