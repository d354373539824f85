// Package metrics holds prometheus collectors of the service.
// Collectors are registered in the default registry and served by promhttp.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nkiryanov/bankcore/internal/apperrors"
)

const namespace = "bankcore"

// Movement operations
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Event delivery results
const (
	EventSent    = "sent"
	EventFailed  = "failed"
	EventDropped = "dropped"
)

var (
	movementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "movement_operations_total",
		Help:      "Movement operations, labeled by operation, movement type and result",
	}, []string{"operation", "type", "result"})

	eventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_total",
		Help:      "Published lifecycle events, labeled by event type and delivery result",
	}, []string{"type", "result"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Latency distribution of HTTP requests",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"method", "route", "status"})
)

// Movement counts a finished movement operation
func Movement(operation string, movementType string, err error) {
	movementsTotal.WithLabelValues(operation, movementType, result(err)).Inc()
}

func Event(eventType string, result string) {
	eventsTotal.WithLabelValues(eventType, result).Inc()
}

func HTTPRequest(method string, route string, status int, d time.Duration) {
	httpRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

func Handler() http.Handler {
	return promhttp.Handler()
}

// result gives a low cardinality label for the operation error
func result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, apperrors.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, apperrors.ErrAccountNotFound), errors.Is(err, apperrors.ErrMovementNotFound):
		return "not_found"
	case errors.Is(err, apperrors.ErrInvalidAmount), errors.Is(err, apperrors.ErrInvalidMovementType):
		return "invalid"
	default:
		return "error"
	}
}
