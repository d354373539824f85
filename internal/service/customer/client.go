package customer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nkiryanov/bankcore/internal/apperrors"
	"github.com/nkiryanov/bankcore/internal/logger"
	"github.com/nkiryanov/bankcore/internal/models"
)

const (
	CodeNotFound    = "not-found"
	CodeInactive    = "inactive"
	CodeUnavailable = "unavailable"
)

const defaultTimeout = 5 * time.Second

// Error is returned for every failed customer check.
// It matches apperrors.ErrCustomerValidation with errors.Is
type Error struct {
	Code       string
	CustomerID uuid.UUID
	Err        error
}

func (e *Error) Error() string {
	switch e.Code {
	case CodeNotFound:
		return fmt.Sprintf("customer not found with id: %s", e.CustomerID)
	case CodeInactive:
		return fmt.Sprintf("customer is inactive with id: %s", e.CustomerID)
	default:
		return fmt.Sprintf("unable to validate customer with id: %s: %v", e.CustomerID, e.Err)
	}
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{apperrors.ErrCustomerValidation}
	}
	return []error{apperrors.ErrCustomerValidation, e.Err}
}

type Config struct {
	// Customer service base address, like http://localhost:8001
	Addr string

	// Whole request deadline. Default is used if not set
	Timeout time.Duration

	// If set every request carries a signed service token
	SecretKey string
}

type Client struct {
	addr    string
	timeout time.Duration
	tokens  *tokenSigner

	client *http.Client
	logger logger.Logger
}

func NewClient(cfg Config, l logger.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	var tokens *tokenSigner
	if cfg.SecretKey != "" {
		tokens = newTokenSigner(cfg.SecretKey)
	}

	return &Client{
		addr:    strings.TrimRight(cfg.Addr, "/"),
		timeout: cfg.Timeout,
		tokens:  tokens,
		client:  &http.Client{},
		logger:  l,
	}
}

type customerResponse struct {
	ID     string `json:"customer_id"`
	Name   string `json:"name"`
	Status *bool  `json:"status"`
}

// ValidateCustomer succeeds only if the customer exists and is active
func (c *Client) ValidateCustomer(ctx context.Context, customerID uuid.UUID) error {
	c.logger.Debug("Validating customer", "customer_id", customerID)

	customer, err := c.GetCustomer(ctx, customerID)
	if err != nil {
		return err
	}

	if !customer.Active {
		c.logger.Info("Customer is inactive", "customer_id", customerID)
		return &Error{Code: CodeInactive, CustomerID: customerID}
	}

	return nil
}

func (c *Client) GetCustomer(ctx context.Context, customerID uuid.UUID) (models.Customer, error) {
	var customer models.Customer

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	unavailable := func(err error) (models.Customer, error) {
		c.logger.Warn("Customer service request failed", "customer_id", customerID, "error", err)
		return customer, &Error{Code: CodeUnavailable, CustomerID: customerID, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.addr+"/api/v1/customers/"+customerID.String(), nil)
	if err != nil {
		return unavailable(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	if c.tokens != nil {
		token, err := c.tokens.Sign(time.Now())
		if err != nil {
			return unavailable(err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return unavailable(fmt.Errorf("failed to send request: %w", err))
	}
	defer resp.Body.Close() // nolint:errcheck

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		c.logger.Info("Customer not found", "customer_id", customerID)
		return customer, &Error{Code: CodeNotFound, CustomerID: customerID}
	default:
		return unavailable(fmt.Errorf("unexpected status code %d", resp.StatusCode))
	}

	var body customerResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return unavailable(fmt.Errorf("failed to decode response: %w", err))
	}
	if body.Status == nil {
		return unavailable(errors.New("response has no customer status"))
	}

	customer = models.Customer{
		ID:     customerID,
		Name:   body.Name,
		Active: *body.Status,
	}
	return customer, nil
}
