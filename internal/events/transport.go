package events

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/nkiryanov/bankcore/internal/logger"
	"github.com/nkiryanov/bankcore/internal/models"
)

// WebhookTransport posts every event as JSON to the URL
type WebhookTransport struct {
	URL string

	client *http.Client
}

func NewWebhookTransport(url string) *WebhookTransport {
	return &WebhookTransport{
		URL:    url,
		client: &http.Client{},
	}
}

func (t *WebhookTransport) Send(ctx context.Context, event models.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Event-Type", string(event.Type))
	req.Header.Set("X-Event-ID", event.ID.String())

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close() // nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("subscriber responded with status code %d", resp.StatusCode)
	}

	return nil
}

// LogTransport only writes events to the log.
// Used when no subscriber is configured
type LogTransport struct {
	Logger logger.Logger
}

func (t *LogTransport) Send(_ context.Context, event models.Event) error {
	t.Logger.Info("Event", "event_id", event.ID, "event_type", event.Type, "payload", event.Payload)
	return nil
}
