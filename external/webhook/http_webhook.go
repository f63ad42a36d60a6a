package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/foxseedlab/assist/internal/webhook"
)

const (
	webhookRequestTimeout = 10 * time.Second
	webhookMaxRetries     = 2
)

// HTTPSender posts thread lifecycle events as JSON. Network failures and 5xx
// responses are retried; any other non-2xx status is final.
type HTTPSender struct {
	endpoint string
	client   *http.Client
	backoff  func() backoff.BackOff
}

func NewHTTPSender(endpoint string) webhook.Sender {
	return &HTTPSender{
		endpoint: endpoint,
		client:   &http.Client{Timeout: webhookRequestTimeout},
		backoff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 250 * time.Millisecond
			b.MaxElapsedTime = 0
			return backoff.WithMaxRetries(b, webhookMaxRetries)
		},
	}
}

func (s *HTTPSender) SendThreadEvent(ctx context.Context, payload webhook.ThreadEventPayload) error {
	if s.endpoint == "" {
		return nil
	}

	body, err := encodeThreadEvent(payload)
	if err != nil {
		return err
	}
	post := func() error { return s.post(ctx, body) }
	if err := backoff.Retry(post, backoff.WithContext(s.backoff(), ctx)); err != nil {
		return fmt.Errorf("deliver %s event: %w", payload.Event, err)
	}
	return nil
}

func encodeThreadEvent(payload webhook.ThreadEventPayload) ([]byte, error) {
	if payload.SchemaVersion == 0 {
		payload.SchemaVersion = webhook.ThreadEventSchemaVersion
	}
	// receivers expect an array, never null
	if payload.Tags == nil {
		payload.Tags = []string{}
	}
	return json.Marshal(payload)
}

func (s *HTTPSender) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode >= 500:
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	default:
		return backoff.Permanent(fmt.Errorf("webhook rejected event with status %d", resp.StatusCode))
	}
}
