package lead

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrNoEndpoint is returned when no CRM endpoint is configured.
var ErrNoEndpoint = errors.New("no lead endpoint configured")

// Sender delivers one payload to the CRM integration endpoint.
type Sender interface {
	Send(ctx context.Context, requestID string, p Payload) error
}

// HTTPSender posts payloads as JSON.
type HTTPSender struct {
	Endpoint string
	APIKey   string
	Client   *http.Client
}

// Send implements Sender. Any non-2xx status is an error.
func (s *HTTPSender) Send(ctx context.Context, requestID string, p Payload) error {
	if s.Endpoint == "" {
		return ErrNoEndpoint
	}

	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding lead: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building lead request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}
	if s.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.APIKey)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("sending lead: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("lead endpoint returned %s: %s", resp.Status, bytes.TrimSpace(msg))
	}
	return nil
}
