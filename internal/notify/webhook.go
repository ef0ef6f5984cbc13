package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// PushPayloadJSON posts one alert payload (a Kafka message value) to the
// delivery webhook. The webhook is whatever bridge actually reaches the
// contact (messaging app, SMS gateway); the core only hands it the payload.
// Returns an error if the request fails or the sink returns non-2xx.
func PushPayloadJSON(ctx context.Context, webhookURL string, rawJSON []byte) error {
	if webhookURL == "" {
		return fmt.Errorf("notify: webhook URL is empty")
	}
	// Re-encode through Payload so malformed queue entries are rejected here
	// rather than forwarded downstream.
	var p Payload
	if err := json.Unmarshal(rawJSON, &p); err != nil {
		return fmt.Errorf("notify: malformed payload: %w", err)
	}
	body, err := json.Marshal(&p)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notify: webhook returned %s", resp.Status)
	}
	return nil
}
