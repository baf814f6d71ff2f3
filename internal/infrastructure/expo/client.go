package expo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-push-api/internal/config"
	"github.com/go-push-api/internal/domain"
)

// Client posts push messages to an Expo-compatible push endpoint.
// The endpoint answers with a per-message receipt; "ok" in the receipt's
// data.status marks the message as accepted for delivery.
type Client struct {
	httpClient *http.Client
	url        string
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		// Client-level timeout backs up the per-call context deadline, so a
		// hung transport can never stall a broadcast indefinitely.
		httpClient: &http.Client{Timeout: cfg.PushTimeout},
		url:        cfg.ExpoPushURL,
	}
}

func (c *Client) Send(ctx context.Context, msg domain.PushMessage) (*domain.PushReceipt, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal push message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("push send: %w", err)
	}
	defer resp.Body.Close()

	var receipt domain.PushReceipt
	if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil {
		return nil, fmt.Errorf("decode push receipt: %w", err)
	}
	return &receipt, nil
}
