// Package notify sends outbound WhatsApp messages through an HTTP gateway
// (a WAHA-style session bridge). The dispatcher only depends on the Sender
// interface, so the transport can be swapped or faked in tests.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Sender delivers one message to one phone number (with country code).
type Sender interface {
	Send(ctx context.Context, phone, message string) error
}

// WhatsAppGateway posts messages to a configured HTTP gateway endpoint,
// pausing Wait between sends so the underlying session is not throttled.
type WhatsAppGateway struct {
	url    string
	token  string
	wait   time.Duration
	client *http.Client
}

func NewWhatsAppGateway(url, token string, wait time.Duration) *WhatsAppGateway {
	return &WhatsAppGateway{
		url:    url,
		token:  token,
		wait:   wait,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

type sendRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

func (g *WhatsAppGateway) Send(ctx context.Context, phone, message string) error {
	body, err := json.Marshal(sendRequest{Phone: "+" + phone, Message: message})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	// Fixed pacing between consecutive sends.
	if g.wait > 0 {
		select {
		case <-time.After(g.wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}
