// Package notify delivers one-time codes out of band. The only shipped
// channel posts to a Discord webhook; the transport contract is small so
// alternative channels can be swapped in.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Channel delivers a one-time code for username. Implementations must be
// safe for concurrent use; the caller dispatches Send on a detached
// goroutine and only logs failures. There is no redelivery.
type Channel interface {
	Send(ctx context.Context, username, code string) error
}

// Discord posts login codes to a Discord webhook URL.
type Discord struct {
	url    string
	client *http.Client
}

// NewDiscord creates a Discord channel for the given webhook URL.
func NewDiscord(url string) *Discord {
	return &Discord{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type discordMessage struct {
	Content string `json:"content"`
}

// Send posts the code. Non-2xx responses are reported as errors; the
// message content names the user so a shared channel stays auditable.
func (d *Discord) Send(ctx context.Context, username, code string) error {
	body, err := json.Marshal(discordMessage{
		Content: fmt.Sprintf("Login code for %s: **%s**", username, code),
	})
	if err != nil {
		return fmt.Errorf("encoding webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
