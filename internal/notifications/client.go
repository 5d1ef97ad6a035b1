// Package notifications wraps the notifications microservice. Notification
// lists are never cached: every read goes to the service, and mutations are
// followed by a re-fetch at the handler layer.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Notification is a per-user moderation message. The wire format is the
// notification service's Spanish vocabulary; estado is pendiente or leida.
type Notification struct {
	ID        int64  `json:"id"`
	Mensaje   string `json:"mensaje"`
	Tipo      string `json:"tipo"`
	Estado    string `json:"estado"`
	UserEmail string `json:"user_email"`
	PlaceID   *int64 `json:"place_id"`
	CreatedAt string `json:"created_at"`
}

// Unread reports whether the notification is still pending.
func (n Notification) Unread() bool {
	return n.Estado == "pendiente"
}

// Client handles communication with the notifications microservice.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new notifications client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// ListByUser fetches all notifications addressed to an email.
func (c *Client) ListByUser(ctx context.Context, email string) ([]Notification, error) {
	reqURL := fmt.Sprintf("%s/notificaciones/usuario/%s", c.baseURL, url.PathEscape(email))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("notifications service request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("notifications service returned status %d: %s", resp.StatusCode, string(body))
	}

	var notifs []Notification
	if err := json.Unmarshal(body, &notifs); err != nil {
		return nil, fmt.Errorf("unmarshal notifications: %w", err)
	}
	return notifs, nil
}

// MarkRead marks a notification as read.
func (c *Client) MarkRead(ctx context.Context, id int64) error {
	reqURL := fmt.Sprintf("%s/notificaciones/%d/leer", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notifications service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("notifications service returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Delete removes a notification.
func (c *Client) Delete(ctx context.Context, id int64) error {
	reqURL := fmt.Sprintf("%s/notificaciones/%d", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notifications service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("notifications service returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
