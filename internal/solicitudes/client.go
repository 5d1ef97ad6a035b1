package solicitudes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/NextStop-25-26J/nextstop-gateway/internal/solicitudes/domain"
)

// Client handles communication with the solicitudes microservice.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new solicitudes client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// CreateResponse is the acknowledgement for a new solicitud. The service
// may answer with just a message and optionally the assigned id.
type CreateResponse struct {
	ID      int64  `json:"id,omitempty"`
	Mensaje string `json:"mensaje,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Create submits a new place proposal.
func (c *Client) Create(ctx context.Context, create domain.CreateSolicitud) (*CreateResponse, error) {
	payload, err := json.Marshal(create)
	if err != nil {
		return nil, fmt.Errorf("marshal solicitud: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/solicitudes/", bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("solicitudes service request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("solicitudes service returned status %d: %s", resp.StatusCode, string(body))
	}

	var ack CreateResponse
	if err := json.Unmarshal(body, &ack); err != nil {
		return nil, fmt.Errorf("unmarshal create response: %w", err)
	}
	return &ack, nil
}

// ListByEstado fetches solicitudes in one state: pendientes, aceptadas or
// rechazadas (the service exposes one path per state).
func (c *Client) ListByEstado(ctx context.Context, estado string) ([]domain.Solicitud, error) {
	return c.list(ctx, fmt.Sprintf("%s/solicitudes/%s", c.baseURL, estado))
}

// ListByUser fetches the solicitudes submitted by one user, optionally
// filtered by estado.
func (c *Client) ListByUser(ctx context.Context, email, estado string) ([]domain.Solicitud, error) {
	reqURL := fmt.Sprintf("%s/solicitudes/usuario/%s", c.baseURL, url.PathEscape(email))
	if estado != "" {
		reqURL += "?estado=" + url.QueryEscape(estado)
	}
	return c.list(ctx, reqURL)
}

func (c *Client) list(ctx context.Context, reqURL string) ([]domain.Solicitud, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("solicitudes service request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("solicitudes service returned status %d: %s", resp.StatusCode, string(body))
	}

	var items []domain.Solicitud
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("unmarshal solicitudes: %w", err)
	}
	return items, nil
}

// Approve accepts a solicitud. The accepted place is materialized by a
// separate service; the gateway only reflects the state change.
func (c *Client) Approve(ctx context.Context, id int64) error {
	return c.decide(ctx, id, "aprobar")
}

// Reject declines a solicitud.
func (c *Client) Reject(ctx context.Context, id int64) error {
	return c.decide(ctx, id, "rechazar")
}

func (c *Client) decide(ctx context.Context, id int64, action string) error {
	reqURL := fmt.Sprintf("%s/solicitudes/%d/%s", c.baseURL, id, action)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, reqURL, bytes.NewBufferString("{}"))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("solicitudes service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrSolicitudNotFound
	}
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("solicitudes service returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
