// Package moderation wraps the moderation microservice, which owns the
// review queue and aggregate dashboard numbers.
package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/NextStop-25-26J/nextstop-gateway/internal/normalize"
	placedomain "github.com/NextStop-25-26J/nextstop-gateway/internal/places/domain"
)

// ActionRequest asks the moderation service to approve or reject a place.
type ActionRequest struct {
	PlaceID string `json:"placeId"`
	Action  string `json:"action"` // approve or reject
	Reason  string `json:"reason,omitempty"`
}

// ActionResponse is the moderation service's acknowledgement.
type ActionResponse struct {
	PlaceID     string `json:"placeId"`
	Status      string `json:"status"`
	ModeratedBy string `json:"moderatedBy"`
	ModeratedAt string `json:"moderatedAt"`
}

// DashboardStats are the aggregate counters for the admin dashboard.
type DashboardStats struct {
	TotalPlaces    int `json:"totalPlaces"`
	PendingPlaces  int `json:"pendingPlaces"`
	ApprovedPlaces int `json:"approvedPlaces"`
	RejectedPlaces int `json:"rejectedPlaces"`
	TotalUsers     int `json:"totalUsers,omitempty"`
}

// Client handles communication with the moderation microservice.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new moderation client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// pendingDTO mirrors the moderation service's pending-queue entries.
type pendingDTO struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	PhotoURL    string   `json:"photoUrl"`
	Photos      []string `json:"photos"`
	Status      string   `json:"status"`
	CreatedBy   string   `json:"createdBy"`
	CreatedAt   string   `json:"createdAt"`
}

// Pending fetches the moderation queue, normalized into canonical places.
func (c *Client) Pending(ctx context.Context) ([]placedomain.Place, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/moderation/pending", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("moderation service request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("moderation service returned status %d: %s", resp.StatusCode, string(body))
	}

	var dtos []pendingDTO
	if err := json.Unmarshal(body, &dtos); err != nil {
		return nil, fmt.Errorf("unmarshal pending queue: %w", err)
	}

	queue := make([]placedomain.Place, 0, len(dtos))
	for _, d := range dtos {
		category := normalize.Category(d.Category)
		if category == "" {
			category = normalize.Category(normalize.CategoryFromDescription(d.Description))
		}
		createdAt := time.Now()
		if t, err := time.Parse(time.RFC3339, d.CreatedAt); err == nil {
			createdAt = t
		}
		queue = append(queue, placedomain.Place{
			ID:          d.ID,
			Name:        d.Name,
			Description: d.Description,
			Category:    category,
			PhotoURL:    d.PhotoURL,
			Photos:      d.Photos,
			Status:      normalize.Status(d.Status),
			CreatedBy:   d.CreatedBy,
			CreatedAt:   createdAt,
		})
	}
	return queue, nil
}

// Act submits an approve/reject decision.
func (c *Client) Act(ctx context.Context, action ActionRequest) (*ActionResponse, error) {
	payload, err := json.Marshal(action)
	if err != nil {
		return nil, fmt.Errorf("marshal action: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/moderation/action", bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("moderation service request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("moderation service returned status %d: %s", resp.StatusCode, string(body))
	}

	var ack ActionResponse
	if err := json.Unmarshal(body, &ack); err != nil {
		return nil, fmt.Errorf("unmarshal action response: %w", err)
	}
	return &ack, nil
}

// Stats fetches the aggregate dashboard counters.
func (c *Client) Stats(ctx context.Context) (*DashboardStats, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/moderation/stats", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("moderation service request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("moderation service returned status %d: %s", resp.StatusCode, string(body))
	}

	var stats DashboardStats
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, fmt.Errorf("unmarshal stats: %w", err)
	}
	return &stats, nil
}
