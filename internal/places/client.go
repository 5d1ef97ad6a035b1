package places

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/NextStop-25-26J/nextstop-gateway/internal/normalize"
	"github.com/NextStop-25-26J/nextstop-gateway/internal/places/domain"
)

// Client handles communication with the places microservice.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new places client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// placeDTO is the loosely-typed wire shape the places service answers with.
// Status arrives as PENDING/ACCEPTED/REJECTED (or the Spanish variants) and
// older rows carry the category inside the description text.
type placeDTO struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	PhotoURL    string   `json:"photoUrl"`
	ImageURL    string   `json:"imageUrl"`
	Address     string   `json:"address"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Photos      []string `json:"photos"`
	Rating      *float64 `json:"rating"`
	Status      string   `json:"status"`
	CreatedBy   string   `json:"createdBy"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

// toDomain converts the wire shape into the canonical record: status and
// category normalized, legacy embedded category recovered when the
// structured field is empty.
func (d placeDTO) toDomain() domain.Place {
	category := normalize.Category(d.Category)
	if category == "" {
		category = normalize.Category(normalize.CategoryFromDescription(d.Description))
	}

	photoURL := d.PhotoURL
	if photoURL == "" {
		photoURL = d.ImageURL
	}
	if photoURL == "" && len(d.Photos) > 0 {
		photoURL = d.Photos[0]
	}

	createdAt := time.Now()
	if t, err := time.Parse(time.RFC3339, d.CreatedAt); err == nil {
		createdAt = t
	}
	var updatedAt *time.Time
	if t, err := time.Parse(time.RFC3339, d.UpdatedAt); err == nil {
		updatedAt = &t
	}

	return domain.Place{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Category:    category,
		Address:     d.Address,
		Latitude:    d.Latitude,
		Longitude:   d.Longitude,
		PhotoURL:    photoURL,
		Photos:      d.Photos,
		Rating:      d.Rating,
		Status:      normalize.Status(d.Status),
		CreatedBy:   d.CreatedBy,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// List fetches places filtered by canonical status. An empty status fetches
// the unfiltered list. The backend exposes per-status paths rather than a
// query parameter.
func (c *Client) List(ctx context.Context, status string) ([]domain.Place, error) {
	url := c.baseURL + "/api/places"
	switch status {
	case normalize.StatusPending:
		url += "/pending"
	case normalize.StatusApproved:
		url += "/accepted"
	case normalize.StatusRejected:
		url += "/rejected"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places service request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places service returned status %d: %s", resp.StatusCode, string(body))
	}

	var dtos []placeDTO
	if err := json.Unmarshal(body, &dtos); err != nil {
		return nil, fmt.Errorf("unmarshal places: %w", err)
	}

	result := make([]domain.Place, 0, len(dtos))
	for _, dto := range dtos {
		result = append(result, dto.toDomain())
	}
	return result, nil
}

// Get fetches a single place by id.
func (c *Client) Get(ctx context.Context, id string) (*domain.Place, error) {
	url := fmt.Sprintf("%s/api/places/%s", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrPlaceNotFound
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places service returned status %d: %s", resp.StatusCode, string(body))
	}

	var dto placeDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return nil, fmt.Errorf("unmarshal place: %w", err)
	}
	place := dto.toDomain()
	return &place, nil
}

// Update forwards a partial update to the places service and returns the
// updated record.
func (c *Client) Update(ctx context.Context, id string, update domain.UpdatePlaceRequest) (*domain.Place, error) {
	payload, err := json.Marshal(update)
	if err != nil {
		return nil, fmt.Errorf("marshal update: %w", err)
	}

	url := fmt.Sprintf("%s/api/places/%s", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrPlaceNotFound
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places service returned status %d: %s", resp.StatusCode, string(body))
	}

	var dto placeDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return nil, fmt.Errorf("unmarshal place: %w", err)
	}
	place := dto.toDomain()
	return &place, nil
}

// Delete removes a place.
func (c *Client) Delete(ctx context.Context, id string) error {
	url := fmt.Sprintf("%s/api/places/%s", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("places service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrPlaceNotFound
	}
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("places service returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Accept approves a place through its dedicated endpoint.
func (c *Client) Accept(ctx context.Context, id string) error {
	return c.moderate(ctx, id, "accept")
}

// Reject rejects a place through its dedicated endpoint.
func (c *Client) Reject(ctx context.Context, id string) error {
	return c.moderate(ctx, id, "reject")
}

func (c *Client) moderate(ctx context.Context, id, action string) error {
	url := fmt.Sprintf("%s/api/places/%s/%s", c.baseURL, id, action)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("places service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrPlaceNotFound
	}
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("places service returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
