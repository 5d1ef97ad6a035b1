package users

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/NextStop-25-26J/nextstop-gateway/internal/users/domain"
)

// Client handles communication with the users microservice.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new users client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// userDTO tolerates the field variants different user services answer with
// (name vs username, missing role).
type userDTO struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	Avatar    string `json:"avatar"`
	CreatedAt string `json:"createdAt"`
}

func (d userDTO) toDomain() domain.User {
	id := d.ID
	if id == "" {
		id = d.UserID
	}
	name := d.Name
	if name == "" {
		name = d.Username
	}
	if name == "" {
		name = "Sin nombre"
	}
	role := d.Role
	if role == "" {
		role = domain.RoleUser
	}
	createdAt := time.Now()
	if t, err := time.Parse(time.RFC3339, d.CreatedAt); err == nil {
		createdAt = t
	}
	return domain.User{
		ID:        id,
		Email:     d.Email,
		Name:      name,
		Role:      role,
		Avatar:    d.Avatar,
		CreatedAt: createdAt,
	}
}

// List fetches the full user roster.
func (c *Client) List(ctx context.Context) ([]domain.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/users", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("users service request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("users service returned status %d: %s", resp.StatusCode, string(body))
	}

	var dtos []userDTO
	if err := json.Unmarshal(body, &dtos); err != nil {
		return nil, fmt.Errorf("unmarshal users: %w", err)
	}

	roster := make([]domain.User, 0, len(dtos))
	for _, dto := range dtos {
		roster = append(roster, dto.toDomain())
	}
	return roster, nil
}

// Get fetches a single user by id.
func (c *Client) Get(ctx context.Context, id string) (*domain.User, error) {
	url := fmt.Sprintf("%s/api/users/%s", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("users service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrUserNotFound
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("users service returned status %d: %s", resp.StatusCode, string(body))
	}

	var dto userDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}
	user := dto.toDomain()
	return &user, nil
}

// UpdateUserRequest carries the profile fields a user may change.
type UpdateUserRequest struct {
	Name   *string `json:"name,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}

// Update changes a user's profile fields.
func (c *Client) Update(ctx context.Context, id string, update UpdateUserRequest) (*domain.User, error) {
	payload, err := json.Marshal(update)
	if err != nil {
		return nil, fmt.Errorf("marshal update: %w", err)
	}

	url := fmt.Sprintf("%s/api/users/%s", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("users service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrUserNotFound
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("users service returned status %d: %s", resp.StatusCode, string(body))
	}

	var dto userDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}
	user := dto.toDomain()
	return &user, nil
}

// RegistryClient talks to the separate registration service. It is the one
// client whose failures callers are expected to absorb: registration falls
// back to a locally fabricated record when this service is unreachable.
type RegistryClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewRegistryClient creates a new registry client.
func NewRegistryClient(baseURL string) *RegistryClient {
	return &RegistryClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Register creates a user in the registry service. The capitalized Email
// key is what that service expects; do not "fix" it.
func (c *RegistryClient) Register(ctx context.Context, name, email string) (*domain.User, error) {
	payload, err := json.Marshal(map[string]string{
		"name":   name,
		"Email":  email,
		"gender": "no especificado",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal registration: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/users", bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("registry service request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("registry service returned status %d: %s", resp.StatusCode, string(body))
	}

	var dto userDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return nil, fmt.Errorf("unmarshal created user: %w", err)
	}
	user := dto.toDomain()
	return &user, nil
}
