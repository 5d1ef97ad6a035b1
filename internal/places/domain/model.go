package domain

import "time"

// Place is a point of interest as the gateway serves it: status and
// category already normalized to the canonical vocabulary. The authoritative
// copy lives in the places microservice; the gateway holds a periodically
// refreshed projection.
type Place struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Category    string     `json:"category,omitempty"`
	Address     string     `json:"address,omitempty"`
	Latitude    *float64   `json:"latitude,omitempty"`
	Longitude   *float64   `json:"longitude,omitempty"`
	PhotoURL    string     `json:"photoUrl,omitempty"`
	Photos      []string   `json:"photos,omitempty"`
	Rating      *float64   `json:"rating,omitempty"`
	Status      string     `json:"status"` // pending, approved, rejected
	CreatedBy   string     `json:"createdBy,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// UpdatePlaceRequest carries the mutable fields of a place. Nil means
// "leave unchanged"; the gateway forwards it to the places service as-is.
type UpdatePlaceRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Address     *string  `json:"address,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Photos      []string `json:"photos,omitempty"`
}
