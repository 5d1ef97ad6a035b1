package domain

import (
	"fmt"
	"strconv"
	"time"

	"github.com/NextStop-25-26J/nextstop-gateway/internal/normalize"
	placedomain "github.com/NextStop-25-26J/nextstop-gateway/internal/places/domain"
)

// Solicitud is a user-submitted place proposal tracked by the solicitudes
// microservice, independent of the approved place catalog. Field names
// follow that service's wire format.
type Solicitud struct {
	ID        int64    `json:"id"`
	Nombre    string   `json:"nombre"`
	Categoria string   `json:"categoria"`
	Ubicacion string   `json:"ubicacion"`
	Estado    string   `json:"estado"` // pendiente, aceptada, rechazada
	UserEmail string   `json:"user_email,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	PhotoURL  string   `json:"photo_url,omitempty"`
}

// CreateSolicitud is the payload for submitting a new place proposal.
type CreateSolicitud struct {
	Nombre    string   `json:"nombre"`
	Categoria string   `json:"categoria"`
	Ubicacion string   `json:"ubicacion"`
	UserEmail string   `json:"user_email,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	PhotoURL  string   `json:"photo_url,omitempty"`
}

// AsPlace projects a solicitud into the place shape the UI renders: the
// plain numeric id (which the approve/reject endpoints take back) and the
// legacy description embedding.
func (s Solicitud) AsPlace() placedomain.Place {
	return placedomain.Place{
		ID:          strconv.FormatInt(s.ID, 10),
		Name:        s.Nombre,
		Description: fmt.Sprintf("Categoría: %s - Ubicación: %s", s.Categoria, s.Ubicacion),
		Category:    normalize.Category(s.Categoria),
		Latitude:    s.Latitude,
		Longitude:   s.Longitude,
		PhotoURL:    s.PhotoURL,
		Status:      normalize.Status(s.Estado),
		CreatedBy:   s.UserEmail,
		CreatedAt:   time.Time{},
	}
}
