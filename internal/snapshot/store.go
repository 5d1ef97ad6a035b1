// Package snapshot is the gateway's local persistence: a best-effort
// mirror of the last successful fetches, used as an offline fallback and a
// first-paint seed. It is never a source of truth: every record is a full
// replacement written after an authoritative fetch, last writer wins.
package snapshot

import (
	"context"
	"errors"

	placedomain "github.com/NextStop-25-26J/nextstop-gateway/internal/places/domain"
	soldomain "github.com/NextStop-25-26J/nextstop-gateway/internal/solicitudes/domain"
	userdomain "github.com/NextStop-25-26J/nextstop-gateway/internal/users/domain"
)

// ErrNotFound is returned when a record has never been written (or the
// stored value was unreadable, which callers treat the same way).
var ErrNotFound = errors.New("snapshot record not found")

// Store exposes typed get/set/clear operations for the handful of records
// the gateway mirrors. It is injected into the synchronizer and the
// handlers rather than accessed as ambient global state.
type Store interface {
	GetSession(ctx context.Context) (*userdomain.Session, error)
	SetSession(ctx context.Context, session userdomain.Session) error
	ClearSession(ctx context.Context) error

	GetRoster(ctx context.Context) ([]userdomain.User, error)
	SetRoster(ctx context.Context, roster []userdomain.User) error

	GetPlaces(ctx context.Context) ([]placedomain.Place, error)
	SetPlaces(ctx context.Context, places []placedomain.Place) error

	GetSolicitudes(ctx context.Context) ([]soldomain.Solicitud, error)
	SetSolicitudes(ctx context.Context, items []soldomain.Solicitud) error
}
