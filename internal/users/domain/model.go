package domain

import "time"

// User is the canonical projection of a user record from the users
// microservice. Passwords never leave the backend; the gateway only tracks
// identity and role.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"` // user, moderator, admin
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	// Local marks users fabricated by the degraded registration path and
	// not yet known to the users microservice.
	Local bool `json:"local,omitempty"`
}

// Role constants
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// Session is the single authoritative client-side session record.
type Session struct {
	Token string `json:"accessToken"`
	User  User   `json:"user"`
}
