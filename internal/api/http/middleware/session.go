package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NextStop-25-26J/nextstop-gateway/internal/snapshot"
	userdomain "github.com/NextStop-25-26J/nextstop-gateway/internal/users/domain"
)

const ctxSessionUser = "session_user"

// WithSession loads the persisted session, if any, into the Gin context.
// It never rejects: public routes run with no user, and the protected ones
// gate on RequireSession/RequireRole afterwards.
func WithSession(store snapshot.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := store.GetSession(c.Request.Context())
		if err == nil {
			c.Set(ctxSessionUser, session.User)
		}
		c.Next()
	}
}

// RequireSession aborts with 401 when no session is active.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole aborts with 403 unless the session user holds one of the
// given roles. These checks are a UX gate, not a security boundary; the
// backend services enforce nothing.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
		c.Abort()
	}
}

// CurrentUser returns the session user loaded by WithSession.
func CurrentUser(c *gin.Context) (userdomain.User, bool) {
	v, ok := c.Get(ctxSessionUser)
	if !ok {
		return userdomain.User{}, false
	}
	user, ok := v.(userdomain.User)
	return user, ok
}
