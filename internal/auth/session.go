package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tollpass/internal/domain"
	"tollpass/internal/repository"
)

const sessionContextKey = "session"

// Session identifies the caller of a core operation. It is an explicit value
// passed into services rather than ambient state; real authentication is an
// external collaborator and only its result (user id + role) matters here.
type Session struct {
	UserID string
	Role   domain.Role
}

// IsAdmin reports whether the session belongs to an administrator.
func (s Session) IsAdmin() bool {
	return s.Role == domain.RoleAdmin
}

// Middleware resolves the caller from the X-User-ID header and attaches a
// Session to the request context. Requests without a known user are rejected.
func Middleware(userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing X-User-ID header"})
			return
		}

		user, err := userRepo.GetByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
			return
		}

		c.Set(sessionContextKey, Session{UserID: user.ID, Role: user.Role})
		c.Next()
	}
}

// FromContext returns the Session attached by Middleware.
func FromContext(c *gin.Context) (Session, bool) {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		return Session{}, false
	}
	sess, ok := v.(Session)
	return sess, ok
}
