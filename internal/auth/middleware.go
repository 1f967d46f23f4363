package auth

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkarpov/authgate/internal/entities"
)

// ContextKeyUser is the gin context key under which the authenticated
// user is stored.
const ContextKeyUser = "auth_user"

// Middleware is the request gate: it runs the configured strategy
// before dispatch and translates its verdict into 401/403 responses.
type Middleware struct {
	strategy Strategy
	excluded []string
}

// NewMiddleware creates the authentication gate for a strategy and an
// exclusion list fixed at startup.
func NewMiddleware(strategy Strategy, excludedPaths []string) *Middleware {
	return &Middleware{strategy: strategy, excluded: excludedPaths}
}

// Handler returns the gin middleware enforcing the strategy.
//
// Requests to excluded paths pass through without identity. Otherwise:
// no credentials at all -> 401; credentials that resolve to no user ->
// 403; a backing-store failure -> 503, never silently swallowed.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.strategy.RequiresAuth(c.Request.URL.Path, m.excluded) {
			c.Next()
			return
		}

		if m.strategy.AuthorizationHeader(c.Request) == "" && m.strategy.SessionCookie(c.Request) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		user, err := m.strategy.CurrentUser(c.Request)
		if err != nil {
			log.Printf("auth: resolving current user: %v", err)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "authentication backend unavailable"})
			return
		}
		if user == nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}

		c.Set(ContextKeyUser, user)
		c.Next()
	}
}

// CurrentUser retrieves the authenticated user from the gin context.
// Returns nil on excluded paths and when auth is disabled.
func CurrentUser(c *gin.Context) *entities.User {
	if v, exists := c.Get(ContextKeyUser); exists {
		if user, ok := v.(*entities.User); ok {
			return user
		}
	}
	return nil
}
