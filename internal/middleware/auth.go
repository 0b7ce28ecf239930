package middleware

import (
	"context"
	"net/http"
	"strings"

	"anoa.com/skillnest/internal/entity"
	"anoa.com/skillnest/pkg/token"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RoleLookup returns the current role of a user; deleted users yield an error.
type RoleLookup interface {
	FindRole(ctx context.Context, id uuid.UUID) (string, error)
}

type AuthMiddleware struct {
	roles  RoleLookup
	tokens *token.Manager
}

func NewAuthMiddleware(roles RoleLookup, tokens *token.Manager) *AuthMiddleware {
	return &AuthMiddleware{
		roles:  roles,
		tokens: tokens,
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	// Fallback to query parameter "token" (useful for WebSockets)
	return c.Query("token")
}

// authenticate resolves the caller and stores user_id and role on the context.
func (m *AuthMiddleware) authenticate(c *gin.Context, tokenString string) bool {
	userID, err := m.tokens.Parse(tokenString)
	if err != nil {
		return false
	}

	role, err := m.roles.FindRole(c.Request.Context(), userID)
	if err != nil {
		return false
	}

	c.Set("user_id", userID.String())
	c.Set("role", role)
	return true
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}

		if !m.authenticate(c, tokenString) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is present and never rejects the request.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := bearerToken(c); tokenString != "" {
			m.authenticate(c, tokenString)
		}
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get("user_id"); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			return
		}

		if c.GetString("role") != entity.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}

		c.Next()
	}
}
