package response

import (
	"errors"
	"fmt"
	"net/http"

	"anoa.com/skillnest/pkg/apperror"
	"anoa.com/skillnest/pkg/logger"
	"anoa.com/skillnest/pkg/ratelimiter"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var log = logger.Nop()

// SetLogger sets the logger used for internal error reporting.
func SetLogger(l *logger.Logger) {
	if l != nil {
		log = l
	}
}

// GetUserID retrieves the authenticated user ID from the context
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	userIDStr, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	return userID, nil
}

// OptionalUserID returns the viewer ID when the request carried a valid token.
func OptionalUserID(c *gin.Context) *uuid.UUID {
	userID, err := GetUserID(c)
	if err != nil {
		return nil
	}
	return &userID
}

// IsAdmin reports whether the auth middleware marked the caller as admin.
func IsAdmin(c *gin.Context) bool {
	return c.GetString("role") == "admin"
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	var rateLimitErr *ratelimiter.RateLimitError
	if errors.As(err, &rateLimitErr) {
		c.Header("Retry-After", fmt.Sprintf("%.0f", rateLimitErr.RetryAfter.Seconds()))
	}

	code := apperror.MapErrorToStatus(err)
	if code == http.StatusInternalServerError {
		log.Error("internal error", "path", c.FullPath(), "error", err)
	}

	c.JSON(code, gin.H{"error": err.Error()})
}
