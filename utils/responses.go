// utils/responses.go
package utils

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RespondWithError sends a JSON error body with the given status.
func RespondWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// TenantID reads the authenticated tenant out of the request context.
// Controllers must pass the returned UUID into every query predicate.
func TenantID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get("tenantId")
	if !exists {
		RespondWithError(c, 401, "Tenant ID not found in context")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw.(string))
	if err != nil {
		RespondWithError(c, 500, "Invalid tenant ID format")
		return uuid.Nil, false
	}
	return id, true
}

// UserID reads the authenticated user out of the request context.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get("userId")
	if !exists {
		RespondWithError(c, 401, "User ID not found in context")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw.(string))
	if err != nil {
		RespondWithError(c, 500, "Invalid user ID format")
		return uuid.Nil, false
	}
	return id, true
}

// Role reads the authenticated user's role out of the request context.
func Role(c *gin.Context) string {
	raw, exists := c.Get("role")
	if !exists {
		return ""
	}
	role, _ := raw.(string)
	return role
}

// IsNotFound tells a missing row apart from a real database failure.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
