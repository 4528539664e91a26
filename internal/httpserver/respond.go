package httpserver

import (
	"errors"
	"net/http"

	"onlinestore/internal/domain"
	svcuser "onlinestore/internal/service/user"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// writeError maps the domain error taxonomy onto HTTP at the boundary.
// Unexpected errors surface as a generic 500 without internal detail.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrInvalidState):
		c.JSON(http.StatusBadRequest, gin.H{"error": "operation not allowed in current state"})
	case errors.Is(err, domain.ErrInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{"error": "insufficient stock"})
	case errors.Is(err, domain.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "already exists"})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "conflicting concurrent update, retry"})
	case errors.Is(err, svcuser.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	default:
		if ve, ok := domain.AsValidation(err); ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": ve.Fields})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// pathUUID validates that the named path parameter is a UUID and returns
// it; it writes a 400 and returns false otherwise.
func pathUUID(c *gin.Context, name string) (string, bool) {
	raw := c.Param(name)
	if _, err := uuid.Parse(raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return "", false
	}
	return raw, true
}
