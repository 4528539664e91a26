package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Authentication is delegated to an external identity provider sitting in
// front of this service. The middleware only consumes the already
// authenticated identity it forwards in headers.
const (
	headerUserEmail = "X-User-Email"
	headerUserRole  = "X-User-Role"

	ctxEmailKey = "identity.email"
	ctxRoleKey  = "identity.role"

	roleAdmin = "admin"
)

func identityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if email := c.GetHeader(headerUserEmail); email != "" {
			c.Set(ctxEmailKey, email)
			c.Set(ctxRoleKey, c.GetHeader(headerUserRole))
		}
		c.Next()
	}
}

func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(ctxEmailKey); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if c.GetString(ctxRoleKey) != roleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			return
		}
		c.Next()
	}
}
