package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	headerUserID   = "X-User-ID"
	headerUserRole = "X-User-Role"

	ctxUserID = "userID"
	ctxRole   = "role"

	roleAdmin = "admin"
)

// AuthContext extracts the caller's identity injected by the upstream auth
// proxy. The engine trusts these headers and does not re-derive them.
func AuthContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(headerUserID)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
			return
		}
		c.Set(ctxUserID, userID)
		c.Set(ctxRole, c.GetHeader(headerUserRole))
		c.Next()
	}
}

// RequireAdmin rejects callers without the admin role
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ctxRole) != roleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			return
		}
		c.Next()
	}
}
