package middleware

import (
	"net/http"
	"strings"

	"rental-backend/utils"

	"github.com/gin-gonic/gin"
)

const (
	CtxUserID = "userId"
	CtxRole   = "role"
)

// Protect requires a valid JWT, from the "token" cookie or a Bearer header.
func Protect() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie("token")
		if err != nil || raw == "" {
			auth := c.GetHeader("Authorization")
			if strings.HasPrefix(auth, "Bearer ") {
				raw = strings.TrimPrefix(auth, "Bearer ")
			}
		}
		if raw == "" {
			utils.JSONError(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}

		claims, err := utils.ParseAuthToken(raw)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, claims.Role)
		c.Next()
	}
}

// RequireRole allows only the listed roles past. Must run after Protect.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(CtxRole)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		utils.JSONError(c, http.StatusForbidden, "insufficient permissions")
		c.Abort()
	}
}

// UserID reads the authenticated user id set by Protect.
func UserID(c *gin.Context) uint {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return 0
	}
	id, _ := v.(uint)
	return id
}
