package middleware

import (
	"net/http"
	"strings"

	"accessibility-admin-api/internal/auth"

	"github.com/gin-gonic/gin"
)

// sessionToken pulls the admin session token from the Authorization header,
// falling back to the token query param for websocket upgrades where the
// browser cannot set custom headers.
func sessionToken(c *gin.Context) string {
	if raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(raw)
	}
	return c.Query("token")
}

// JWTAuthMiddleware guards the admin API. Requests must carry a valid session
// token; the authenticated identity is exposed to handlers as user_id and
// username.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token is required"})
			c.Abort()
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Next()
	}
}
