package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/presetbase/presetbase-go/internal/infrastructure/security"
	"github.com/presetbase/presetbase-go/pkg/config"
)

const (
	claimsKey = "authClaims"
	roleKey   = "authRole"
)

// AuthMiddleware requires a valid Bearer access token.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			c.Abort()
			return
		}

		claims, err := security.ValidateJWT(strings.TrimPrefix(authHeader, "Bearer "), config.JWTSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		if security.TokenType(claims) != security.TokenTypeAccess {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "access token required"})
			c.Abort()
			return
		}

		c.Set(claimsKey, claims)
		c.Set(roleKey, security.TokenRole(claims))
		c.Next()
	}
}

// AdminOnlyMiddleware requires the admin role. Must run after
// AuthMiddleware.
func AdminOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(roleKey)
		if !exists || role != "admin" {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
