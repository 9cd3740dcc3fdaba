// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/presetbase/presetbase-go/internal/application/services"
	"github.com/presetbase/presetbase-go/internal/infrastructure/observability/logging"
	"github.com/presetbase/presetbase-go/internal/infrastructure/security"
	"github.com/presetbase/presetbase-go/pkg/config"
)

// AuthHandlers contains the authentication HTTP handlers.
type AuthHandlers struct {
	authService *services.AuthService
	logger      *logging.ChanneledLogger
}

// NewAuthHandlers creates auth handlers with injected dependencies.
func NewAuthHandlers(authService *services.AuthService, logger *logging.ChanneledLogger) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		logger:      logger,
	}
}

// PostLogin handles POST /api/v1/auth/login - admin authentication.
func (h *AuthHandlers) PostLogin(c *gin.Context) {
	var loginReq struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&loginReq); err != nil {
		h.logger.Auth().Error("Login request JSON binding failed", "error", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	pair, err := h.authService.Login(loginReq.Username, loginReq.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	c.JSON(http.StatusOK, pair)
}

// PostRefreshToken handles POST /api/v1/auth/refresh - token renewal.
func (h *AuthHandlers) PostRefreshToken(c *gin.Context) {
	var refreshReq struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}

	if err := c.ShouldBindJSON(&refreshReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	pair, err := h.authService.Refresh(refreshReq.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}

	c.JSON(http.StatusOK, pair)
}

// GetAuthStatus handles GET /api/v1/auth/status - reports whether the
// caller holds a valid access token.
func (h *AuthHandlers) GetAuthStatus(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}

	claims, err := security.ValidateJWT(strings.TrimPrefix(authHeader, "Bearer "), config.JWTSecret)
	if err != nil || security.TokenType(claims) != security.TokenTypeAccess {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"username":      security.TokenUsername(claims),
		"role":          security.TokenRole(claims),
	})
}
