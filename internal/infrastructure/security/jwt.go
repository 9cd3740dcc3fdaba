// Package security provides JWT token utilities
package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Token types carried in the "type" claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// ValidateJWT validates a JWT token and returns the claims
func ValidateJWT(tokenString, jwtSecret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// GenerateToken creates a signed token of the given type for a user.
func GenerateToken(tokenType, username, role, jwtSecret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"type":     tokenType,
		"username": username,
		"role":     role,
		"iat":      time.Now().UTC().Unix(),
		"exp":      time.Now().UTC().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// TokenType extracts the "type" claim.
func TokenType(claims jwt.MapClaims) string {
	if t, ok := claims["type"].(string); ok {
		return t
	}
	return ""
}

// TokenRole extracts the "role" claim.
func TokenRole(claims jwt.MapClaims) string {
	if r, ok := claims["role"].(string); ok {
		return r
	}
	return ""
}

// TokenUsername extracts the "username" claim.
func TokenUsername(claims jwt.MapClaims) string {
	if u, ok := claims["username"].(string); ok {
		return u
	}
	return ""
}
