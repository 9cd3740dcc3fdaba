package services

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/presetbase/presetbase-go/internal/infrastructure/observability/logging"
	"github.com/presetbase/presetbase-go/internal/infrastructure/security"
)

// ErrInvalidCredentials is returned for any failed login, without
// distinguishing unknown user from bad password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// TokenPair is a successful login or refresh result.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
}

// AuthService issues and refreshes admin JWTs. There is a single admin
// account configured by environment; the stored value is a bcrypt hash,
// never the password itself.
type AuthService struct {
	username     string
	passwordHash string
	jwtSecret    string
	accessTTL    time.Duration
	refreshTTL   time.Duration
	logger       *logging.ChanneledLogger
}

// NewAuthService creates the auth service.
func NewAuthService(username, passwordHash, jwtSecret string, accessTTL, refreshTTL time.Duration, logger *logging.ChanneledLogger) *AuthService {
	return &AuthService{
		username:     username,
		passwordHash: passwordHash,
		jwtSecret:    jwtSecret,
		accessTTL:    accessTTL,
		refreshTTL:   refreshTTL,
		logger:       logger,
	}
}

// Login checks credentials and issues an access/refresh token pair.
func (s *AuthService) Login(username, password string) (*TokenPair, error) {
	if username != s.username || s.passwordHash == "" {
		s.logger.Auth().Warn("Login rejected", "username", username)
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		s.logger.Auth().Warn("Login rejected", "username", username)
		return nil, ErrInvalidCredentials
	}

	pair, err := s.issuePair(username)
	if err != nil {
		return nil, err
	}
	s.logger.Auth().Info("Admin logged in", "username", username)
	return pair, nil
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *AuthService) Refresh(refreshToken string) (*TokenPair, error) {
	claims, err := security.ValidateJWT(refreshToken, s.jwtSecret)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if security.TokenType(claims) != security.TokenTypeRefresh {
		return nil, ErrInvalidCredentials
	}

	username := security.TokenUsername(claims)
	if username != s.username {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.issuePair(username)
	if err != nil {
		return nil, err
	}
	s.logger.Auth().Info("Token refreshed", "username", username)
	return pair, nil
}

func (s *AuthService) issuePair(username string) (*TokenPair, error) {
	access, err := security.GenerateToken(security.TokenTypeAccess, username, "admin", s.jwtSecret, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := security.GenerateToken(security.TokenTypeRefresh, username, "admin", s.jwtSecret, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int(s.accessTTL.Seconds()),
	}, nil
}
