package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/presetbase/presetbase-go/internal/infrastructure/observability/logging"
)

func newAuthService(t *testing.T, password string) *AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return NewAuthService("admin", string(hash), "test-secret", 15*time.Minute, time.Hour, logging.NewSilentLogger())
}

func TestLoginIssuesTokenPair(t *testing.T) {
	svc := newAuthService(t, "correct horse")

	pair, err := svc.Login("admin", "correct horse")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, int((15 * time.Minute).Seconds()), pair.ExpiresIn)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthService(t, "correct horse")

	_, err := svc.Login("admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("intruder", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsWhenNoHashConfigured(t *testing.T) {
	svc := NewAuthService("admin", "", "test-secret", time.Minute, time.Hour, logging.NewSilentLogger())

	_, err := svc.Login("admin", "anything")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshExchangesRefreshToken(t *testing.T) {
	svc := newAuthService(t, "correct horse")

	pair, err := svc.Login("admin", "correct horse")
	require.NoError(t, err)

	renewed, err := svc.Refresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, renewed.AccessToken)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc := newAuthService(t, "correct horse")

	pair, err := svc.Login("admin", "correct horse")
	require.NoError(t, err)

	// An access token is not a refresh token.
	_, err = svc.Refresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	svc := newAuthService(t, "correct horse")

	_, err := svc.Refresh("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
