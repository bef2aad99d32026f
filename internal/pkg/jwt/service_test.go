package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHMACService_RoundTrip(t *testing.T) {
	svc := NewHMACService("secret", time.Minute)
	uid := uuid.New()

	tok, err := svc.GenerateAccessToken(uid, RoleAdmin)
	require.NoError(t, err)

	c, err := svc.ValidateToken(tok)
	require.NoError(t, err)
	assert.Equal(t, uid, c.UserID)
	assert.True(t, c.IsAdmin())
	assert.Equal(t, TokenTypeAccess, c.TokenType)
}

func TestHMACService_DefaultRole(t *testing.T) {
	svc := NewHMACService("secret", time.Minute)
	tok, err := svc.GenerateAccessToken(uuid.New(), "")
	require.NoError(t, err)

	c, err := svc.ValidateToken(tok)
	require.NoError(t, err)
	assert.Equal(t, RoleUser, c.Role)
	assert.False(t, c.IsAdmin())
}

func TestHMACService_Expired(t *testing.T) {
	svc := NewHMACService("secret", time.Minute)
	issued := time.Now()
	svc.now = func() time.Time { return issued }
	tok, err := svc.GenerateAccessToken(uuid.New(), RoleUser)
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = svc.ValidateToken(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestHMACService_WrongSecret(t *testing.T) {
	tok, err := NewHMACService("one", time.Minute).GenerateAccessToken(uuid.New(), RoleUser)
	require.NoError(t, err)

	_, err = NewHMACService("two", time.Minute).ValidateToken(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = NewHMACService("", time.Minute).ValidateToken(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
