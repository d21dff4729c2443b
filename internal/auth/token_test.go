package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerowaste/connect/internal/model"
)

const testSecret = "test-secret"

func TestTokenRoundTrip(t *testing.T) {
	raw, exp, err := NewAccessToken(testSecret, 42, model.RoleRestaurant, 60)
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	c, err := ParseAccessToken(testSecret, raw)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), c.AccountID)
	assert.Equal(t, model.RoleRestaurant, c.Role)
}

func TestParseWrongSecret(t *testing.T) {
	raw, _, err := NewAccessToken(testSecret, 42, model.RoleNGO, 60)
	require.NoError(t, err)

	_, err = ParseAccessToken("another-secret", raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseExpired(t *testing.T) {
	claims := jwt.MapClaims{
		"sub":  uint64(42),
		"role": "ngo",
		"exp":  time.Now().UTC().Add(-time.Minute).Unix(),
		"iat":  time.Now().UTC().Add(-time.Hour).Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = ParseAccessToken(testSecret, raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseGarbage(t *testing.T) {
	_, err := ParseAccessToken(testSecret, "not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseUnknownRole(t *testing.T) {
	claims := jwt.MapClaims{
		"sub":  uint64(42),
		"role": "admin",
		"exp":  time.Now().UTC().Add(time.Hour).Unix(),
		"iat":  time.Now().UTC().Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = ParseAccessToken(testSecret, raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
