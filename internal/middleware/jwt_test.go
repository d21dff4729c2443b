package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerowaste/connect/internal/auth"
	"github.com/zerowaste/connect/internal/model"
)

const testSecret = "test-secret"

func runWithAuth(t *testing.T, header string, next echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, JWTAuth(testSecret)(next)(c))
	return rec
}

func TestJWTAuthValidToken(t *testing.T) {
	token, _, err := auth.NewAccessToken(testSecret, 7, model.RoleNGO, 60)
	require.NoError(t, err)

	var gotID uint64
	var gotRole string
	rec := runWithAuth(t, "Bearer "+token, func(c echo.Context) error {
		gotID = AccountID(c)
		gotRole = Role(c)
		return c.NoContent(http.StatusOK)
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(7), gotID)
	assert.Equal(t, string(model.RoleNGO), gotRole)
}

func TestJWTAuthMissingHeader(t *testing.T) {
	rec := runWithAuth(t, "", func(c echo.Context) error {
		t.Fatal("handler must not run without a token")
		return nil
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing bearer token")
}

func TestJWTAuthMalformedToken(t *testing.T) {
	rec := runWithAuth(t, "Bearer not.a.token", func(c echo.Context) error {
		t.Fatal("handler must not run with a bad token")
		return nil
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid token")
}

func TestJWTAuthWrongSecret(t *testing.T) {
	token, _, err := auth.NewAccessToken("other-secret", 7, model.RoleNGO, 60)
	require.NoError(t, err)

	rec := runWithAuth(t, "Bearer "+token, func(c echo.Context) error {
		t.Fatal("handler must not run with a forged token")
		return nil
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
