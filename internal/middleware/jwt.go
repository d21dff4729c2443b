// Package middleware provides shared request processing: bearer-token
// authentication, role enforcement, rate limiting and response caching.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/zerowaste/connect/internal/auth"
)

// Context keys populated by JWTAuth for downstream handlers.
const (
	CtxAccountID = "account_id"
	CtxRole      = "role"
)

// JWTAuth returns a middleware that validates a Bearer access token and
// injects the verified claims into the request context. Verification is
// delegated to auth.ParseAccessToken so handlers and tests can exercise
// the same pure function.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			claims, err := auth.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			c.Set(CtxAccountID, claims.AccountID)
			c.Set(CtxRole, string(claims.Role))
			return next(c)
		}
	}
}

// AccountID returns the authenticated account id stored by JWTAuth, or
// zero when the request is unauthenticated.
func AccountID(c echo.Context) uint64 {
	id, _ := c.Get(CtxAccountID).(uint64)
	return id
}

// Role returns the authenticated role stored by JWTAuth, or an empty
// string when the request is unauthenticated.
func Role(c echo.Context) string {
	role, _ := c.Get(CtxRole).(string)
	return role
}
