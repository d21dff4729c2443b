package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zerowaste/connect/internal/model"
)

// RequireRole enforces that the authenticated account has one of the
// given roles. It assumes JWTAuth already stored the role in the
// context; a missing or disallowed role yields 403 Forbidden.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[string(r)] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !allowed[Role(c)] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
