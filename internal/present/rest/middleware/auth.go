package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// TokenAuth guards mutating admin routes with a static bearer token from
// config. The platform is single-operator, so there is no token issuance
// here; an empty configured token disables the admin surface entirely.
type TokenAuth struct {
	token string
}

func NewTokenAuth(token string) *TokenAuth {
	return &TokenAuth{token: token}
}

func (m *TokenAuth) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if m.token == "" {
			return echo.NewHTTPError(http.StatusForbidden, "admin API is disabled")
		}

		authHeader := c.Request().Header.Get("authorization")
		split := strings.Split(authHeader, " ")
		if len(split) != 2 || split[0] != "Bearer" {
			return echo.NewHTTPError(http.StatusUnauthorized, "bearer token required")
		}

		if subtle.ConstantTimeCompare([]byte(split[1]), []byte(m.token)) != 1 {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}

		return next(c)
	}
}
