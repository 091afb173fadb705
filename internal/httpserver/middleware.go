package httpserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tiflun/storefront/internal/token"
)

// AdminMiddleware guards the admin surface with the bearer session token.
func AdminMiddleware(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(raw, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
			}

			claims, err := token.Parse(strings.TrimPrefix(raw, "Bearer "), secret)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set("admin_email", claims.Email)
			return next(c)
		}
	}
}
