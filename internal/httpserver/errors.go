package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tiflun/storefront/internal/service"
	"github.com/tiflun/storefront/internal/validation"
)

// writeError maps the service error taxonomy onto HTTP statuses. Validation
// failures carry the field-level details for form display.
func writeError(c echo.Context, err error) error {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"error":   "validation failed",
			"details": verrs,
		})
	}

	switch {
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, service.ErrUnavailable),
		errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrInvalidTransition):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrTransactionAborted):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "store conflict, please retry")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
