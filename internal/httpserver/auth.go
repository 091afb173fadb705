package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tiflun/storefront/internal/cart"
	"github.com/tiflun/storefront/internal/logging"
	"github.com/tiflun/storefront/internal/service"
)

type AuthHTTP struct {
	Svc *service.Auth
	// Sessions persists the issued admin token under its fixed storage
	// key; single tenant, so last writer wins.
	Sessions cart.Store
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	signed, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		l.Warn("login_error", "error", err)
		return writeError(c, err)
	}

	if h.Sessions != nil {
		if err := h.Sessions.Save(ctx, cart.AdminSessionKey, []byte(signed)); err != nil {
			l.Warn("session_persist_error", "error", err)
		}
	}

	l.Info("login_success", "email", req.Email)
	return c.JSON(http.StatusOK, map[string]string{"token": signed})
}
