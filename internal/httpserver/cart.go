package httpserver

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/tiflun/storefront/internal/cart"
	"github.com/tiflun/storefront/internal/logging"
	"github.com/tiflun/storefront/internal/validation"
)

const sessionCookie = "cart_session"

type CartHTTP struct {
	Keeper *cart.Keeper
}

// sessionID reads the cart session cookie, minting one on first contact so
// the cart survives reloads.
func (h *CartHTTP) sessionID(c echo.Context) string {
	if ck, err := c.Cookie(sessionCookie); err == nil && ck.Value != "" {
		return ck.Value
	}

	id := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		Expires:  time.Now().Add(30 * 24 * time.Hour),
		HttpOnly: true,
	})
	return id
}

type cartResponse struct {
	*cart.Cart
	TotalItems int     `json:"totalItems"`
	TotalPrice float64 `json:"totalPrice"`
}

func respond(c echo.Context, ct *cart.Cart) error {
	return c.JSON(http.StatusOK, cartResponse{
		Cart:       ct,
		TotalItems: ct.TotalItems(),
		TotalPrice: ct.TotalPrice(),
	})
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()

	ct, err := h.Keeper.Load(ctx, h.sessionID(c))
	if err != nil {
		logging.FromContext(ctx).Warn("get_cart_error", "error", err)
		return writeError(c, err)
	}
	return respond(c, ct)
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_item")

	var req validation.CartItemInput
	if err := c.Bind(&req); err != nil {
		l.Warn("add_item_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := validation.CartItem(&req); err != nil {
		return writeError(c, err)
	}

	session := h.sessionID(c)
	ct, err := h.Keeper.Load(ctx, session)
	if err != nil {
		return writeError(c, err)
	}

	item := cart.Item{
		ProductID: req.ProductID,
		Title:     req.Title,
		Price:     req.Price,
		Image:     req.Image,
		Slug:      req.Slug,
		Stock:     req.Stock,
	}
	applied := ct.AddItem(item, req.Quantity)

	if err := h.Keeper.Save(ctx, session, ct); err != nil {
		return writeError(c, err)
	}

	// The clamp is silent; the applied quantity tells the caller whether
	// the request was truncated.
	return c.JSON(http.StatusOK, map[string]any{
		"appliedQuantity": applied,
		"cart":            ct,
	})
}

func (h *CartHTTP) UpdateItemQuantity(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	session := h.sessionID(c)
	ct, err := h.Keeper.Load(ctx, session)
	if err != nil {
		return writeError(c, err)
	}

	applied := ct.UpdateItemQuantity(c.Param("productId"), req.Quantity)

	if err := h.Keeper.Save(ctx, session, ct); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"appliedQuantity": applied,
		"cart":            ct,
	})
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()

	session := h.sessionID(c)
	ct, err := h.Keeper.Load(ctx, session)
	if err != nil {
		return writeError(c, err)
	}

	ct.RemoveItem(c.Param("productId"))

	if err := h.Keeper.Save(ctx, session, ct); err != nil {
		return writeError(c, err)
	}
	return respond(c, ct)
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()

	session := h.sessionID(c)
	ct, err := h.Keeper.Load(ctx, session)
	if err != nil {
		return writeError(c, err)
	}

	ct.Clear()

	if err := h.Keeper.Save(ctx, session, ct); err != nil {
		return writeError(c, err)
	}
	return respond(c, ct)
}
