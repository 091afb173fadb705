package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tiflun/storefront/internal/logging"
	"github.com/tiflun/storefront/internal/models"
	"github.com/tiflun/storefront/internal/service"
	"github.com/tiflun/storefront/internal/validation"
)

type OrderHTTP struct {
	Svc     *service.Orders
	Catalog *service.Catalog
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create")

	var req models.OrderCreate
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	ref, err := h.Svc.CreateOrder(ctx, &req)
	if err != nil {
		l.Warn("create_order_error", "error", err)
		return writeError(c, err)
	}

	l.Info("create_order_success", "order_number", ref.OrderNumber)
	return c.JSON(http.StatusCreated, ref)
}

func (h *OrderHTTP) TrackOrder(c echo.Context) error {
	ctx := c.Request().Context()

	req := validation.Tracking{
		OrderNumber: c.QueryParam("orderNumber"),
		Phone:       c.QueryParam("phone"),
	}
	if err := validation.TrackingLookup(&req); err != nil {
		return writeError(c, err)
	}

	order, err := h.Svc.GetOrderByNumberAndPhone(ctx, req.OrderNumber, req.Phone)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) ValidateStock(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Items []service.StockRequest `json:"items"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if len(req.Items) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "items required")
	}

	lines, err := h.Catalog.ValidateStock(ctx, req.Items)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": lines})
}

func (h *OrderHTTP) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()

	q := service.OrderListQuery{
		Limit:      parseIntDefault(c.QueryParam("limit"), service.DefaultPageSize),
		Cursor:     c.QueryParam("cursor"),
		Status:     models.OrderStatus(c.QueryParam("status")),
		SearchTerm: c.QueryParam("searchTerm"),
	}

	page, err := h.Svc.GetOrders(ctx, q)
	if err != nil {
		logging.FromContext(ctx).Warn("get_orders_error", "error", err)
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *OrderHTTP) UpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	var req struct {
		NewStatus string `json:"newStatus"`
		Note      string `json:"note,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("update_status_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	id := c.Param("id")
	if err := h.Svc.UpdateOrderStatus(ctx, id, models.OrderStatus(req.NewStatus), req.Note); err != nil {
		l.Warn("update_status_error", "order_id", id, "error", err)
		return writeError(c, err)
	}

	l.Info("update_status_success", "order_id", id, "status", req.NewStatus)
	return c.NoContent(http.StatusNoContent)
}
