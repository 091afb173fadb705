package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/tiflun/storefront/internal/logging"
	"github.com/tiflun/storefront/internal/models"
	"github.com/tiflun/storefront/internal/service"
	"github.com/tiflun/storefront/internal/service/search"
)

type ProductHTTP struct {
	Svc    *service.Catalog
	Search *search.Service
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func (h *ProductHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()

	q := service.ProductQuery{
		Limit:    parseIntDefault(c.QueryParam("limit"), service.DefaultPageSize),
		Cursor:   c.QueryParam("cursor"),
		Status:   models.ProductStatus(c.QueryParam("status")),
		Category: c.QueryParam("category"),
	}

	page, err := h.Svc.GetProducts(ctx, q)
	if err != nil {
		logging.FromContext(ctx).Warn("get_products_error", "error", err)
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *ProductHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	product, err := h.Svc.GetProductByID(ctx, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHTTP) GetProductBySlug(c echo.Context) error {
	ctx := c.Request().Context()

	product, err := h.Svc.GetProductBySlug(ctx, c.Param("slug"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()

	if h.Search == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "search is not configured")
	}

	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}
	from := parseIntDefault(c.QueryParam("from"), 0)
	size := parseIntDefault(c.QueryParam("size"), service.DefaultPageSize)

	total, products, err := h.Search.Search(ctx, query, from, size)
	if err != nil {
		logging.FromContext(ctx).Warn("search_error", "error", err)
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"total":    total,
		"products": products,
	})
}

func (h *ProductHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var req models.Product
	if err := c.Bind(&req); err != nil {
		l.Warn("create_product_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	product, err := h.Svc.CreateProduct(ctx, &req)
	if err != nil {
		l.Warn("create_product_error", "error", err)
		return writeError(c, err)
	}

	l.Info("create_product_success", "product_id", product.ID)
	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")

	var req models.Product
	if err := c.Bind(&req); err != nil {
		l.Warn("update_product_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	product, err := h.Svc.UpdateProduct(ctx, c.Param("id"), &req)
	if err != nil {
		l.Warn("update_product_error", "error", err)
		return writeError(c, err)
	}

	l.Info("update_product_success", "product_id", product.ID)
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	if err := h.Svc.DeleteProduct(ctx, c.Param("id")); err != nil {
		l.Warn("delete_product_error", "error", err)
		return writeError(c, err)
	}

	l.Info("delete_product_success", "product_id", c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}
