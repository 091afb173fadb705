package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tiflun/storefront/internal/cart"
	"github.com/tiflun/storefront/internal/service"
	"github.com/tiflun/storefront/internal/service/search"
)

type Deps struct {
	Catalog   *service.Catalog
	Orders    *service.Orders
	Auth      *service.Auth
	Search    *search.Service
	Carts     *cart.Keeper
	JWTSecret []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	v1 := e.Group("/api/v1")

	products := &ProductHTTP{Svc: d.Catalog, Search: d.Search}
	v1.GET("/products", products.GetProducts)
	v1.GET("/products/:id", products.GetProduct)
	v1.GET("/products/slug/:slug", products.GetProductBySlug)
	v1.GET("/search", products.SearchProducts)

	orders := &OrderHTTP{Svc: d.Orders, Catalog: d.Catalog}
	v1.POST("/orders", orders.CreateOrder)
	v1.GET("/orders/track", orders.TrackOrder)
	v1.POST("/stock/validate", orders.ValidateStock)

	carts := &CartHTTP{Keeper: d.Carts}
	v1.GET("/cart", carts.GetCart)
	v1.POST("/cart", carts.AddItem)
	v1.PATCH("/cart/:productId", carts.UpdateItemQuantity)
	v1.DELETE("/cart/:productId", carts.RemoveItem)
	v1.DELETE("/cart", carts.ClearCart)

	auth := &AuthHTTP{Svc: d.Auth, Sessions: d.Carts.Store}
	v1.POST("/admin/login", auth.Login)

	admin := v1.Group("/admin", AdminMiddleware(d.JWTSecret))
	admin.POST("/products", products.CreateProduct)
	admin.PATCH("/products/:id", products.UpdateProduct)
	admin.DELETE("/products/:id", products.DeleteProduct)
	admin.GET("/orders", orders.GetOrders)
	admin.PATCH("/orders/:id/status", orders.UpdateOrderStatus)
}
