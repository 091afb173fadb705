package service

import (
	"context"

	"github.com/tiflun/storefront/internal/models"
)

type ProductQuery struct {
	Limit    int
	Cursor   string
	Status   models.ProductStatus
	Category string
}

type ProductPage struct {
	Products []models.Product `json:"products"`
	Cursor   string           `json:"cursor,omitempty"`
	HasMore  bool             `json:"hasMore"`
}

type ProductRepo interface {
	List(ctx context.Context, q ProductQuery) (*ProductPage, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	Create(ctx context.Context, p *models.Product) (string, error)
	Update(ctx context.Context, id string, p *models.Product) (*models.Product, error)
	Archive(ctx context.Context, id string) error
}

type OrderQuery struct {
	Limit  int
	Cursor string
	Status models.OrderStatus
}

type OrderPage struct {
	Orders  []models.Order `json:"orders"`
	Cursor  string         `json:"cursor,omitempty"`
	HasMore bool           `json:"hasMore"`
}

type OrderRepo interface {
	// CreateTx assigns the next order number and writes order plus counter
	// in one atomic unit.
	CreateTx(ctx context.Context, order *models.Order) (*models.OrderRef, error)
	GetByNumberAndPhone(ctx context.Context, orderNumber, phone string) (*models.Order, error)
	List(ctx context.Context, q OrderQuery) (*OrderPage, error)
	// UpdateStatusTx reads the order, runs guard against its current status,
	// then appends the timeline entry and sets currentStatus atomically.
	UpdateStatusTx(ctx context.Context, id string, entry models.StatusTimelineEntry, guard func(current models.OrderStatus) error) error
}

type AdminRepo interface {
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
}

// EventPublisher is the fire-and-forget event sink; publish failures are
// logged by callers, never surfaced to the shopper.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// Indexer mirrors product writes into the search index.
type Indexer interface {
	IndexProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id string) error
}
