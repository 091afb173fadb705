package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tiflun/storefront/internal/logging"
	"github.com/tiflun/storefront/internal/models"
	"github.com/tiflun/storefront/internal/validation"
)

const DefaultPageSize = 20

// Catalog serves product reads for the storefront and product lifecycle
// for the admin surface. Deletion is soft: products are archived, never
// removed.
type Catalog struct {
	Repo     ProductRepo
	Producer EventPublisher
	Index    Indexer
}

func (s *Catalog) publish(ctx context.Context, event map[string]any) {
	if s.Producer == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(pubCtx, "product_events", fmt.Sprint(event["productId"]), event); err != nil {
		logging.FromContext(ctx).Error("kafka publish failed", "topic", "product_events", "error", err)
	}
}

func (s *Catalog) index(ctx context.Context, p *models.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexProduct(ctx, p); err != nil {
		logging.FromContext(ctx).Error("product index failed", "product_id", p.ID, "error", err)
	}
}

// GetProducts pages the catalog newest-first. Missing status defaults to
// active; cursor is the id of the last document of the previous page.
func (s *Catalog) GetProducts(ctx context.Context, q ProductQuery) (*ProductPage, error) {
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = DefaultPageSize
	}
	if q.Status == "" {
		q.Status = models.ProductActive
	}
	return s.Repo.List(ctx, q)
}

func (s *Catalog) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *Catalog) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return s.Repo.GetBySlug(ctx, slug)
}

func (s *Catalog) CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	if err := validation.ProductCreate(p); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	id, err := s.Repo.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	p.ID = id

	s.index(ctx, p)
	s.publish(ctx, map[string]any{"type": "product_created", "productId": p.ID, "slug": p.Slug})
	return p, nil
}

func (s *Catalog) UpdateProduct(ctx context.Context, id string, p *models.Product) (*models.Product, error) {
	if err := validation.ProductCreate(p); err != nil {
		return nil, err
	}

	p.UpdatedAt = time.Now().UTC()
	updated, err := s.Repo.Update(ctx, id, p)
	if err != nil {
		return nil, err
	}

	s.index(ctx, updated)
	s.publish(ctx, map[string]any{"type": "product_updated", "productId": updated.ID, "slug": updated.Slug})
	return updated, nil
}

// DeleteProduct archives the product so historical orders keep resolving.
func (s *Catalog) DeleteProduct(ctx context.Context, id string) error {
	if err := s.Repo.Archive(ctx, id); err != nil {
		return err
	}

	if s.Index != nil {
		if err := s.Index.DeleteProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Error("product deindex failed", "product_id", id, "error", err)
		}
	}
	s.publish(ctx, map[string]any{"type": "product_archived", "productId": id})
	return nil
}

type StockRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity"  validate:"gt=0"`
}

type ValidatedLine struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Product   *models.Product `json:"product"`
	UnitPrice float64         `json:"unitPrice"`
	Subtotal  float64         `json:"subtotal"`
}

// ValidateStock checks each requested line against the live product record,
// one item at a time. The first failure rejects the whole batch; nothing is
// reserved, so stock can still move between this check and the order write.
func (s *Catalog) ValidateStock(ctx context.Context, items []StockRequest) ([]ValidatedLine, error) {
	validated := make([]ValidatedLine, 0, len(items))

	for _, item := range items {
		product, err := s.Repo.GetByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, fmt.Errorf("%w: product %s", ErrNotFound, item.ProductID)
			}
			return nil, err
		}

		if product.Status != models.ProductActive {
			return nil, fmt.Errorf("%w: %s", ErrUnavailable, product.Title)
		}

		if product.Stock < item.Quantity {
			return nil, fmt.Errorf("%w: %s, available %d", ErrInsufficientStock, product.Title, product.Stock)
		}

		validated = append(validated, ValidatedLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Product:   product,
			UnitPrice: product.Price.Amount,
			Subtotal:  product.Price.Amount * float64(item.Quantity),
		})
	}

	return validated, nil
}
