package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tiflun/storefront/internal/logging"
	"github.com/tiflun/storefront/internal/models"
	"github.com/tiflun/storefront/internal/validation"
)

// transitions is the allowed adjacency of the order lifecycle. Repeating the
// current status is always allowed so admins can append note-only timeline
// entries; delivered and cancelled are terminal.
var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderPending:    {models.OrderProcessing, models.OrderCancelled},
	models.OrderProcessing: {models.OrderPacked, models.OrderCancelled},
	models.OrderPacked:     {models.OrderShipped, models.OrderCancelled},
	models.OrderShipped:    {models.OrderDelivered},
	models.OrderDelivered:  {},
	models.OrderCancelled:  {},
}

// CanTransition reports whether current -> next is a legal lifecycle move.
func CanTransition(current, next models.OrderStatus) bool {
	if current == next {
		return true
	}
	for _, allowed := range transitions[current] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Orders is the order writer and status manager. All multi-document writes
// (order+counter, status+timeline) go through the repo's transaction
// methods; this layer never retries aborted transactions.
type Orders struct {
	Repo     OrderRepo
	Producer EventPublisher
}

func (s *Orders) publish(ctx context.Context, key string, event map[string]any) {
	if s.Producer == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(pubCtx, "order_events", key, event); err != nil {
		logging.FromContext(ctx).Error("kafka publish failed", "topic", "order_events", "error", err)
	}
}

// CreateOrder validates the payload and writes the order together with the
// counter increment in one atomic unit. Either both land or neither does;
// a detected write conflict surfaces as ErrTransactionAborted.
func (s *Orders) CreateOrder(ctx context.Context, oc *models.OrderCreate) (*models.OrderRef, error) {
	if err := validation.OrderCreate(oc); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order := &models.Order{
		Items:         oc.Items,
		Customer:      oc.Customer,
		Notes:         oc.Notes,
		Totals:        oc.Totals,
		Payment:       oc.Payment,
		CurrentStatus: models.OrderPending,
		StatusTimeline: []models.StatusTimelineEntry{
			{Status: models.OrderPending, At: now, Note: "Order received"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	ref, err := s.Repo.CreateTx(ctx, order)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, ref.OrderNumber, map[string]any{
		"type":        "order_created",
		"orderId":     ref.ID,
		"orderNumber": ref.OrderNumber,
		"grandTotal":  order.Totals.GrandTotal,
		"currency":    order.Totals.Currency,
	})
	return ref, nil
}

// GetOrderByNumberAndPhone is the public tracking lookup. Both fields must
// match exactly; the phone is normalized here so it compares against the
// normalized value stored at order time.
func (s *Orders) GetOrderByNumberAndPhone(ctx context.Context, orderNumber, phone string) (*models.Order, error) {
	return s.Repo.GetByNumberAndPhone(ctx, orderNumber, validation.NormalizePhone(phone))
}

type OrderListQuery struct {
	Limit      int
	Cursor     string
	Status     models.OrderStatus
	SearchTerm string
}

// GetOrders pages orders newest-first. SearchTerm filters only the fetched
// page (order number, customer name, phone), never the full collection.
func (s *Orders) GetOrders(ctx context.Context, q OrderListQuery) (*OrderPage, error) {
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = DefaultPageSize
	}
	if q.Status == "all" {
		q.Status = ""
	}

	page, err := s.Repo.List(ctx, OrderQuery{Limit: q.Limit, Cursor: q.Cursor, Status: q.Status})
	if err != nil {
		return nil, err
	}

	if q.SearchTerm != "" {
		term := strings.ToLower(q.SearchTerm)
		filtered := make([]models.Order, 0, len(page.Orders))
		for _, o := range page.Orders {
			if strings.Contains(strings.ToLower(o.OrderNumber), term) ||
				strings.Contains(strings.ToLower(o.Customer.Name), term) ||
				strings.Contains(o.Customer.Phone, term) {
				filtered = append(filtered, o)
			}
		}
		page.Orders = filtered
	}

	return page, nil
}

// UpdateOrderStatus moves an order through its lifecycle, appending a
// timeline entry and updating currentStatus atomically. Illegal moves fail
// with ErrInvalidTransition before anything is written.
func (s *Orders) UpdateOrderStatus(ctx context.Context, id string, newStatus models.OrderStatus, note string) error {
	upd := validation.StatusUpdate{OrderID: id, NewStatus: string(newStatus), Note: note}
	if err := validation.OrderStatusUpdate(&upd); err != nil {
		return err
	}

	entry := models.StatusTimelineEntry{Status: newStatus, At: time.Now().UTC(), Note: note}
	err := s.Repo.UpdateStatusTx(ctx, id, entry, func(current models.OrderStatus) error {
		if !CanTransition(current, newStatus) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, newStatus)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(ctx, id, map[string]any{
		"type":    "order_status_updated",
		"orderId": id,
		"status":  newStatus,
	})
	return nil
}
