package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiflun/storefront/internal/models"
	"github.com/tiflun/storefront/internal/validation"
)

// fakeOrderRepo mimics the store's transactional semantics in memory: the
// counter read and order insert happen under one lock, so concurrent
// CreateTx calls contend on the counter exactly like concurrent checkouts.
type fakeOrderRepo struct {
	mu      sync.Mutex
	counter int64
	orders  map[string]*models.Order
	creates int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[string]*models.Order{}}
}

func (r *fakeOrderRepo) CreateTx(_ context.Context, order *models.Order) (*models.OrderRef, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.counter++
	r.creates++
	order.ID = fmt.Sprintf("o%d", r.creates)
	order.OrderNumber = models.FormatOrderNumber("TIF-", order.CreatedAt.Year(), r.counter)
	r.orders[order.ID] = order
	return &models.OrderRef{ID: order.ID, OrderNumber: order.OrderNumber}, nil
}

func (r *fakeOrderRepo) GetByNumberAndPhone(_ context.Context, orderNumber, phone string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, o := range r.orders {
		if o.OrderNumber == orderNumber && o.Customer.Phone == phone {
			return o, nil
		}
	}
	return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderNumber)
}

func (r *fakeOrderRepo) List(_ context.Context, q OrderQuery) (*OrderPage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	page := &OrderPage{Orders: []models.Order{}}
	for _, o := range r.orders {
		if q.Status == "" || o.CurrentStatus == q.Status {
			page.Orders = append(page.Orders, *o)
		}
	}
	sort.Slice(page.Orders, func(i, j int) bool {
		return page.Orders[i].OrderNumber < page.Orders[j].OrderNumber
	})
	return page, nil
}

func (r *fakeOrderRepo) UpdateStatusTx(_ context.Context, id string, entry models.StatusTimelineEntry, guard func(models.OrderStatus) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("%w: order %s", ErrNotFound, id)
	}
	if guard != nil {
		if err := guard(o.CurrentStatus); err != nil {
			return err
		}
	}
	o.StatusTimeline = append(o.StatusTimeline, entry)
	o.CurrentStatus = entry.Status
	o.UpdatedAt = entry.At
	return nil
}

func orderPayload() *models.OrderCreate {
	return &models.OrderCreate{
		Items: []models.OrderItem{{
			ProductID:     "p1",
			TitleSnapshot: "Teak Tray",
			SlugSnapshot:  "teak-tray",
			UnitPrice:     25,
			Quantity:      2,
			Subtotal:      50,
		}},
		Customer: models.OrderCustomer{
			Name:  "Amina Rahman",
			Phone: "+1 (555) 123-4567",
			Address: models.OrderAddress{
				Line1:   "12 Lakeview Road",
				City:    "Dhaka",
				Country: "BD",
			},
		},
		Totals: models.OrderTotals{
			ItemsTotal: 50,
			Tax:        5,
			Shipping:   10,
			Discount:   2,
			GrandTotal: 63,
			Currency:   "BDT",
		},
		Payment: models.OrderPayment{Method: "COD", Status: "unpaid"},
	}
}

func TestCreateOrder_InitialState(t *testing.T) {
	t.Parallel()

	repo := newFakeOrderRepo()
	svc := &Orders{Repo: repo}

	ref, err := svc.CreateOrder(context.Background(), orderPayload())
	require.NoError(t, err)
	require.NotEmpty(t, ref.ID)
	assert.True(t, validation.ValidOrderNumber(ref.OrderNumber))

	created := repo.orders[ref.ID]
	require.NotNil(t, created)
	assert.Equal(t, models.OrderPending, created.CurrentStatus)
	require.Len(t, created.StatusTimeline, 1)
	assert.Equal(t, models.OrderPending, created.StatusTimeline[0].Status)
	assert.Equal(t, "Order received", created.StatusTimeline[0].Note)
	// phone stored normalized so tracking lookups match
	assert.Equal(t, "+15551234567", created.Customer.Phone)
}

func TestCreateOrder_ValidationShortCircuits(t *testing.T) {
	t.Parallel()

	repo := newFakeOrderRepo()
	svc := &Orders{Repo: repo}

	bad := orderPayload()
	bad.Totals.GrandTotal = 999

	_, err := svc.CreateOrder(context.Background(), bad)
	require.Error(t, err)

	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Zero(t, repo.creates, "invalid order must never reach the store")
}

func TestCreateOrder_ConcurrentNumbersUniqueAndSequential(t *testing.T) {
	t.Parallel()

	const n = 50

	repo := newFakeOrderRepo()
	svc := &Orders{Repo: repo}

	var wg sync.WaitGroup
	numbers := make(chan string, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ref, err := svc.CreateOrder(context.Background(), orderPayload())
			if err != nil {
				t.Error(err)
				return
			}
			numbers <- ref.OrderNumber
		}()
	}
	wg.Wait()
	close(numbers)

	seen := map[string]bool{}
	for num := range numbers {
		assert.False(t, seen[num], "duplicate order number %s", num)
		seen[num] = true
	}
	require.Len(t, seen, n)

	// the issued sequence is dense: exactly 1..n
	for seq := int64(1); seq <= n; seq++ {
		want := models.FormatOrderNumber("TIF-", repo.orders["o1"].CreatedAt.Year(), seq)
		assert.True(t, seen[want], "missing sequence number %s", want)
	}
}

func TestGetOrderByNumberAndPhone_NormalizesLookup(t *testing.T) {
	t.Parallel()

	repo := newFakeOrderRepo()
	svc := &Orders{Repo: repo}

	ref, err := svc.CreateOrder(context.Background(), orderPayload())
	require.NoError(t, err)

	// stored as "+15551234567"; both written forms must resolve
	for _, phone := range []string{"+1 (555) 123-4567", "+15551234567"} {
		o, err := svc.GetOrderByNumberAndPhone(context.Background(), ref.OrderNumber, phone)
		require.NoError(t, err)
		assert.Equal(t, ref.ID, o.ID)
	}

	_, err = svc.GetOrderByNumberAndPhone(context.Background(), ref.OrderNumber, "+10000000000")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateOrderStatus_NotFoundNoSideEffect(t *testing.T) {
	t.Parallel()

	repo := newFakeOrderRepo()
	svc := &Orders{Repo: repo}

	err := svc.UpdateOrderStatus(context.Background(), "ghost", models.OrderShipped, "")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, repo.orders)
}

func TestUpdateOrderStatus_AppendsTimeline(t *testing.T) {
	t.Parallel()

	repo := newFakeOrderRepo()
	svc := &Orders{Repo: repo}

	ref, err := svc.CreateOrder(context.Background(), orderPayload())
	require.NoError(t, err)

	require.NoError(t, svc.UpdateOrderStatus(context.Background(), ref.ID, models.OrderProcessing, "picking"))
	require.NoError(t, svc.UpdateOrderStatus(context.Background(), ref.ID, models.OrderProcessing, "still picking"))

	o := repo.orders[ref.ID]
	assert.Equal(t, models.OrderProcessing, o.CurrentStatus)
	// repeats append, never dedupe
	require.Len(t, o.StatusTimeline, 3)
	assert.Equal(t, "still picking", o.StatusTimeline[2].Note)
}

func TestUpdateOrderStatus_IllegalTransition(t *testing.T) {
	t.Parallel()

	repo := newFakeOrderRepo()
	svc := &Orders{Repo: repo}

	ref, err := svc.CreateOrder(context.Background(), orderPayload())
	require.NoError(t, err)

	// pending -> delivered skips the lifecycle
	err = svc.UpdateOrderStatus(context.Background(), ref.ID, models.OrderDelivered, "")
	require.ErrorIs(t, err, ErrInvalidTransition)

	o := repo.orders[ref.ID]
	assert.Equal(t, models.OrderPending, o.CurrentStatus)
	assert.Len(t, o.StatusTimeline, 1)
}

func TestCanTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from, to models.OrderStatus
		want     bool
	}{
		{models.OrderPending, models.OrderProcessing, true},
		{models.OrderPending, models.OrderCancelled, true},
		{models.OrderProcessing, models.OrderPacked, true},
		{models.OrderPacked, models.OrderShipped, true},
		{models.OrderShipped, models.OrderDelivered, true},
		{models.OrderShipped, models.OrderShipped, true},
		{models.OrderDelivered, models.OrderPending, false},
		{models.OrderCancelled, models.OrderProcessing, false},
		{models.OrderPending, models.OrderShipped, false},
		{models.OrderShipped, models.OrderCancelled, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s->%s", tt.from, tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestGetOrders_SearchTermFiltersFetchedPage(t *testing.T) {
	t.Parallel()

	repo := newFakeOrderRepo()
	svc := &Orders{Repo: repo}

	first, err := svc.CreateOrder(context.Background(), orderPayload())
	require.NoError(t, err)

	other := orderPayload()
	other.Customer.Name = "Badal Chowdhury"
	other.Customer.Phone = "+8801700000000"
	_, err = svc.CreateOrder(context.Background(), other)
	require.NoError(t, err)

	page, err := svc.GetOrders(context.Background(), OrderListQuery{SearchTerm: "amina"})
	require.NoError(t, err)
	require.Len(t, page.Orders, 1)
	assert.Equal(t, first.OrderNumber, page.Orders[0].OrderNumber)

	page, err = svc.GetOrders(context.Background(), OrderListQuery{SearchTerm: "880170"})
	require.NoError(t, err)
	require.Len(t, page.Orders, 1)
	assert.Equal(t, "Badal Chowdhury", page.Orders[0].Customer.Name)

	// status=all means no status filter
	page, err = svc.GetOrders(context.Background(), OrderListQuery{Status: "all"})
	require.NoError(t, err)
	assert.Len(t, page.Orders, 2)
}
