package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(productID string, price float64, stock int) Item {
	return Item{
		ProductID: productID,
		Title:     "Item " + productID,
		Price:     price,
		Slug:      "item-" + productID,
		Stock:     stock,
	}
}

func TestAddItem_ClampsToStockSnapshot(t *testing.T) {
	t.Parallel()

	c := New()

	applied := c.AddItem(item("p1", 10, 5), 3)
	assert.Equal(t, 3, applied)

	// stock=5, add 3 then add 4 -> 5, not 7
	applied = c.AddItem(item("p1", 10, 5), 4)
	assert.Equal(t, 5, applied)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Items[0].Quantity)
}

func TestAddItem_NewItemClamped(t *testing.T) {
	t.Parallel()

	c := New()
	applied := c.AddItem(item("p1", 10, 2), 9)
	assert.Equal(t, 2, applied)
	assert.Equal(t, 2, c.ItemCount("p1"))
}

func TestAddItem_DefaultQuantityIsOne(t *testing.T) {
	t.Parallel()

	c := New()
	applied := c.AddItem(item("p1", 10, 5), 0)
	assert.Equal(t, 1, applied)
}

func TestAddItem_NeverDuplicatesEntries(t *testing.T) {
	t.Parallel()

	c := New()
	c.AddItem(item("p1", 10, 10), 1)
	c.AddItem(item("p2", 20, 10), 1)
	c.AddItem(item("p1", 10, 10), 1)

	require.Len(t, c.Items, 2)
	assert.Equal(t, 2, c.ItemCount("p1"))
}

func TestUpdateItemQuantity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		quantity    int
		wantApplied int
		wantInCart  bool
	}{
		{name: "within stock", quantity: 4, wantApplied: 4, wantInCart: true},
		{name: "clamped to stock", quantity: 100, wantApplied: 5, wantInCart: true},
		{name: "zero removes", quantity: 0, wantApplied: 0, wantInCart: false},
		{name: "negative removes", quantity: -3, wantApplied: 0, wantInCart: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			c.AddItem(item("p1", 10, 5), 2)

			applied := c.UpdateItemQuantity("p1", tt.quantity)
			assert.Equal(t, tt.wantApplied, applied)
			assert.Equal(t, tt.wantInCart, c.IsInCart("p1"))

			// resulting quantity is always in [0, stockSnapshot]
			q := c.ItemCount("p1")
			assert.GreaterOrEqual(t, q, 0)
			assert.LessOrEqual(t, q, 5)
		})
	}
}

func TestUpdateItemQuantity_MissingItem(t *testing.T) {
	t.Parallel()

	c := New()
	assert.Equal(t, 0, c.UpdateItemQuantity("nope", 3))
}

func TestDerivedReads(t *testing.T) {
	t.Parallel()

	c := New()
	c.AddItem(item("p1", 10, 10), 2)
	c.AddItem(item("p2", 5.5, 10), 3)

	assert.Equal(t, 5, c.TotalItems())
	assert.InDelta(t, 36.5, c.TotalPrice(), 0.001)
	assert.True(t, c.IsInCart("p2"))
	assert.False(t, c.IsInCart("p3"))
}

func TestClear(t *testing.T) {
	t.Parallel()

	c := New()
	c.AddItem(item("p1", 10, 10), 2)
	before := c.UpdatedAt

	c.Clear()
	assert.Empty(t, c.Items)
	assert.False(t, c.UpdatedAt.Before(before))
}

func TestRemoveItem(t *testing.T) {
	t.Parallel()

	c := New()
	c.AddItem(item("p1", 10, 10), 2)
	c.AddItem(item("p2", 10, 10), 1)

	c.RemoveItem("p1")
	require.Len(t, c.Items, 1)
	assert.Equal(t, "p2", c.Items[0].ProductID)

	// removing an absent item is a no-op
	c.RemoveItem("p1")
	require.Len(t, c.Items, 1)
}

type memStore struct {
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}}
}

func (m *memStore) Load(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memStore) Save(_ context.Context, key string, value []byte) error {
	m.data[key] = value
	return nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func TestKeeper_RoundTrip(t *testing.T) {
	t.Parallel()

	k := &Keeper{Store: newMemStore()}
	ctx := context.Background()

	// unknown session loads an empty cart
	c, err := k.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, c.Items)

	c.AddItem(item("p1", 10, 5), 2)
	require.NoError(t, k.Save(ctx, "s1", c))

	loaded, err := k.Load(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, 2, loaded.Items[0].Quantity)

	require.NoError(t, k.Drop(ctx, "s1"))
	again, err := k.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, again.Items)
}
