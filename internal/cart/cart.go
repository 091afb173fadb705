// Package cart holds the client-session cart: an ordered list of product
// references unique by productId, with quantities clamped to the stock
// snapshot taken when the item was added. Mutations clamp rather than
// reject and report the quantity actually applied.
package cart

import "time"

type Item struct {
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image,omitempty"`
	Slug      string  `json:"slug"`
	Stock     int     `json:"stock"`
}

type Cart struct {
	Items     []Item    `json:"items"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func New() *Cart {
	return &Cart{Items: []Item{}, UpdatedAt: time.Now().UTC()}
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now().UTC()
}

func (c *Cart) indexOf(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// AddItem merges item into the cart. An existing entry accumulates quantity
// up to the stock snapshot, a new entry is inserted clamped the same way.
// The returned value is the quantity the item ended up with, which may be
// less than requested.
func (c *Cart) AddItem(item Item, quantity int) int {
	if quantity < 1 {
		quantity = 1
	}

	if i := c.indexOf(item.ProductID); i >= 0 {
		applied := min(c.Items[i].Quantity+quantity, item.Stock)
		c.Items[i].Quantity = applied
		c.touch()
		return applied
	}

	applied := min(quantity, item.Stock)
	item.Quantity = applied
	c.Items = append(c.Items, item)
	c.touch()
	return applied
}

// UpdateItemQuantity sets the quantity for productID, clamped to the stock
// snapshot. A quantity of zero or less removes the item. Returns the applied
// quantity (0 after a removal or when the item is absent).
func (c *Cart) UpdateItemQuantity(productID string, quantity int) int {
	i := c.indexOf(productID)
	if i < 0 {
		return 0
	}

	if quantity <= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		c.touch()
		return 0
	}

	applied := min(quantity, c.Items[i].Stock)
	c.Items[i].Quantity = applied
	c.touch()
	return applied
}

func (c *Cart) RemoveItem(productID string) {
	if i := c.indexOf(productID); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		c.touch()
	}
}

func (c *Cart) Clear() {
	c.Items = []Item{}
	c.touch()
}

func (c *Cart) TotalItems() int {
	total := 0
	for i := range c.Items {
		total += c.Items[i].Quantity
	}
	return total
}

func (c *Cart) TotalPrice() float64 {
	total := 0.0
	for i := range c.Items {
		total += c.Items[i].Price * float64(c.Items[i].Quantity)
	}
	return total
}

func (c *Cart) ItemCount(productID string) int {
	if i := c.indexOf(productID); i >= 0 {
		return c.Items[i].Quantity
	}
	return 0
}

func (c *Cart) IsInCart(productID string) bool {
	return c.indexOf(productID) >= 0
}
