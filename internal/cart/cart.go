// Package cart implements the session-local shopping cart. A Cart is a
// value: every transition returns a new Cart and leaves the receiver as it
// was, so it can be held by any state container without locking.
package cart

import (
	"strconv"
	"strings"

	"coqueta/internal/domain"

	"github.com/shopspring/decimal"
)

// Item is one cart line. Product is a copy taken when the line was added.
type Item struct {
	Product  domain.Product `json:"producto"`
	Quantity int            `json:"cantidad"`
}

// UnitPrice returns the product's sale price, zero when it has none
func (it Item) UnitPrice() decimal.Decimal {
	if it.Product.SalePrice == nil {
		return decimal.Zero
	}
	return *it.Product.SalePrice
}

// Subtotal returns unit price times quantity
func (it Item) Subtotal() decimal.Decimal {
	return it.UnitPrice().Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// Cart holds at most one item per product id, in insertion order
type Cart struct {
	items []Item
}

// New returns an empty cart
func New() Cart {
	return Cart{}
}

// Add appends the product or, when it is already present, increases its
// quantity. Quantities below 1 are rejected.
func (c Cart) Add(p domain.Product, quantity int) (Cart, error) {
	if quantity < 1 {
		return c, &domain.ValidationError{Field: "cantidad", Err: domain.ErrInvalidQuantity}
	}

	items := c.clone()
	if i := c.index(p.ID); i >= 0 {
		items[i].Quantity += quantity
		return Cart{items: items}, nil
	}
	return Cart{items: append(items, Item{Product: p, Quantity: quantity})}, nil
}

// Remove drops the item for productID, if any
func (c Cart) Remove(productID string) Cart {
	i := c.index(productID)
	if i < 0 {
		return c
	}
	items := make([]Item, 0, len(c.items)-1)
	items = append(items, c.items[:i]...)
	items = append(items, c.items[i+1:]...)
	return Cart{items: items}
}

// SetQuantity overwrites the quantity of productID. It does not clamp
// against stock; callers that want clamping use ClampToStock first.
func (c Cart) SetQuantity(productID string, quantity int) Cart {
	i := c.index(productID)
	if i < 0 {
		return c
	}
	items := c.clone()
	items[i].Quantity = quantity
	return Cart{items: items}
}

// Clear returns an empty cart
func (c Cart) Clear() Cart {
	return Cart{}
}

// Total is the unrounded sum of unit price times quantity
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// Count is the sum of all quantities
func (c Cart) Count() int {
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

// Items returns a copy of the cart lines
func (c Cart) Items() []Item {
	return c.clone()
}

func (c Cart) Len() int { return len(c.items) }

func (c Cart) IsEmpty() bool { return len(c.items) == 0 }

// Get returns the item for productID
func (c Cart) Get(productID string) (Item, bool) {
	i := c.index(productID)
	if i < 0 {
		return Item{}, false
	}
	return c.items[i], true
}

func (c Cart) index(productID string) int {
	for i, it := range c.items {
		if it.Product.ID == productID {
			return i
		}
	}
	return -1
}

func (c Cart) clone() []Item {
	if len(c.items) == 0 {
		return nil
	}
	return append(make([]Item, 0, len(c.items)+1), c.items...)
}

// ParseQuantity converts a quantity typed by a shopper. Empty, non-numeric
// and non-positive values are rejected.
func ParseQuantity(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, &domain.ValidationError{Field: "cantidad", Err: domain.ErrInvalidQuantity}
	}
	return n, nil
}

// ClampToStock limits a requested quantity to [1, stock]. Unknown stock
// does not limit the quantity.
func ClampToStock(quantity int, stock *int) int {
	if stock != nil && quantity > *stock {
		quantity = *stock
	}
	if quantity < 1 {
		quantity = 1
	}
	return quantity
}
