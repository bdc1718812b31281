// Package cart implements the shopping cart: an ordered list of line items,
// at most one per product, each with a quantity of at least one.
package cart

import (
	"errors"
	"fmt"

	"github.com/jcmexdev/mochi-storefront/internal/storefront/catalog"
)

// ErrInvalidQuantity is returned for a quantity outside [1, MaxQuantity] or
// one that would push the total past MaxTotal. The cart is left untouched.
var ErrInvalidQuantity = errors.New("invalid quantity")

const (
	// MaxQuantity bounds the units of a single line.
	MaxQuantity = 9999

	// MaxTotal bounds the cart total. Amounts up to 2^53 stay exact as
	// float64 JSON numbers.
	MaxTotal int64 = 1 << 53
)

// Item is a cart line: the product as it was when added, plus a quantity.
type Item struct {
	catalog.Product
	Quantity int `json:"quantity"`
}

// Subtotal is Price * Quantity.
func (i Item) Subtotal() int64 {
	return i.Price * int64(i.Quantity)
}

// Cart keeps items in first-insertion order. It is not safe for concurrent
// use; callers serialize access (see session.Session).
type Cart struct {
	items []Item
}

func New() *Cart {
	return &Cart{}
}

// Add puts quantity units of p in the cart. A product already present has its
// quantity increased in place; a new one is appended at the end.
func (c *Cart) Add(p catalog.Product, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if quantity > MaxQuantity {
		return tooMany(quantity)
	}
	i := c.indexOf(p.ID)
	next := quantity
	if i >= 0 {
		next += c.items[i].Quantity
	}
	if err := c.checkLine(p.ID, p.Price, next); err != nil {
		return err
	}
	if i >= 0 {
		c.items[i].Quantity = next
		return nil
	}
	c.items = append(c.items, Item{Product: p, Quantity: quantity})
	return nil
}

// Remove deletes the item for id. Removing an absent id is a no-op.
func (c *Cart) Remove(id int64) {
	i := c.indexOf(id)
	if i < 0 {
		return
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
}

// ChangeQuantity sets the quantity of the item for id. Quantities below one
// are rejected rather than treated as a removal. An absent id is a no-op.
func (c *Cart) ChangeQuantity(id int64, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	i := c.indexOf(id)
	if i < 0 {
		return nil
	}
	if err := c.checkLine(id, c.items[i].Price, quantity); err != nil {
		return err
	}
	c.items[i].Quantity = quantity
	return nil
}

// checkLine reports whether the line for id may hold quantity units at price
// without exceeding MaxQuantity or MaxTotal.
func (c *Cart) checkLine(id, price int64, quantity int) error {
	if quantity > MaxQuantity {
		return tooMany(quantity)
	}
	var rest int64
	for _, it := range c.items {
		if it.ID != id {
			rest += it.Subtotal()
		}
	}
	if price > 0 && int64(quantity) > (MaxTotal-rest)/price {
		return fmt.Errorf("%w: total would exceed %d", ErrInvalidQuantity, MaxTotal)
	}
	return nil
}

func tooMany(quantity int) error {
	return fmt.Errorf("%w: %d is above the limit of %d", ErrInvalidQuantity, quantity, MaxQuantity)
}

// Total is recomputed on every call. It never exceeds MaxTotal.
func (c *Cart) Total() int64 {
	var total int64
	for _, it := range c.items {
		total += it.Subtotal()
	}
	return total
}

func (c *Cart) IsEmpty() bool { return len(c.items) == 0 }

// Len is the number of distinct lines.
func (c *Cart) Len() int { return len(c.items) }

// Count is the number of units across all lines.
func (c *Cart) Count() int {
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) Get(id int64) (Item, bool) {
	if i := c.indexOf(id); i >= 0 {
		return c.items[i], true
	}
	return Item{}, false
}

// Items returns a copy of the lines. Item holds no references, so the copy
// is fully detached from the cart.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Reset() {
	c.items = nil
}

func (c *Cart) indexOf(id int64) int {
	for i, it := range c.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
