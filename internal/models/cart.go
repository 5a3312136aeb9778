// internal/models/cart.go
package models

import (
	"github.com/google/uuid"
)

// CartItem is one line of a user's cart. UnitPrice is a snapshot taken when
// the item was added; catalog price changes do not touch it.
type CartItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Image     string    `json:"image"`
	UnitPrice float64   `json:"unit_price"`
	Quantity  int       `json:"quantity"`
}

func (i *CartItem) LineTotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

// Cart is the pre-checkout collection of items for one user. Count and Total
// are recomputed from the items on every call rather than stored, so they
// cannot drift.
type Cart struct {
	UserID uuid.UUID  `json:"user_id"`
	Items  []CartItem `json:"items"`
}

func (c *Cart) Count() int {
	var n int
	for i := range c.Items {
		n += c.Items[i].Quantity
	}
	return n
}

func (c *Cart) Total() float64 {
	var sum float64
	for i := range c.Items {
		sum += c.Items[i].LineTotal()
	}
	return sum
}

func (c *Cart) Empty() bool {
	return len(c.Items) == 0
}

// Find returns the item for productID, or nil.
func (c *Cart) Find(productID uuid.UUID) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// Add merges quantity into an existing line or appends a new one with a
// price snapshot from the product. Quantities below one are clamped to one.
func (c *Cart) Add(p *Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	if item := c.Find(p.ID); item != nil {
		item.Quantity += quantity
		return
	}
	c.Items = append(c.Items, CartItem{
		ProductID: p.ID,
		Name:      p.Name,
		Image:     p.Image,
		UnitPrice: p.EffectivePrice(),
		Quantity:  quantity,
	})
}

// SetQuantity sets the line quantity; zero or negative removes the line.
// Removes are idempotent.
func (c *Cart) SetQuantity(productID uuid.UUID, quantity int) {
	if quantity <= 0 {
		c.Remove(productID)
		return
	}
	if item := c.Find(productID); item != nil {
		item.Quantity = quantity
	}
}

func (c *Cart) Remove(productID uuid.UUID) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

func (c *Cart) Clear() {
	c.Items = nil
}
