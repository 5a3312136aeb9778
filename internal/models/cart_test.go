// internal/models/cart_test.go
package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newTestProduct(name string, price float64) *Product {
	p := &Product{Name: name, Price: price}
	p.ID = uuid.New()
	return p
}

func TestCartAddNewItem(t *testing.T) {
	cart := &Cart{}
	p := newTestProduct("Áo thun", 150000)

	cart.Add(p, 2)

	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Count())
	assert.InDelta(t, 300000, cart.Total(), 0.001)
	assert.Equal(t, p.Name, cart.Items[0].Name)
}

func TestCartAddMergesExistingLine(t *testing.T) {
	cart := &Cart{}
	p := newTestProduct("Áo thun", 150000)

	cart.Add(p, 1)
	cart.Add(p, 3)

	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 4, cart.Count())
}

func TestCartAddClampsQuantity(t *testing.T) {
	cart := &Cart{}
	p := newTestProduct("Áo thun", 150000)

	cart.Add(p, 0)
	assert.Equal(t, 1, cart.Count())

	cart.Add(p, -5)
	assert.Equal(t, 2, cart.Count())
}

func TestCartSnapshotPriceSurvivesCatalogChange(t *testing.T) {
	cart := &Cart{}
	p := newTestProduct("Áo thun", 150000)

	cart.Add(p, 1)
	p.Price = 200000 // catalog price change after the item was added

	assert.InDelta(t, 150000, cart.Items[0].UnitPrice, 0.001)
	assert.InDelta(t, 150000, cart.Total(), 0.001)
}

func TestCartAddUsesOfferPrice(t *testing.T) {
	cart := &Cart{}
	p := newTestProduct("Áo thun", 150000)
	offer := 120000.0
	p.OfferPrice = &offer

	cart.Add(p, 1)

	assert.InDelta(t, 120000, cart.Items[0].UnitPrice, 0.001)
}

func TestCartSetQuantity(t *testing.T) {
	cart := &Cart{}
	p := newTestProduct("Áo thun", 150000)
	cart.Add(p, 2)

	cart.SetQuantity(p.ID, 5)
	assert.Equal(t, 5, cart.Count())

	// Zero removes the line.
	cart.SetQuantity(p.ID, 0)
	assert.True(t, cart.Empty())

	// Removing again is a no-op.
	cart.SetQuantity(p.ID, 0)
	assert.True(t, cart.Empty())
}

func TestCartSetQuantityUnknownProduct(t *testing.T) {
	cart := &Cart{}
	cart.SetQuantity(uuid.New(), 3)
	assert.True(t, cart.Empty())
}

func TestCartRemove(t *testing.T) {
	cart := &Cart{}
	p1 := newTestProduct("Áo thun", 150000)
	p2 := newTestProduct("Quần jean", 350000)
	cart.Add(p1, 1)
	cart.Add(p2, 1)

	cart.Remove(p1.ID)

	assert.Len(t, cart.Items, 1)
	assert.Equal(t, p2.ID, cart.Items[0].ProductID)
}

func TestCartClear(t *testing.T) {
	cart := &Cart{}
	cart.Add(newTestProduct("Áo thun", 150000), 1)

	cart.Clear()

	assert.True(t, cart.Empty())
	assert.Zero(t, cart.Count())
	assert.Zero(t, cart.Total())
}

func TestEffectivePrice(t *testing.T) {
	p := newTestProduct("Áo thun", 150000)
	assert.InDelta(t, 150000, p.EffectivePrice(), 0.001)

	lower := 120000.0
	p.OfferPrice = &lower
	assert.InDelta(t, 120000, p.EffectivePrice(), 0.001)

	// An offer at or above the list price is ignored.
	higher := 180000.0
	p.OfferPrice = &higher
	assert.InDelta(t, 150000, p.EffectivePrice(), 0.001)

	zero := 0.0
	p.OfferPrice = &zero
	assert.InDelta(t, 150000, p.EffectivePrice(), 0.001)
}
