// internal/models/order_test.go
package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestParseOrderStatus(t *testing.T) {
	for _, s := range []string{"pending", "paid", "shipped", "cancelled"} {
		status, ok := ParseOrderStatus(s)
		assert.True(t, ok, s)
		assert.Equal(t, OrderStatus(s), status)
	}

	for _, s := range []string{"", "Pending", "PAID", "delivered", "refunded"} {
		_, ok := ParseOrderStatus(s)
		assert.False(t, ok, s)
	}
}

func TestOrderStatusTransitions(t *testing.T) {
	all := []OrderStatus{OrderStatusPending, OrderStatusPaid, OrderStatusShipped, OrderStatusCancelled}

	allowed := map[OrderStatus]map[OrderStatus]bool{
		OrderStatusPending: {OrderStatusPaid: true, OrderStatusCancelled: true},
		OrderStatusPaid:    {OrderStatusShipped: true, OrderStatusCancelled: true},
		OrderStatusShipped: {OrderStatusCancelled: true},
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[from][to]
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestOrderStatusNoSelfTransitions(t *testing.T) {
	for _, s := range []OrderStatus{OrderStatusPending, OrderStatusPaid, OrderStatusShipped, OrderStatusCancelled} {
		assert.False(t, s.CanTransitionTo(s), string(s))
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	assert.False(t, OrderStatusPending.Terminal())
	assert.False(t, OrderStatusPaid.Terminal())
	assert.False(t, OrderStatusShipped.Terminal())
	assert.True(t, OrderStatusCancelled.Terminal())
}

func TestCustomerCancellable(t *testing.T) {
	assert.True(t, OrderStatusPending.CustomerCancellable())
	assert.False(t, OrderStatusPaid.CustomerCancellable())
	assert.False(t, OrderStatusShipped.CustomerCancellable())
	assert.False(t, OrderStatusCancelled.CustomerCancellable())
}

func TestOrderAccessibleBy(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()
	order := &Order{UserID: owner}

	assert.True(t, order.AccessibleBy(owner, UserRoleUser))
	assert.False(t, order.AccessibleBy(stranger, UserRoleUser))
	assert.True(t, order.AccessibleBy(stranger, UserRoleAdmin))
}

func TestOrderItemsTotal(t *testing.T) {
	order := &Order{
		Items: []OrderItem{
			{UnitPrice: 150000, Quantity: 2},
			{UnitPrice: 99000, Quantity: 1},
		},
	}

	assert.InDelta(t, 399000, order.ItemsTotal(), 0.001)
}

func TestOrderItemsTotalEmpty(t *testing.T) {
	order := &Order{}
	assert.Zero(t, order.ItemsTotal())
}
