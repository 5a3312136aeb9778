// internal/models/order.go
package models

import (
	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// ParseOrderStatus validates a client-supplied status value against the
// enumerated set. Every mutation path goes through this instead of comparing
// raw strings.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped, OrderStatusCancelled:
		return OrderStatus(s), true
	}
	return "", false
}

// orderTransitions is the authoritative transition table for admin-driven
// status changes. Customer cancellation is narrower, see CustomerCancellable.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending: {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:    {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped: {OrderStatusCancelled},
}

// CanTransitionTo reports whether next is adjacent to s in the transition
// table. shipped and cancelled have no outgoing edges except the admin
// cancellation path out of shipped.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CustomerCancellable reports whether the owning user may still cancel an
// order in this status. The customer path is pending-only; later states can
// only be cancelled by an admin.
func (s OrderStatus) CustomerCancellable() bool {
	return s == OrderStatusPending
}

// Terminal reports whether the status has no outgoing transitions at all.
func (s OrderStatus) Terminal() bool {
	return len(orderTransitions[s]) == 0
}

// ShippingAddress is embedded in the order row. All fields are required at
// checkout.
type ShippingAddress struct {
	FullName string `json:"full_name" gorm:"size:100" validate:"required"`
	Phone    string `json:"phone" gorm:"size:20" validate:"required"`
	Province string `json:"province" gorm:"size:100" validate:"required"`
	District string `json:"district" gorm:"size:100" validate:"required"`
	Ward     string `json:"ward" gorm:"size:100" validate:"required"`
	Street   string `json:"street" gorm:"size:255" validate:"required"`
}

type Order struct {
	BaseModel
	UserID          uuid.UUID       `json:"user_id" gorm:"type:uuid;not null;index"`
	Items           []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ShippingAddress ShippingAddress `json:"shipping_address" gorm:"embedded;embeddedPrefix:ship_"`
	PaymentMethod   PaymentMethod   `json:"payment_method" gorm:"size:20;default:'COD';not null"`
	// Total is a snapshot computed from catalog prices at checkout. It is
	// never recomputed after creation.
	Total          float64     `json:"total" gorm:"type:decimal(14,2);not null"`
	Status         OrderStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	IdempotencyKey string      `json:"-" gorm:"uniqueIndex;size:64"`

	// Relationships
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// OrderItem is an embedded line of its order; it has no lifecycle of its own.
// Name, image and unit price are denormalized snapshots so later catalog
// edits do not rewrite order history.
type OrderItem struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OrderID   uuid.UUID `json:"order_id" gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	Image     string    `json:"image" gorm:"size:512"`
	UnitPrice float64   `json:"unit_price" gorm:"type:decimal(14,2);not null"`
	Quantity  int       `json:"quantity" gorm:"not null"`
}

// LineTotal is derived, never stored.
func (i *OrderItem) LineTotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

/// AccessibleBy reports whether the caller may read or mutate this order:
// the owning user, or an admin.
func (o *Order) AccessibleBy(userID uuid.UUID, role UserRole) bool {
	return role == UserRoleAdmin || o.UserID == userID
}

// ItemsTotal sums the line totals of the embedded items.
func (o *Order) ItemsTotal() float64 {
	var sum float64
	for i := range o.Items {
		sum += o.Items[i].LineTotal()
	}
	return sum
}
