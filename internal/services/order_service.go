// internal/services/order_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gostorefront/storefront-backend/internal/apperrors"
	"github.com/gostorefront/storefront-backend/internal/models"
	"github.com/gostorefront/storefront-backend/internal/utils"
)

var (
	ordersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_orders_created_total",
		Help: "Total number of orders created",
	})
	ordersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_orders_failed_total",
		Help: "Total number of failed order creations",
	}, []string{"reason"})
	orderTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_order_transitions_total",
		Help: "Total number of order status transitions",
	}, []string{"from", "to"})
)

type OrderService struct {
	db   *gorm.DB
	cart *CartService
}

type CreateOrderItem struct {
	ProductID uuid.UUID `json:"product" validate:"required"`
	Quantity  int       `json:"qty" validate:"required,min=1"`
}

type CreateOrderRequest struct {
	Items           []CreateOrderItem      `json:"orderItems" validate:"required,min=1,dive"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   models.PaymentMethod   `json:"paymentMethod"`
	// TotalPrice is the client-computed cart total. It is a display hint
	// only; the order total is always recomputed from catalog prices.
	TotalPrice     float64 `json:"totalPrice"`
	IdempotencyKey string  `json:"idempotencyKey,omitempty" validate:"omitempty,max=64"`
}

type OrderFilter struct {
	utils.PaginationParams
	Status *models.OrderStatus
	UserID *uuid.UUID
}

func NewOrderService(db *gorm.DB, cart *CartService) *OrderService {
	return &OrderService{
		db:   db,
		cart: cart,
	}
}

// CreateOrder turns a cart snapshot into a persisted order, all-or-nothing.
// The total is recomputed server-side from current catalog prices at the
// instant of creation; the client-submitted total is never trusted. On
// success the user's server-side cart is cleared; on failure it is left
// untouched so the user can retry.
func (s *OrderService) CreateOrder(ctx context.Context, userID uuid.UUID, req *CreateOrderRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		ordersFailedTotal.WithLabelValues("invalid_request").Inc()
		return nil, apperrors.Validation("invalid order", utils.GetValidationErrors(err))
	}
	if err := utils.ValidateStruct(&req.ShippingAddress); err != nil {
		ordersFailedTotal.WithLabelValues("incomplete_address").Inc()
		return nil, apperrors.Validation("incomplete shipping address", utils.GetValidationErrors(err))
	}

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = models.PaymentMethodCOD
	}

	idempotencyKey := req.IdempotencyKey
	if idempotencyKey == "" {
		idempotencyKey = uuid.New().String()
	}

	// A network retry of the same checkout attempt returns the order that
	// was already created instead of a duplicate.
	var existing models.Order
	err := s.db.Preload("Items").
		First(&existing, "idempotency_key = ? AND user_id = ?", idempotencyKey, userID).Error
	if err == nil {
		logrus.WithFields(logrus.Fields{
			"order_id":        existing.ID,
			"idempotency_key": idempotencyKey,
		}).Info("Duplicate checkout request, returning existing order")
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check idempotency: %w", err)
	}

	var order *models.Order
	err = s.db.Transaction(func(tx *gorm.DB) error {
		items := make([]models.OrderItem, 0, len(req.Items))
		var total float64

		for _, line := range req.Items {
			var product models.Product
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&product, "id = ?", line.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.Validation(fmt.Sprintf("product %s no longer exists", line.ProductID), nil)
				}
				return fmt.Errorf("database error: %w", err)
			}

			if !product.InStock {
				return apperrors.Validation(fmt.Sprintf("product %q is out of stock", product.Name), nil)
			}

			unitPrice := product.EffectivePrice()
			items = append(items, models.OrderItem{
				ProductID: product.ID,
				Name:      product.Name,
				Image:     product.Image,
				UnitPrice: unitPrice,
				Quantity:  line.Quantity,
			})
			total += unitPrice * float64(line.Quantity)
		}

		if req.TotalPrice > 0 && math.Abs(req.TotalPrice-total) > 0.01 {
			logrus.WithFields(logrus.Fields{
				"user_id":      userID,
				"client_total": req.TotalPrice,
				"server_total": total,
			}).Warn("Client cart total diverges from catalog prices")
		}

		order = &models.Order{
			UserID:          userID,
			Items:           items,
			ShippingAddress: req.ShippingAddress,
			PaymentMethod:   paymentMethod,
			Total:           total,
			Status:          models.OrderStatusPending,
			IdempotencyKey:  idempotencyKey,
		}

		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		return nil
	})

	if err != nil {
		if apperrors.As(err) == nil {
			ordersFailedTotal.WithLabelValues("db_error").Inc()
		} else {
			ordersFailedTotal.WithLabelValues("validation").Inc()
		}
		return nil, err
	}

	ordersCreatedTotal.Inc()
	logrus.WithFields(logrus.Fields{
		"order_id": order.ID,
		"user_id":  userID,
		"total":    order.Total,
	}).Info("Order created")

	// Checkout succeeded, the cart snapshot is spent.
	if err := s.cart.ClearCart(ctx, userID); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("Failed to clear cart after checkout")
	}

	return order, nil
}

// GetOrder enforces ownership: only the owning user or an admin may read an
// order.
func (s *OrderService) GetOrder(id, callerID uuid.UUID, role models.UserRole) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Items").Preload("User").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("order")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !order.AccessibleBy(callerID, role) {
		return nil, apperrors.Forbidden("you do not have access to this order")
	}

	return &order, nil
}

func (s *OrderService) GetMyOrders(userID uuid.UUID, params utils.PaginationParams) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{}).Where("user_id = ?", userID).Preload("Items")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "total", "status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch orders: %w", err)
	}

	return orders, total, nil
}

// ListOrders is the admin view over all orders.
func (s *OrderService) ListOrders(filter OrderFilter) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{}).Preload("Items").Preload("User")

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "total", "status"}
	query = utils.ApplySort(query, filter.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch orders: %w", err)
	}

	return orders, total, nil
}

// UpdateStatus applies an admin-driven transition. The target must be
// adjacent to the current status in the transition table; anything else is
// rejected without touching the row. The guarded UPDATE makes concurrent
// transitions on the same order lose cleanly instead of double-applying.
func (s *OrderService) UpdateStatus(id uuid.UUID, target models.OrderStatus) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("order")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !order.Status.CanTransitionTo(target) {
		return nil, apperrors.InvalidTransition(string(order.Status), string(target))
	}

	result := s.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", id, order.Status).
		Update("status", target)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update order status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// Someone else moved the order first; re-read and report.
		s.db.First(&order, "id = ?", id)
		return nil, apperrors.InvalidTransition(string(order.Status), string(target))
	}

	orderTransitionsTotal.WithLabelValues(string(order.Status), string(target)).Inc()
	logrus.WithFields(logrus.Fields{
		"order_id": id,
		"from":     order.Status,
		"to":       target,
	}).Info("Order status updated")

	order.Status = target
	return &order, nil
}

// CancelMyOrder is the customer cancellation path: the caller must own the
// order and the order must still be pending. Ownership is checked before
// the status precondition, so a non-owner learns nothing about the order's
// state.
func (s *OrderService) CancelMyOrder(id, userID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("order")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if order.UserID != userID {
		return nil, apperrors.Forbidden("you do not have access to this order")
	}

	if !order.Status.CustomerCancellable() {
		return nil, apperrors.InvalidTransition(string(order.Status), string(models.OrderStatusCancelled))
	}

	result := s.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", id, models.OrderStatusPending).
		Update("status", models.OrderStatusCancelled)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		s.db.First(&order, "id = ?", id)
		return nil, apperrors.InvalidTransition(string(order.Status), string(models.OrderStatusCancelled))
	}

	orderTransitionsTotal.WithLabelValues(string(models.OrderStatusPending), string(models.OrderStatusCancelled)).Inc()
	logrus.WithFields(logrus.Fields{
		"order_id": id,
		"user_id":  userID,
	}).Info("Order cancelled by customer")

	order.Status = models.OrderStatusCancelled
	return &order, nil
}
