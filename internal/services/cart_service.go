// internal/services/cart_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gostorefront/storefront-backend/internal/apperrors"
	"github.com/gostorefront/storefront-backend/internal/models"
)

// Carts live in Redis, one JSON document per user, so they survive page
// reloads and follow the user across devices. The cart is not authoritative
// for prices at checkout; the order service recomputes the total from the
// catalog.
type CartService struct {
	db    *gorm.DB
	redis *redis.Client
}

const cartTTL = 30 * 24 * time.Hour

func NewCartService(db *gorm.DB, redisClient *redis.Client) *CartService {
	return &CartService{
		db:    db,
		redis: redisClient,
	}
}

func cartKey(userID uuid.UUID) string {
	return "cart:" + userID.String()
}

func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	data, err := s.redis.Get(ctx, cartKey(userID)).Bytes()
	if err == redis.Nil {
		return &models.Cart{UserID: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var cart models.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		// A corrupt cart entry is dropped rather than wedging the user.
		s.redis.Del(ctx, cartKey(userID))
		return &models.Cart{UserID: userID}, nil
	}
	cart.UserID = userID
	return &cart, nil
}

func (s *CartService) saveCart(ctx context.Context, cart *models.Cart) error {
	if cart.Empty() {
		if err := s.redis.Del(ctx, cartKey(cart.UserID)).Err(); err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		return nil
	}

	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.redis.Set(ctx, cartKey(cart.UserID), data, cartTTL).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// AddItem snapshots the product's current price into the cart line. Later
// catalog price changes do not touch existing lines.
func (s *CartService) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.Cart, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !product.InStock {
		return nil, apperrors.Validation(fmt.Sprintf("product %q is out of stock", product.Name), nil)
	}

	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.Add(&product, quantity)

	if err := s.saveCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateQuantity sets a line quantity; zero or below removes the line, and
// removing an absent line is a no-op.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.Cart, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.SetQuantity(productID, quantity)

	if err := s.saveCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*models.Cart, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.Remove(productID)

	if err := s.saveCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	if err := s.redis.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

type SyncCartItem struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// SyncCart merges a client-local cart into the server cart, typically right
// after login. Quantities for lines already present are added together;
// unknown or out-of-stock products are skipped.
func (s *CartService) SyncCart(ctx context.Context, userID uuid.UUID, items []SyncCartItem) (*models.Cart, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		var product models.Product
		if err := s.db.First(&product, "id = ?", item.ProductID).Error; err != nil {
			continue
		}
		if !product.InStock {
			continue
		}
		cart.Add(&product, item.Quantity)
	}

	if err := s.saveCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}
