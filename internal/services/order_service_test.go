// internal/services/order_service_test.go
package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gostorefront/storefront-backend/internal/apperrors"
	"github.com/gostorefront/storefront-backend/internal/models"
)

func validAddress() models.ShippingAddress {
	return models.ShippingAddress{
		FullName: "Nguyễn Văn A",
		Phone:    "0912345678",
		Province: "Hà Nội",
		District: "Cầu Giấy",
		Ward:     "Dịch Vọng",
		Street:   "144 Xuân Thủy",
	}
}

// These exercise the request validation that runs before any database work;
// a nil-backed service is enough.

func TestCreateOrderRejectsEmptyItems(t *testing.T) {
	s := NewOrderService(nil, nil)

	_, err := s.CreateOrder(context.Background(), uuid.New(), &CreateOrderRequest{
		Items:           nil,
		ShippingAddress: validAddress(),
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_ERROR"))
}

func TestCreateOrderRejectsZeroQuantity(t *testing.T) {
	s := NewOrderService(nil, nil)

	_, err := s.CreateOrder(context.Background(), uuid.New(), &CreateOrderRequest{
		Items:           []CreateOrderItem{{ProductID: uuid.New(), Quantity: 0}},
		ShippingAddress: validAddress(),
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_ERROR"))
}

func TestCreateOrderRejectsIncompleteAddress(t *testing.T) {
	s := NewOrderService(nil, nil)

	addr := validAddress()
	addr.Phone = ""

	_, err := s.CreateOrder(context.Background(), uuid.New(), &CreateOrderRequest{
		Items:           []CreateOrderItem{{ProductID: uuid.New(), Quantity: 1}},
		ShippingAddress: addr,
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_ERROR"))
}

func TestCreateOrderRejectsOversizedIdempotencyKey(t *testing.T) {
	s := NewOrderService(nil, nil)

	_, err := s.CreateOrder(context.Background(), uuid.New(), &CreateOrderRequest{
		Items:           []CreateOrderItem{{ProductID: uuid.New(), Quantity: 1}},
		ShippingAddress: validAddress(),
		IdempotencyKey:  strings.Repeat("k", 65),
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_ERROR"))
}

func TestCreateOrderIntegration(t *testing.T) {
	t.Skip("requires postgres and redis")
}
