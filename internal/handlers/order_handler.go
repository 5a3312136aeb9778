// internal/handlers/order_handler.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gostorefront/storefront-backend/internal/models"
	"github.com/gostorefront/storefront-backend/internal/services"
	"github.com/gostorefront/storefront-backend/internal/utils"
)

type OrderHandler struct {
	orderService *services.OrderService
}

func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Create handles POST /api/v1/orders
// An Idempotency-Key header takes precedence over the body field; retrying
// the same key returns the already-created order.
func (h *OrderHandler) Create(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid request body", nil)
		return
	}

	if key := c.GetHeader("Idempotency-Key"); key != "" {
		req.IdempotencyKey = key
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), userID, &req)
	if err != nil {
		utils.FailResponse(c, err)
		return
	}

	utils.CreatedResponse(c, order)
}

// MyOrders handles GET /api/v1/orders/myorders
func (h *OrderHandler) MyOrders(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	orders, total, err := h.orderService.GetMyOrders(userID, params)
	if err != nil {
		utils.FailResponse(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(orders, total, params))
}

// Get handles GET /api/v1/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(id, userID, role)
	if err != nil {
		utils.FailResponse(c, err)
		return
	}

	utils.SuccessResponse(c, order)
}

// Cancel handles PUT /api/v1/orders/:id/cancel
// Customers can only cancel their own orders, and only while still pending.
func (h *OrderHandler) Cancel(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	order, err := h.orderService.CancelMyOrder(id, userID)
	if err != nil {
		utils.FailResponse(c, err)
		return
	}

	utils.SuccessResponse(c, order)
}

// List handles GET /api/v1/admin/orders
// Supported query params: status, user, page, limit, sort, order.
func (h *OrderHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	filter := services.OrderFilter{PaginationParams: params}

	if statusStr := c.Query("status"); statusStr != "" {
		status, ok := models.ParseOrderStatus(statusStr)
		if !ok {
			utils.BadRequestResponse(c, "unknown order status "+statusStr, nil)
			return
		}
		filter.Status = &status
	}
	if userStr := c.Query("user"); userStr != "" {
		userID, err := uuid.Parse(userStr)
		if err != nil {
			utils.BadRequestResponse(c, "invalid user id", nil)
			return
		}
		filter.UserID = &userID
	}

	orders, total, err := h.orderService.ListOrders(filter)
	if err != nil {
		utils.FailResponse(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(orders, total, params))
}

// UpdateStatus handles PUT /api/v1/admin/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.BadRequestResponse(c, "invalid request body", nil)
		return
	}

	status, ok := models.ParseOrderStatus(body.Status)
	if !ok {
		utils.BadRequestResponse(c, "unknown order status "+body.Status, nil)
		return
	}

	order, err := h.orderService.UpdateStatus(id, status)
	if err != nil {
		utils.FailResponse(c, err)
		return
	}

	utils.SuccessResponse(c, order)
}
