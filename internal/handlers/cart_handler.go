// internal/handlers/cart_handler.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gostorefront/storefront-backend/internal/services"
	"github.com/gostorefront/storefront-backend/internal/utils"
)

type CartHandler struct {
	cartService *services.CartService
}

func NewCartHandler(cartService *services.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// Get handles GET /api/v1/cart
func (h *CartHandler) Get(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	cart, err := h.cartService.GetCart(c.Request.Context(), userID)
	if err != nil {
		utils.FailResponse(c, err)
		return
	}

	utils.SuccessResponse(c, cart)
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	var body struct {
		ProductID uuid.UUID `json:"product_id"`
		Quantity  int       `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.BadRequestResponse(c, "invalid request body", nil)
		return
	}
	if body.ProductID == uuid.Nil {
		utils.BadRequestResponse(c, "product_id is required", nil)
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), userID, body.ProductID, body.Quantity)
	if err != nil {
		utils.FailResponse(c, err)
		return
	}

	utils.SuccessResponse(c, cart)
}

// UpdateItem handles PUT /api/v1/cart/items/:id
// A quantity of zero or less removes the line.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	productID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.BadRequestResponse(c, "invalid request body", nil)
		return
	}

	cart, err := h.cartService.UpdateQuantity(c.Request.Context(), userID, productID, body.Quantity)
	if err != nil {
		utils.FailResponse(c, err)
		return
	}

	utils.SuccessResponse(c, cart)
}

// RemoveItem handles DELETE /api/v1/cart/items/:id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	productID, ok := parseIDParam(c)
	if !ok {
		return
	}

	cart, err := h.cartService.RemoveItem(c.Request.Context(), userID, productID)
	if err != nil {
		utils.FailResponse(c, err)
		return
	}

	utils.SuccessResponse(c, cart)
}

// Clear handles DELETE /api/v1/cart
func (h *CartHandler) Clear(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.cartService.ClearCart(c.Request.Context(), userID); err != nil {
		utils.FailResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"cleared": true})
}

// Sync handles POST /api/v1/cart/sync
// Called after login to merge a locally kept cart into the server-side one.
func (h *CartHandler) Sync(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	var body struct {
		Items []services.SyncCartItem `json:"items"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.BadRequestResponse(c, "invalid request body", nil)
		return
	}

	cart, err := h.cartService.SyncCart(c.Request.Context(), userID, body.Items)
	if err != nil {
		utils.FailResponse(c, err)
		return
	}

	utils.SuccessResponse(c, cart)
}
