// internal/handlers/category_handler.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gostorefront/storefront-backend/internal/services"
	"github.com/gostorefront/storefront-backend/internal/utils"
)

type CategoryHandler struct {
	catalogService *services.CatalogService
}

func NewCategoryHandler(catalogService *services.CatalogService) *CategoryHandler {
	return &CategoryHandler{catalogService: catalogService}
}

// List handles GET /api/v1/categories
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.catalogService.ListCategories()
	if err != nil {
		utils.FailResponse(c, err)
		return
	}

	utils.SuccessResponse(c, categories)
}

// Create handles POST /api/v1/admin/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var body struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.BadRequestResponse(c, "invalid request body", nil)
		return
	}

	category, err := h.catalogService.CreateCategory(strings.TrimSpace(body.Name))
	if err != nil {
		utils.FailResponse(c, err)
		return
	}

	utils.CreatedResponse(c, category)
}

// Update handles PUT /api/v1/admin/categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var body struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.BadRequestResponse(c, "invalid request body", nil)
		return
	}

	category, err := h.catalogService.UpdateCategory(id, strings.TrimSpace(body.Name))
	if err != nil {
		utils.FailResponse(c, err)
		return
	}

	utils.SuccessResponse(c, category)
}

// Delete handles DELETE /api/v1/admin/categories/:id
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.catalogService.DeleteCategory(id); err != nil {
		utils.FailResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": true})
}
