// internal/handlers/product_handler.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gostorefront/storefront-backend/internal/services"
	"github.com/gostorefront/storefront-backend/internal/utils"
)

type ProductHandler struct {
	catalogService *services.CatalogService
	storageService *services.StorageService
}

func NewProductHandler(catalogService *services.CatalogService, storageService *services.StorageService) *ProductHandler {
	return &ProductHandler{
		catalogService: catalogService,
		storageService: storageService,
	}
}

// List handles GET /api/v1/products
// Supported query params: search, category, featured, page, limit, sort, order.
func (h *ProductHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	filter := services.ProductFilter{
		PaginationParams: params,
		Query:            params.Search,
	}

	if categoryStr := c.Query("category"); categoryStr != "" {
		categoryID, err := uuid.Parse(categoryStr)
		if err != nil {
			utils.BadRequestResponse(c, "invalid category id", nil)
			return
		}
		filter.CategoryID = &categoryID
	}
	if featuredStr := c.Query("featured"); featuredStr != "" {
		featured, err := strconv.ParseBool(featuredStr)
		if err != nil {
			utils.BadRequestResponse(c, "invalid featured flag", nil)
			return
		}
		filter.Featured = &featured
	}

	products, total, err := h.catalogService.ListProducts(filter)
	if err != nil {
		utils.FailResponse(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(products, total, params))
}

// Get handles GET /api/v1/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	product, err := h.catalogService.GetProduct(id)
	if err != nil {
		utils.FailResponse(c, err)
		return
	}

	utils.SuccessResponse(c, product)
}

// GetBySlug handles GET /api/v1/products/slug/:slug
func (h *ProductHandler) GetBySlug(c *gin.Context) {
	product, err := h.catalogService.GetProductBySlug(c.Param("slug"))
	if err != nil {
		utils.FailResponse(c, err)
		return
	}

	utils.SuccessResponse(c, product)
}

// Featured handles GET /api/v1/products/featured
func (h *ProductHandler) Featured(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "8"))
	if limit < 1 || limit > 50 {
		limit = 8
	}

	products, err := h.catalogService.GetFeaturedProducts(limit)
	if err != nil {
		utils.FailResponse(c, err)
		return
	}

	utils.SuccessResponse(c, products)
}

// Create handles POST /api/v1/admin/products (multipart form).
// The image file is stored first; when the catalog rejects the product the
// freshly uploaded bytes are removed so nothing is left orphaned.
func (h *ProductHandler) Create(c *gin.Context) {
	req, imageURL, ok := h.bindProductForm(c, true)
	if !ok {
		return
	}

	product, err := h.catalogService.CreateProduct(req)
	if err != nil {
		if imageURL != "" {
			h.storageService.DeleteByURL(imageURL)
		}
		utils.FailResponse(c, err)
		return
	}

	utils.CreatedResponse(c, product)
}

// Update handles PUT /api/v1/admin/products/:id (multipart form, image
// optional).
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	createReq, imageURL, ok := h.bindProductForm(c, false)
	if !ok {
		return
	}

	updateReq := &services.UpdateProductRequest{
		Name:       createReq.Name,
		Image:      imageURL,
		Gallery:    createReq.Gallery,
		CategoryID: createReq.CategoryID,
		InStock:    createReq.InStock,
		OfferPrice: createReq.OfferPrice,
	}
	if createReq.Price > 0 {
		updateReq.Price = &createReq.Price
	}
	if c.PostForm("description") != "" || c.PostForm("clear_description") == "true" {
		updateReq.Description = &createReq.Description
	}

	product, err := h.catalogService.UpdateProduct(id, updateReq)
	if err != nil {
		if imageURL != "" {
			h.storageService.DeleteByURL(imageURL)
		}
		utils.FailResponse(c, err)
		return
	}

	utils.SuccessResponse(c, product)
}

// Delete handles DELETE /api/v1/admin/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.catalogService.DeleteProduct(id); err != nil {
		utils.FailResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": true})
}

// SetFeatured handles PUT /api/v1/admin/products/:id/featured
func (h *ProductHandler) SetFeatured(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var body struct {
		Featured bool `json:"featured"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.BadRequestResponse(c, "invalid request body", nil)
		return
	}

	product, err := h.catalogService.SetFeatured(id, body.Featured)
	if err != nil {
		utils.FailResponse(c, err)
		return
	}

	utils.SuccessResponse(c, product)
}

// bindProductForm reads the multipart product form shared by Create and
// Update. It uploads the image file when one is attached and returns its
// public URL so the caller can clean up on a later failure.
func (h *ProductHandler) bindProductForm(c *gin.Context, imageRequired bool) (*services.CreateProductRequest, string, bool) {
	req := &services.CreateProductRequest{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
	}

	if priceStr := c.PostForm("price"); priceStr != "" {
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil {
			utils.BadRequestResponse(c, "invalid price", nil)
			return nil, "", false
		}
		req.Price = price
	}
	if offerStr := c.PostForm("offer_price"); offerStr != "" {
		offer, err := strconv.ParseFloat(offerStr, 64)
		if err != nil {
			utils.BadRequestResponse(c, "invalid offer price", nil)
			return nil, "", false
		}
		req.OfferPrice = &offer
	}
	if categoryStr := c.PostForm("category_id"); categoryStr != "" {
		categoryID, err := uuid.Parse(categoryStr)
		if err != nil {
			utils.BadRequestResponse(c, "invalid category id", nil)
			return nil, "", false
		}
		req.CategoryID = &categoryID
	}
	if featuredStr := c.PostForm("featured"); featuredStr != "" {
		featured, err := strconv.ParseBool(featuredStr)
		if err != nil {
			utils.BadRequestResponse(c, "invalid featured flag", nil)
			return nil, "", false
		}
		req.Featured = featured
	}
	if inStockStr := c.PostForm("in_stock"); inStockStr != "" {
		inStock, err := strconv.ParseBool(inStockStr)
		if err != nil {
			utils.BadRequestResponse(c, "invalid in_stock flag", nil)
			return nil, "", false
		}
		req.InStock = &inStock
	}

	imageURL := ""
	file, header, err := c.Request.FormFile("image")
	if err == nil {
		defer file.Close()

		if err := h.storageService.ValidateImage(file); err != nil {
			utils.BadRequestResponse(c, err.Error(), nil)
			return nil, "", false
		}

		result, err := h.storageService.UploadFile(file, header, h.storageService.GetDefaultUploadOptions("products"))
		if err != nil {
			utils.BadRequestResponse(c, err.Error(), nil)
			return nil, "", false
		}
		imageURL = result.URL
		req.Image = imageURL
	} else if imageRequired {
		utils.BadRequestResponse(c, "product image is required", nil)
		return nil, "", false
	}

	return req, imageURL, true
}
