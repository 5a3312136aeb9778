// internal/services/catalog_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/gostorefront/storefront-backend/internal/apperrors"
	"github.com/gostorefront/storefront-backend/internal/models"
	"github.com/gostorefront/storefront-backend/internal/utils"
)

// CatalogService owns products and categories. It holds the storage service
// so replaced or deleted product images get their bytes removed as part of
// the same operation.
type CatalogService struct {
	db      *gorm.DB
	storage *StorageService
}

type CreateProductRequest struct {
	Name        string     `json:"name" validate:"required,min=2,max=255"`
	Price       float64    `json:"price" validate:"required,gt=0"`
	OfferPrice  *float64   `json:"offer_price,omitempty" validate:"omitempty,gt=0"`
	Description string     `json:"description,omitempty"`
	Image       string     `json:"image" validate:"required"`
	Gallery     []string   `json:"gallery,omitempty"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
	Featured    bool       `json:"featured,omitempty"`
	InStock     *bool      `json:"in_stock,omitempty"`
}

type UpdateProductRequest struct {
	Name        string     `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Price       *float64   `json:"price,omitempty" validate:"omitempty,gt=0"`
	OfferPrice  *float64   `json:"offer_price,omitempty" validate:"omitempty,gt=0"`
	Description *string    `json:"description,omitempty"`
	Image       string     `json:"image,omitempty"`
	Gallery     []string   `json:"gallery,omitempty"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
	InStock     *bool      `json:"in_stock,omitempty"`
}

type ProductFilter struct {
	utils.PaginationParams
	CategoryID *uuid.UUID
	Query      string
	Featured   *bool
}

func NewCatalogService(db *gorm.DB, storage *StorageService) *CatalogService {
	return &CatalogService{
		db:      db,
		storage: storage,
	}
}

// ListProducts returns products matching the filter: exact category match,
// case-insensitive substring match on name, boolean equality on featured.
func (s *CatalogService) ListProducts(filter ProductFilter) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{}).Preload("Category")

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Query != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Query+"%")
	}
	if filter.Featured != nil {
		query = query.Where("featured = ?", *filter.Featured)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "name", "price"}
	query = utils.ApplySort(query, filter.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, total, nil
}

func (s *CatalogService) GetProduct(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.Preload("Category").First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

func (s *CatalogService) GetProductBySlug(slug string) (*models.Product, error) {
	var product models.Product
	if err := s.db.Preload("Category").First(&product, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

func (s *CatalogService) GetFeaturedProducts(limit int) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.Where("featured = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Preload("Category").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch featured products: %w", err)
	}
	return products, nil
}

// CreateProduct derives the slug from the name and rejects duplicates with
// a conflict error before anything is written. The caller is responsible
// for cleaning up a freshly uploaded image when an error comes back.
func (s *CatalogService) CreateProduct(req *CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("invalid product", utils.GetValidationErrors(err))
	}

	slug := utils.Slugify(req.Name)
	if slug == "" {
		return nil, apperrors.Validation("product name produces an empty slug", nil)
	}

	var count int64
	if err := s.db.Model(&models.Product{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if count > 0 {
		return nil, apperrors.Conflict(fmt.Sprintf("product slug %q already exists", slug))
	}

	if req.CategoryID != nil {
		if err := s.categoryExists(*req.CategoryID); err != nil {
			return nil, err
		}
	}

	inStock := true
	if req.InStock != nil {
		inStock = *req.InStock
	}

	product := &models.Product{
		Name:        req.Name,
		Slug:        slug,
		Price:       req.Price,
		OfferPrice:  req.OfferPrice,
		Description: req.Description,
		Image:       req.Image,
		Gallery:     pq.StringArray(req.Gallery),
		CategoryID:  req.CategoryID,
		Featured:    req.Featured,
		InStock:     inStock,
	}

	if err := s.db.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.db.Preload("Category").First(product, "id = ?", product.ID)
	return product, nil
}

// UpdateProduct regenerates the slug when the name changes and replaces the
// stored image only when a new one is supplied, deleting the old bytes.
func (s *CatalogService) UpdateProduct(id uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("invalid product", utils.GetValidationErrors(err))
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	updates := make(map[string]interface{})

	if req.Name != "" && req.Name != product.Name {
		slug := utils.Slugify(req.Name)
		var count int64
		if err := s.db.Model(&models.Product{}).
			Where("slug = ? AND id <> ?", slug, id).
			Count(&count).Error; err != nil {
			return nil, fmt.Errorf("database error: %w", err)
		}
		if count > 0 {
			return nil, apperrors.Conflict(fmt.Sprintf("product slug %q already exists", slug))
		}
		updates["name"] = req.Name
		updates["slug"] = slug
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.OfferPrice != nil {
		updates["offer_price"] = *req.OfferPrice
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Gallery != nil {
		updates["gallery"] = pq.StringArray(req.Gallery)
	}
	if req.CategoryID != nil {
		if err := s.categoryExists(*req.CategoryID); err != nil {
			return nil, err
		}
		updates["category_id"] = *req.CategoryID
	}
	if req.InStock != nil {
		updates["in_stock"] = *req.InStock
	}

	oldImage := ""
	if req.Image != "" && req.Image != product.Image {
		oldImage = product.Image
		updates["image"] = req.Image
	}

	if len(updates) > 0 {
		if err := s.db.Model(&product).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}

	// Old image bytes are removed only after the row update succeeded.
	if oldImage != "" {
		s.storage.DeleteByURL(oldImage)
	}

	s.db.Preload("Category").First(&product, "id = ?", id)
	return &product, nil
}

func (s *CatalogService) DeleteProduct(id uuid.UUID) error {
	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("product")
		}
		return fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Delete(&product).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if product.Image != "" {
		s.storage.DeleteByURL(product.Image)
	}
	for _, img := range product.Gallery {
		s.storage.DeleteByURL(img)
	}

	return nil
}

// SetFeatured toggles the one field and nothing else.
func (s *CatalogService) SetFeatured(id uuid.UUID, featured bool) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Model(&product).Update("featured", featured).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	product.Featured = featured
	return &product, nil
}

func (s *CatalogService) categoryExists(id uuid.UUID) error {
	var count int64
	if err := s.db.Model(&models.Category{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if count == 0 {
		return apperrors.NotFound("category")
	}
	return nil
}

// Categories

func (s *CatalogService) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return categories, nil
}

func (s *CatalogService) CreateCategory(name string) (*models.Category, error) {
	if name == "" {
		return nil, apperrors.Validation("category name is required", nil)
	}

	var count int64
	if err := s.db.Model(&models.Category{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if count > 0 {
		return nil, apperrors.Conflict(fmt.Sprintf("category %q already exists", name))
	}

	category := &models.Category{Name: name}
	if err := s.db.Create(category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

func (s *CatalogService) UpdateCategory(id uuid.UUID, name string) (*models.Category, error) {
	if name == "" {
		return nil, apperrors.Validation("category name is required", nil)
	}

	var category models.Category
	if err := s.db.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("category")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var count int64
	if err := s.db.Model(&models.Category{}).
		Where("name = ? AND id <> ?", name, id).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if count > 0 {
		return nil, apperrors.Conflict(fmt.Sprintf("category %q already exists", name))
	}

	if err := s.db.Model(&category).Update("name", name).Error; err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	category.Name = name
	return &category, nil
}

// DeleteCategory refuses to delete a category while products still
// reference it, so no product is left pointing at a missing category.
func (s *CatalogService) DeleteCategory(id uuid.UUID) error {
	var category models.Category
	if err := s.db.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("category")
		}
		return fmt.Errorf("database error: %w", err)
	}

	var productCount int64
	if err := s.db.Model(&models.Product{}).Where("category_id = ?", id).Count(&productCount).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if productCount > 0 {
		return apperrors.Conflict(fmt.Sprintf("category still has %d products; reassign them first", productCount))
	}

	if err := s.db.Delete(&category).Error; err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}
