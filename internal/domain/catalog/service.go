// internal/domain/catalog/service.go
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/domain/vendor"
	"github.com/your-org/marketplace-backend/internal/pkg/apperr"
	"github.com/your-org/marketplace-backend/internal/pkg/slug"
	"gorm.io/gorm"
)

// Service handles product business logic
type Service struct {
	db       *gorm.DB
	counters *CounterService
	log      *logrus.Logger
}

// NewService creates a new product service
func NewService(db *gorm.DB, counters *CounterService, log *logrus.Logger) *Service {
	return &Service{
		db:       db,
		counters: counters,
		log:      log,
	}
}

// ProductListRequest represents product list query parameters
type ProductListRequest struct {
	Page       int    `form:"page,default=1"`
	Limit      int    `form:"limit,default=20"`
	CategoryID uint   `form:"category_id"`
	VendorID   uint   `form:"vendor_id"`
	Search     string `form:"search"`
	SortBy     string `form:"sort_by,default=created_at"`
	SortOrder  string `form:"sort_order,default=desc"`
	MinPrice   int64  `form:"min_price"`
	MaxPrice   int64  `form:"max_price"`
	IsNew      *bool  `form:"is_new"`
	IsTrending *bool  `form:"is_trending"`
}

// ProductCreateRequest represents product creation data
type ProductCreateRequest struct {
	SKU          string `json:"sku" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	ImageURL     string `json:"image_url"`
	Price        int64  `json:"price" binding:"required,min=1"`
	ComparePrice int64  `json:"compare_price"`
	CategoryID   uint   `json:"category_id" binding:"required"`
	Inventory    *int   `json:"inventory"`
	IsNew        bool   `json:"is_new"`
	IsTrending   bool   `json:"is_trending"`
}

// ProductUpdateRequest represents product update data
type ProductUpdateRequest struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	ImageURL     *string `json:"image_url"`
	Price        *int64  `json:"price"`
	ComparePrice *int64  `json:"compare_price"`
	CategoryID   *uint   `json:"category_id"`
	Inventory    *int    `json:"inventory"`
	IsNew        *bool   `json:"is_new"`
	IsTrending   *bool   `json:"is_trending"`
	IsActive     *bool   `json:"is_active"`
}

// ProductListResponse represents product response with pagination
type ProductListResponse struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// GetProducts retrieves active products with filtering and pagination
func (s *Service) GetProducts(req *ProductListRequest) (*ProductListResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = 20
	}

	var products []Product
	var total int64

	query := s.db.Model(&Product{}).
		Preload("Category").
		Where("is_active = ?", true)

	if req.CategoryID > 0 {
		query = query.Where("category_id = ?", req.CategoryID)
	}
	if req.VendorID > 0 {
		query = query.Where("vendor_id = ?", req.VendorID)
	}
	if req.Search != "" {
		search := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", search, search)
	}
	if req.MinPrice > 0 {
		query = query.Where("price >= ?", req.MinPrice)
	}
	if req.MaxPrice > 0 {
		query = query.Where("price <= ?", req.MaxPrice)
	}
	if req.IsNew != nil {
		query = query.Where("is_new = ?", *req.IsNew)
	}
	if req.IsTrending != nil {
		query = query.Where("is_trending = ?", *req.IsTrending)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	query = query.Order(s.buildOrderClause(req.SortBy, req.SortOrder))

	offset := (req.Page - 1) * req.Limit
	if err := query.Offset(offset).Limit(req.Limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &ProductListResponse{
		Products: products,
		Pagination: Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    req.Page < totalPages,
			HasPrev:    req.Page > 1,
		},
	}, nil
}

// GetProduct retrieves a single product by ID
func (s *Service) GetProduct(id uint) (*Product, error) {
	var product Product
	result := s.db.Preload("Category").Where("id = ?", id).First(&product)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product %d not found", id)
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}
	return &product, nil
}

// GetProductBySlug retrieves a single product by slug
func (s *Service) GetProductBySlug(slug string) (*Product, error) {
	var product Product
	result := s.db.Preload("Category").Where("slug = ?", slug).First(&product)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product %q not found", slug)
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}
	return &product, nil
}

// CreateProduct creates a product owned by the caller's vendor. The product
// insert and both counter increments commit in one transaction.
func (s *Service) CreateProduct(userID uint, req *ProductCreateRequest) (*Product, error) {
	v, err := s.resolveApprovedVendor(userID)
	if err != nil {
		return nil, err
	}

	if err := validatePricing(req.Price, req.ComparePrice); err != nil {
		return nil, err
	}
	if req.Inventory != nil && *req.Inventory < 0 {
		return nil, apperr.Validation("inventory cannot be negative")
	}

	var category Category
	if err := s.db.First(&category, req.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("category %d not found", req.CategoryID)
		}
		return nil, fmt.Errorf("failed to check category: %w", err)
	}

	product := Product{
		VendorID:     v.ID,
		CategoryID:   req.CategoryID,
		SKU:          strings.TrimSpace(req.SKU),
		Name:         strings.TrimSpace(req.Name),
		Slug:         slug.Make(req.Name + "-" + req.SKU),
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		Price:        req.Price,
		ComparePrice: req.ComparePrice,
		Inventory:    req.Inventory,
		IsNew:        req.IsNew,
		IsTrending:   req.IsTrending,
		IsActive:     true,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&product).Error; err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		return s.counters.OnProductCreated(tx, product.VendorID, product.CategoryID)
	})
	if err != nil {
		return nil, err
	}

	return s.GetProduct(product.ID)
}

// UpdateProduct applies a partial update after an ownership check. A category
// reassignment moves the counters inside the same transaction as the update.
func (s *Service) UpdateProduct(userID, productID uint, req *ProductUpdateRequest) (*Product, error) {
	v, err := s.resolveApprovedVendor(userID)
	if err != nil {
		return nil, err
	}

	var product Product
	if err := s.db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product %d not found", productID)
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}

	if product.VendorID != v.ID {
		return nil, apperr.Forbidden("product %d does not belong to your store", productID)
	}

	price := product.Price
	if req.Price != nil {
		price = *req.Price
	}
	comparePrice := product.ComparePrice
	if req.ComparePrice != nil {
		comparePrice = *req.ComparePrice
	}
	if err := validatePricing(price, comparePrice); err != nil {
		return nil, err
	}
	if req.Inventory != nil && *req.Inventory < 0 {
		return nil, apperr.Validation("inventory cannot be negative")
	}

	updates := make(map[string]interface{})
	// Slug stays fixed after creation; renames only change the display name.
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.ComparePrice != nil {
		updates["compare_price"] = *req.ComparePrice
	}
	if req.Inventory != nil {
		updates["inventory"] = *req.Inventory
	}
	if req.IsNew != nil {
		updates["is_new"] = *req.IsNew
	}
	if req.IsTrending != nil {
		updates["is_trending"] = *req.IsTrending
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	oldCategoryID := product.CategoryID
	if req.CategoryID != nil && *req.CategoryID != oldCategoryID {
		var category Category
		if err := s.db.First(&category, *req.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("category %d not found", *req.CategoryID)
			}
			return nil, fmt.Errorf("failed to check category: %w", err)
		}
		updates["category_id"] = *req.CategoryID
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&product).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update product: %w", err)
			}
		}
		if newCategoryID, ok := updates["category_id"].(uint); ok {
			return s.counters.OnProductCategoryChanged(tx, oldCategoryID, newCategoryID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetProduct(productID)
}

// DeleteProduct soft-deletes a product and decrements both counters in one
// transaction.
func (s *Service) DeleteProduct(userID, productID uint) error {
	v, err := s.resolveApprovedVendor(userID)
	if err != nil {
		return err
	}

	var product Product
	if err := s.db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("product %d not found", productID)
		}
		return fmt.Errorf("failed to retrieve product: %w", err)
	}

	if product.VendorID != v.ID {
		return apperr.Forbidden("product %d does not belong to your store", productID)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&product).Error; err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}
		return s.counters.OnProductDeleted(tx, product.VendorID, product.CategoryID)
	})
}

// GetVendorProducts lists a vendor's own products, inactive included
func (s *Service) GetVendorProducts(userID uint, page, limit int) (*ProductListResponse, error) {
	v, err := s.resolveApprovedVendor(userID)
	if err != nil {
		return nil, err
	}

	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var products []Product
	var total int64

	query := s.db.Model(&Product{}).Preload("Category").Where("vendor_id = ?", v.ID)
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	offset := (page - 1) * limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ProductListResponse{
		Products: products,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
			HasPrev:    page > 1,
		},
	}, nil
}

// resolveApprovedVendor loads the caller's vendor and requires an approved
// application.
func (s *Service) resolveApprovedVendor(userID uint) (*vendor.Vendor, error) {
	var v vendor.Vendor
	if err := s.db.Where("user_id = ?", userID).First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Forbidden("no vendor account for this user")
		}
		return nil, fmt.Errorf("failed to resolve vendor: %w", err)
	}
	if !v.IsApproved() {
		return nil, apperr.Forbidden("vendor application is %s", v.ApplicationStatus)
	}
	return &v, nil
}

func (s *Service) buildOrderClause(sortBy, sortOrder string) string {
	validSortFields := map[string]bool{
		"created_at": true,
		"updated_at": true,
		"price":      true,
		"rating":     true,
		"name":       true,
	}

	if !validSortFields[sortBy] {
		sortBy = "created_at"
	}
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	return fmt.Sprintf("%s %s", sortBy, sortOrder)
}

func validatePricing(price, comparePrice int64) error {
	if price <= 0 {
		return apperr.Validation("price must be positive")
	}
	if comparePrice != 0 && comparePrice <= price {
		return apperr.Validation("compare price must be greater than price")
	}
	return nil
}

