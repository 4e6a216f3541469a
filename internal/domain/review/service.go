// internal/domain/review/service.go
package review

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/domain/catalog"
	"github.com/your-org/marketplace-backend/internal/pkg/apperr"
	"gorm.io/gorm"
)

// Service handles reviews and keeps product and vendor rating aggregates in
// step with the review table
type Service struct {
	db  *gorm.DB
	log *logrus.Logger
}

// NewService creates a new review service
func NewService(db *gorm.DB, log *logrus.Logger) *Service {
	return &Service{db: db, log: log}
}

// SubmitReviewRequest represents review submission data
type SubmitReviewRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required"`
	Title     string `json:"title"`
	Comment   string `json:"comment"`
	OrderID   *uint  `json:"order_id"`
}

// ReviewListResponse represents review list response with pagination
type ReviewListResponse struct {
	Reviews    []Review           `json:"reviews"`
	Pagination catalog.Pagination `json:"pagination"`
}

// SubmitReview stores a review and recomputes the product's and vendor's
// rating aggregates inside the same transaction. A user may review the same
// product more than once; every submission counts toward the averages.
func (s *Service) SubmitReview(userID uint, req *SubmitReviewRequest) (*Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, apperr.Validation("rating must be between 1 and 5")
	}

	var product catalog.Product
	if err := s.db.Where("id = ? AND is_active = ?", req.ProductID, true).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product %d not found", req.ProductID)
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}

	review := Review{
		UserID:    userID,
		ProductID: product.ID,
		VendorID:  product.VendorID,
		OrderID:   req.OrderID,
		Rating:    req.Rating,
		Title:     req.Title,
		Comment:   req.Comment,
		Status:    StatusPublished,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return fmt.Errorf("failed to create review: %w", err)
		}
		if err := s.refreshProductRating(tx, product.ID); err != nil {
			return err
		}
		return s.refreshVendorRating(tx, product.VendorID)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"review_id":  review.ID,
		"product_id": product.ID,
		"rating":     req.Rating,
	}).Info("Review submitted")

	return &review, nil
}

// GetProductReviews lists published reviews for a product, newest first
func (s *Service) GetProductReviews(productID uint, page, limit int) (*ReviewListResponse, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var product catalog.Product
	if err := s.db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product %d not found", productID)
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}

	var reviews []Review
	var total int64

	query := s.db.Model(&Review{}).
		Where("product_id = ? AND status = ?", productID, StatusPublished)
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count reviews: %w", err)
	}

	offset := (page - 1) * limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve reviews: %w", err)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ReviewListResponse{
		Reviews: reviews,
		Pagination: catalog.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
			HasPrev:    page > 1,
		},
	}, nil
}

// ratingAggregate holds a recomputed average and count
type ratingAggregate struct {
	Avg   float64
	Count int
}

// refreshProductRating rescans the product's published reviews. A full
// rescan avoids incremental drift when reviews are later hidden or removed.
func (s *Service) refreshProductRating(tx *gorm.DB, productID uint) error {
	agg, err := s.aggregate(tx, "product_id", productID)
	if err != nil {
		return err
	}
	result := tx.Model(&catalog.Product{}).Where("id = ?", productID).
		Updates(map[string]interface{}{
			"rating":       agg.Avg,
			"review_count": agg.Count,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update product rating: %w", result.Error)
	}
	return nil
}

// refreshVendorRating rescans all published reviews across the vendor's
// products
func (s *Service) refreshVendorRating(tx *gorm.DB, vendorID uint) error {
	agg, err := s.aggregate(tx, "vendor_id", vendorID)
	if err != nil {
		return err
	}
	result := tx.Table("vendors").Where("id = ?", vendorID).
		Updates(map[string]interface{}{
			"rating":       agg.Avg,
			"review_count": agg.Count,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update vendor rating: %w", result.Error)
	}
	return nil
}

func (s *Service) aggregate(tx *gorm.DB, column string, id uint) (*ratingAggregate, error) {
	var agg ratingAggregate
	err := tx.Model(&Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where(column+" = ? AND status = ?", id, StatusPublished).
		Scan(&agg).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate ratings: %w", err)
	}
	return &agg, nil
}
