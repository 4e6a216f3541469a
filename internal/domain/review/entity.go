// internal/domain/review/entity.go
package review

import (
	"time"

	"gorm.io/gorm"
)

// Status represents the review publication state
type Status string

const (
	StatusPublished Status = "published"
	StatusHidden    Status = "hidden"
)

// Review is a customer rating of a product and, transitively, its vendor.
// Creating one recomputes both aggregates in the same transaction.
type Review struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	ProductID uint           `gorm:"not null;index" json:"product_id"`
	VendorID  uint           `gorm:"not null;index" json:"vendor_id"`
	OrderID   *uint          `gorm:"index" json:"order_id,omitempty"`
	Rating    int            `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Title     string         `gorm:"size:255" json:"title"`
	Comment   string         `gorm:"type:text" json:"comment"`
	Status    Status         `gorm:"not null;default:'published';size:20" json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Review) TableName() string {
	return "reviews"
}
