// internal/domain/catalog/entity.go
package catalog

import (
	"time"

	"gorm.io/gorm"
)

// Category is a flat taxonomy node. ProductCount is a denormalized counter
// maintained by CounterService, not recomputed on read.
type Category struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"not null;size:255" json:"name"`
	Slug         string         `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Description  string         `gorm:"size:500" json:"description"`
	ImageURL     string         `gorm:"size:500" json:"image_url"`
	ProductCount int            `gorm:"default:0" json:"product_count"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// Product is owned by one vendor and classified under one category.
// Price is in cents and is the authoritative current price; cart and order
// lines copy it at action time and never reference it afterwards.
// Inventory nil means unlimited stock.
type Product struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	VendorID     uint           `gorm:"not null;index" json:"vendor_id"`
	CategoryID   uint           `gorm:"not null;index" json:"category_id"`
	SKU          string         `gorm:"uniqueIndex;not null;size:100" json:"sku"`
	Name         string         `gorm:"not null;size:255" json:"name"`
	Slug         string         `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Description  string         `gorm:"type:text" json:"description"`
	ImageURL     string         `gorm:"size:500" json:"image_url"` // opaque, stored as received
	Price        int64          `gorm:"not null" json:"price"`     // in cents
	ComparePrice int64          `json:"compare_price"`             // shown only when > price
	Inventory    *int           `json:"inventory"`                 // nil = unlimited
	Rating       float64        `gorm:"default:0" json:"rating"`
	ReviewCount  int            `gorm:"default:0" json:"review_count"`
	IsNew        bool           `gorm:"default:false" json:"is_new"`
	IsTrending   bool           `gorm:"default:false" json:"is_trending"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Category Category `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"category"`
}

// TableName overrides
func (Product) TableName() string  { return "products" }
func (Category) TableName() string { return "categories" }

// TracksInventory reports whether stock is limited for this product
func (p *Product) TracksInventory() bool {
	return p.Inventory != nil
}

// IsInStock reports whether at least one unit can be bought
func (p *Product) IsInStock() bool {
	return p.Inventory == nil || *p.Inventory > 0
}

// HasDiscount reports whether the compare price qualifies for display
func (p *Product) HasDiscount() bool {
	return p.ComparePrice > p.Price
}

// DiscountPercentage returns the rounded-down discount, 0 when none applies
func (p *Product) DiscountPercentage() int {
	if !p.HasDiscount() || p.ComparePrice == 0 {
		return 0
	}
	return int(((p.ComparePrice - p.Price) * 100) / p.ComparePrice)
}
