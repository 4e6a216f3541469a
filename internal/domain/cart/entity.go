// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/your-org/marketplace-backend/internal/domain/catalog"
)

// Cart belongs to exactly one user. It is created lazily on the first cart
// interaction and reused forever; checkout empties it but never deletes it.
type Cart struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CartItem holds one product line. Price is a snapshot of the product's
// price at add time; it is never refreshed while the item sits in the cart.
// Lines are hard-deleted so the unique index stays free for re-adds.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CartID    uint      `gorm:"not null;index:idx_cart_items_cart_product,unique" json:"cart_id"`
	ProductID uint      `gorm:"not null;index:idx_cart_items_cart_product,unique" json:"product_id"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	Price     int64     `gorm:"not null" json:"price"` // snapshot in cents
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides
func (Cart) TableName() string     { return "carts" }
func (CartItem) TableName() string { return "cart_items" }

// ItemView is a cart item joined with its product for display
type ItemView struct {
	ID        uint             `json:"id"`
	ProductID uint             `json:"product_id"`
	Quantity  int              `json:"quantity"`
	Price     int64            `json:"price"` // snapshot, not the live product price
	LineTotal int64            `json:"line_total"`
	Product   *catalog.Product `json:"product,omitempty"`
	AddedAt   time.Time        `json:"added_at"`
}

// View is the cart plus items and totals as returned to callers
type View struct {
	CartID    uint       `json:"cart_id"`
	UserID    uint       `json:"user_id"`
	Items     []ItemView `json:"items"`
	ItemCount int        `json:"item_count"`
	Subtotal  int64      `json:"subtotal"`
	UpdatedAt time.Time  `json:"updated_at"`
}
