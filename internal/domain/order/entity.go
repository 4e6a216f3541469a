// internal/domain/order/entity.go
package order

import (
	"time"

	"gorm.io/gorm"
)

// Status represents the order status
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// Order is an immutable snapshot materialized from a cart at checkout.
// TotalAmount is computed server-side from the line snapshots; the payment
// method is a recorded label only, no processing happens.
type Order struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	OrderNumber   string         `gorm:"uniqueIndex;not null;size:50" json:"order_number"`
	UserID        uint           `gorm:"not null;index" json:"user_id"`
	Status        Status         `gorm:"not null;default:'pending';size:20" json:"status"`
	TotalAmount   int64          `gorm:"not null" json:"total_amount"` // in cents
	PaymentMethod string         `gorm:"not null;size:100" json:"payment_method"`

	ShippingAddress Address `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// OrderItem denormalizes everything needed to keep the order a correct
// historical record even if the product is later changed or deleted.
type OrderItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OrderID     uint      `gorm:"not null;index" json:"order_id"`
	ProductID   uint      `gorm:"not null;index" json:"product_id"`
	VendorID    uint      `gorm:"not null;index" json:"vendor_id"`
	ProductName string    `gorm:"not null;size:255" json:"product_name"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	Price       int64     `gorm:"not null" json:"price"`       // snapshot per unit in cents
	TotalPrice  int64     `gorm:"not null" json:"total_price"` // Quantity * Price
	CreatedAt   time.Time `json:"created_at"`
}

// Address is the shipping destination recorded on the order
type Address struct {
	FullName     string `gorm:"size:200" json:"full_name"`
	AddressLine1 string `gorm:"size:255" json:"address_line1"`
	AddressLine2 string `gorm:"size:255" json:"address_line2"`
	City         string `gorm:"size:100" json:"city"`
	State        string `gorm:"size:100" json:"state"`
	PostalCode   string `gorm:"size:20" json:"postal_code"`
	Country      string `gorm:"size:2;default:'US'" json:"country"`
}

// TableName overrides
func (Order) TableName() string     { return "orders" }
func (OrderItem) TableName() string { return "order_items" }

// CanBeCancelled reports whether the order is still cancellable
func (o *Order) CanBeCancelled() bool {
	return o.Status == StatusPending || o.Status == StatusProcessing
}
