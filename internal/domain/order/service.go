// internal/domain/order/service.go
package order

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/domain/cart"
	"github.com/your-org/marketplace-backend/internal/domain/catalog"
	"github.com/your-org/marketplace-backend/internal/pkg/apperr"
	"gorm.io/gorm"
)

// Mailer sends order notifications. Delivery failures are logged, never
// surfaced to the buyer.
type Mailer interface {
	SendOrderConfirmation(toEmail, toName string, o *Order) error
}

// Service materializes carts into immutable orders
type Service struct {
	db     *gorm.DB
	log    *logrus.Logger
	mailer Mailer
}

// NewService creates a new order service. mailer may be nil.
func NewService(db *gorm.DB, log *logrus.Logger, mailer Mailer) *Service {
	return &Service{
		db:     db,
		log:    log,
		mailer: mailer,
	}
}

// CreateOrderRequest represents order creation data. The payment method is a
// free-form label; no payment is processed.
type CreateOrderRequest struct {
	ShippingAddress Address `json:"shipping_address" binding:"required"`
	PaymentMethod   string  `json:"payment_method" binding:"required"`
}

// OrderListResponse represents order list response with pagination
type OrderListResponse struct {
	Orders     []Order            `json:"orders"`
	Pagination catalog.Pagination `json:"pagination"`
}

// CreateOrder converts the user's cart into an order. Order insert, line
// inserts, inventory decrements and cart emptying commit or roll back as one
// transaction, so a failed line leaves the cart intact and no partial order
// behind.
func (s *Service) CreateOrder(userID uint, req *CreateOrderRequest) (*Order, error) {
	var created Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var c cart.Cart
		err := tx.Where("user_id = ?", userID).First(&c).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.EmptyCart("cart is empty")
		}
		if err != nil {
			return fmt.Errorf("failed to retrieve cart: %w", err)
		}

		var items []cart.CartItem
		if err := tx.Where("cart_id = ?", c.ID).Order("created_at ASC").Find(&items).Error; err != nil {
			return fmt.Errorf("failed to retrieve cart items: %w", err)
		}
		if len(items) == 0 {
			return apperr.EmptyCart("cart is empty")
		}

		// Total is recomputed from the line snapshots; a client-supplied
		// figure is never trusted.
		var totalAmount int64
		for _, item := range items {
			totalAmount += item.Price * int64(item.Quantity)
		}

		created = Order{
			UserID:          userID,
			Status:          StatusPending,
			TotalAmount:     totalAmount,
			PaymentMethod:   req.PaymentMethod,
			ShippingAddress: req.ShippingAddress,
		}
		if err := tx.Create(&created).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		created.OrderNumber = generateOrderNumber(created.ID)
		if err := tx.Model(&created).Update("order_number", created.OrderNumber).Error; err != nil {
			return fmt.Errorf("failed to set order number: %w", err)
		}

		for _, item := range items {
			var product catalog.Product
			if err := tx.First(&product, item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.NotFound("product %d no longer exists", item.ProductID)
				}
				return fmt.Errorf("failed to load product %d: %w", item.ProductID, err)
			}

			orderItem := OrderItem{
				OrderID:     created.ID,
				ProductID:   product.ID,
				VendorID:    product.VendorID,
				ProductName: product.Name,
				Quantity:    item.Quantity,
				Price:       item.Price, // cart snapshot, not the live price
				TotalPrice:  item.Price * int64(item.Quantity),
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}

			if err := s.decrementInventory(tx, &product, item.Quantity); err != nil {
				return err
			}
		}

		// Empty the cart; the cart row itself survives for reuse. A row
		// count short of the loaded items means another materialization of
		// the same cart won the race.
		result := tx.Where("cart_id = ?", c.ID).Delete(&cart.CartItem{})
		if result.Error != nil {
			return fmt.Errorf("failed to clear cart: %w", result.Error)
		}
		if result.RowsAffected != int64(len(items)) {
			return apperr.Conflict("cart was modified concurrently")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	order, err := s.GetOrder(created.ID)
	if err != nil {
		return nil, err
	}

	s.sendConfirmation(userID, order)

	return order, nil
}

// GetOrder retrieves a single order with its items
func (s *Service) GetOrder(id uint) (*Order, error) {
	var o Order
	result := s.db.Preload("Items").Where("id = ?", id).First(&o)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order %d not found", id)
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", result.Error)
	}
	return &o, nil
}

// GetUserOrder retrieves an order owned by the given user
func (s *Service) GetUserOrder(userID, orderID uint) (*Order, error) {
	o, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, apperr.Forbidden("order %d does not belong to this user", orderID)
	}
	return o, nil
}

// GetUserOrders lists a user's orders, newest first
func (s *Service) GetUserOrders(userID uint, page, limit int) (*OrderListResponse, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var orders []Order
	var total int64

	query := s.db.Model(&Order{}).Preload("Items").Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	offset := (page - 1) * limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &OrderListResponse{
		Orders: orders,
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

// decrementInventory takes stock for one order line. Unlimited products are
// skipped. The conditional update only succeeds when enough stock remains,
// so a zero row count means the line oversells and the order must fail.
func (s *Service) decrementInventory(tx *gorm.DB, product *catalog.Product, quantity int) error {
	if !product.TracksInventory() {
		return nil
	}

	result := tx.Model(&catalog.Product{}).
		Where("id = ? AND inventory >= ?", product.ID, quantity).
		UpdateColumn("inventory", gorm.Expr("inventory - ?", quantity))
	if result.Error != nil {
		return fmt.Errorf("failed to decrement inventory: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.InsufficientStock("insufficient stock for %q", product.Name)
	}
	return nil
}

func (s *Service) sendConfirmation(userID uint, o *Order) {
	if s.mailer == nil {
		return
	}

	var u struct {
		Email     string
		FirstName string
	}
	if err := s.db.Table("users").Select("email, first_name").Where("id = ?", userID).Scan(&u).Error; err != nil {
		s.log.WithError(err).Warn("failed to load user for order confirmation")
		return
	}

	if err := s.mailer.SendOrderConfirmation(u.Email, u.FirstName, o); err != nil {
		s.log.WithError(err).WithField("order_number", o.OrderNumber).
			Warn("failed to send order confirmation email")
	}
}

// generateOrderNumber formats ORD-YYYYMMDD-XXXXX
func generateOrderNumber(orderID uint) string {
	return fmt.Sprintf("ORD-%s-%05d", time.Now().UTC().Format("20060102"), orderID)
}
