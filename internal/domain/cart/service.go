// internal/domain/cart/service.go
package cart

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/domain/catalog"
	"github.com/your-org/marketplace-backend/internal/pkg/apperr"
	"gorm.io/gorm"
)

// Service maintains the cart's (product, quantity, snapshot price) tuples.
// A cart item's price is fixed when the item is first added; later product
// price changes and later additions of the same product never refresh it.
type Service struct {
	db  *gorm.DB
	log *logrus.Logger
}

// NewService creates a new cart service
func NewService(db *gorm.DB, log *logrus.Logger) *Service {
	return &Service{
		db:  db,
		log: log,
	}
}

// AddItemRequest represents add to cart request
type AddItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// UpdateItemRequest represents update cart item request
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart returns the user's cart with items joined to their products.
// A user without a cart gets an empty view, not an error.
func (s *Service) GetCart(userID uint) (*View, error) {
	var c Cart
	err := s.db.Where("user_id = ?", userID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &View{UserID: userID, Items: []ItemView{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}

	return s.buildView(&c)
}

// AddItem snapshots the product's current price onto a new cart item, or
// merges into the existing line for the same product by incrementing its
// quantity. The merge keeps the original snapshot price.
func (s *Service) AddItem(userID uint, req *AddItemRequest) (*View, error) {
	if req.Quantity <= 0 {
		return nil, apperr.Validation("quantity must be positive")
	}

	var product catalog.Product
	err := s.db.Where("id = ? AND is_active = ?", req.ProductID, true).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("product %d not found", req.ProductID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}

	c, err := s.getOrCreateCart(userID)
	if err != nil {
		return nil, err
	}

	var existing CartItem
	err = s.db.Where("cart_id = ? AND product_id = ?", c.ID, req.ProductID).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := checkStock(&product, req.Quantity); err != nil {
			return nil, err
		}
		item := CartItem{
			CartID:    c.ID,
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
			Price:     product.Price, // snapshot of the current price
		}
		if err := s.db.Create(&item).Error; err != nil {
			return nil, fmt.Errorf("failed to add cart item: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to check cart item: %w", err)
	default:
		newQuantity := existing.Quantity + req.Quantity
		if err := checkStock(&product, newQuantity); err != nil {
			return nil, err
		}
		// Quantity merges; the add-time price snapshot stays untouched.
		if err := s.db.Model(&existing).Update("quantity", newQuantity).Error; err != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}
	}

	return s.buildView(c)
}

// UpdateItemQuantity sets a line's quantity. Zero or below removes the line.
func (s *Service) UpdateItemQuantity(userID, itemID uint, quantity int) (*View, error) {
	c, item, err := s.findOwnedItem(userID, itemID)
	if err != nil {
		return nil, err
	}

	if quantity <= 0 {
		if err := s.db.Delete(item).Error; err != nil {
			return nil, fmt.Errorf("failed to remove cart item: %w", err)
		}
		return s.buildView(c)
	}

	var product catalog.Product
	if err := s.db.First(&product, item.ProductID).Error; err == nil {
		if err := checkStock(&product, quantity); err != nil {
			return nil, err
		}
	}

	if err := s.db.Model(item).Update("quantity", quantity).Error; err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}
	return s.buildView(c)
}

// RemoveItem deletes a cart line unconditionally
func (s *Service) RemoveItem(userID, itemID uint) (*View, error) {
	c, item, err := s.findOwnedItem(userID, itemID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Delete(item).Error; err != nil {
		return nil, fmt.Errorf("failed to remove cart item: %w", err)
	}
	return s.buildView(c)
}

// Clear deletes every line of the user's cart. The cart row survives.
func (s *Service) Clear(userID uint) (*View, error) {
	var c Cart
	err := s.db.Where("user_id = ?", userID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &View{UserID: userID, Items: []ItemView{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}

	if err := s.db.Where("cart_id = ?", c.ID).Delete(&CartItem{}).Error; err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}
	return s.buildView(&c)
}

// getOrCreateCart resolves the user's cart, creating one lazily
func (s *Service) getOrCreateCart(userID uint) (*Cart, error) {
	var c Cart
	err := s.db.Where(Cart{UserID: userID}).FirstOrCreate(&c).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cart: %w", err)
	}
	return &c, nil
}

// findOwnedItem loads a cart item and verifies it belongs to the user's cart
func (s *Service) findOwnedItem(userID, itemID uint) (*Cart, *CartItem, error) {
	var c Cart
	err := s.db.Where("user_id = ?", userID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, apperr.NotFound("cart item %d not found", itemID)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}

	var item CartItem
	err = s.db.Where("id = ? AND cart_id = ?", itemID, c.ID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, apperr.NotFound("cart item %d not found", itemID)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to retrieve cart item: %w", err)
	}

	return &c, &item, nil
}

// buildView loads the cart's items joined with products and computes totals.
// The subtotal always uses the snapshot prices.
func (s *Service) buildView(c *Cart) (*View, error) {
	var items []CartItem
	if err := s.db.Where("cart_id = ?", c.ID).Order("created_at ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve cart items: %w", err)
	}

	view := &View{
		CartID:    c.ID,
		UserID:    c.UserID,
		Items:     make([]ItemView, 0, len(items)),
		UpdatedAt: c.UpdatedAt,
	}

	for _, item := range items {
		iv := ItemView{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			LineTotal: item.Price * int64(item.Quantity),
			AddedAt:   item.CreatedAt,
		}

		var product catalog.Product
		if err := s.db.Preload("Category").First(&product, item.ProductID).Error; err == nil {
			iv.Product = &product
		} else {
			s.log.WithField("product_id", item.ProductID).Warn("cart item references missing product")
		}

		view.Subtotal += iv.LineTotal
		view.Items = append(view.Items, iv)
	}
	view.ItemCount = len(view.Items)

	return view, nil
}

// checkStock rejects quantities beyond a tracked product's inventory
func checkStock(product *catalog.Product, quantity int) error {
	if !product.TracksInventory() {
		return nil
	}
	if quantity > *product.Inventory {
		return apperr.InsufficientStock("only %d of %q in stock", *product.Inventory, product.Name)
	}
	return nil
}
