// internal/domain/catalog/counters.go
package catalog

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/domain/vendor"
	"gorm.io/gorm"
)

// CounterService maintains the denormalized product_count fields on vendors
// and categories. Counters are best-effort display state: a missing vendor or
// category row makes the update a logged no-op, never a failure. Product rows
// remain the source of truth; Reconcile rebuilds counters from them.
//
// All mutating methods take the caller's transaction handle so counter
// updates commit or roll back together with the triggering product write.
type CounterService struct {
	log *logrus.Logger
}

// NewCounterService creates a new counter service
func NewCounterService(log *logrus.Logger) *CounterService {
	return &CounterService{log: log}
}

// OnProductCreated increments the owning vendor's and category's counts
func (c *CounterService) OnProductCreated(tx *gorm.DB, vendorID, categoryID uint) error {
	if err := c.adjustVendorCount(tx, vendorID, +1); err != nil {
		return err
	}
	return c.adjustCategoryCount(tx, categoryID, +1)
}

// OnProductDeleted decrements both counts, floored at zero
func (c *CounterService) OnProductDeleted(tx *gorm.DB, vendorID, categoryID uint) error {
	if err := c.adjustVendorCount(tx, vendorID, -1); err != nil {
		return err
	}
	return c.adjustCategoryCount(tx, categoryID, -1)
}

// OnProductCategoryChanged moves one count from the old category to the new
// one. A no-op when the category did not actually change.
func (c *CounterService) OnProductCategoryChanged(tx *gorm.DB, oldCategoryID, newCategoryID uint) error {
	if oldCategoryID == newCategoryID {
		return nil
	}
	if err := c.adjustCategoryCount(tx, oldCategoryID, -1); err != nil {
		return err
	}
	return c.adjustCategoryCount(tx, newCategoryID, +1)
}

// Reconcile rebuilds every vendor and category counter from the product rows.
// Intended for drift repair; safe to run at any time.
func (c *CounterService) Reconcile(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`UPDATE vendors SET product_count = (
				SELECT COUNT(*) FROM products
				WHERE products.vendor_id = vendors.id AND products.deleted_at IS NULL
			)`).Error; err != nil {
			return fmt.Errorf("failed to reconcile vendor counters: %w", err)
		}

		if err := tx.Exec(`UPDATE categories SET product_count = (
				SELECT COUNT(*) FROM products
				WHERE products.category_id = categories.id AND products.deleted_at IS NULL
			)`).Error; err != nil {
			return fmt.Errorf("failed to reconcile category counters: %w", err)
		}

		c.log.Info("product counters reconciled")
		return nil
	})
}

func (c *CounterService) adjustVendorCount(tx *gorm.DB, vendorID uint, delta int) error {
	query := tx.Model(&vendor.Vendor{}).Where("id = ?", vendorID)
	if delta < 0 {
		// Floor at zero: a missed earlier decrement must not go negative.
		query = query.Where("product_count > 0")
	}

	result := query.UpdateColumn("product_count", gorm.Expr("product_count + ?", delta))
	if result.Error != nil {
		return fmt.Errorf("failed to update vendor product count: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		c.log.WithFields(logrus.Fields{
			"vendor_id": vendorID,
			"delta":     delta,
		}).Warn("vendor counter update skipped, row missing or already at zero")
	}
	return nil
}

func (c *CounterService) adjustCategoryCount(tx *gorm.DB, categoryID uint, delta int) error {
	query := tx.Model(&Category{}).Where("id = ?", categoryID)
	if delta < 0 {
		query = query.Where("product_count > 0")
	}

	result := query.UpdateColumn("product_count", gorm.Expr("product_count + ?", delta))
	if result.Error != nil {
		return fmt.Errorf("failed to update category product count: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		c.log.WithFields(logrus.Fields{
			"category_id": categoryID,
			"delta":       delta,
		}).Warn("category counter update skipped, row missing or already at zero")
	}
	return nil
}
