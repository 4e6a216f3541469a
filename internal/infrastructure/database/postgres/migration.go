// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/domain/cart"
	"github.com/your-org/marketplace-backend/internal/domain/catalog"
	"github.com/your-org/marketplace-backend/internal/domain/order"
	"github.com/your-org/marketplace-backend/internal/domain/review"
	"github.com/your-org/marketplace-backend/internal/domain/user"
	"github.com/your-org/marketplace-backend/internal/domain/vendor"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations and seed data
type Migration struct {
	db  *gorm.DB
	log *logrus.Logger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, log *logrus.Logger) *Migration {
	return &Migration{db: db, log: log}
}

// RunAutoMigrations runs GORM auto-migrations for all models in dependency
// order
func (m *Migration) RunAutoMigrations() error {
	m.log.Info("Running database auto-migrations")

	models := []interface{}{
		&user.User{},
		&vendor.Vendor{},
		&catalog.Category{},
		&catalog.Product{},
		&cart.Cart{},
		&cart.CartItem{},
		&order.Order{},
		&order.OrderItem{},
		&review.Review{},
	}

	for _, model := range models {
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.log.Info("Database auto-migrations completed")
	return nil
}

// CreateIndexes creates additional indexes beyond what the model tags declare
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_products_category_active ON products(category_id, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_vendor_active ON products(vendor_id, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_price ON products(price)",
		"CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders(user_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_reviews_product_status ON reviews(product_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_reviews_vendor_status ON reviews(vendor_id, status)",
	}

	for _, index := range indexes {
		if err := m.db.Exec(index).Error; err != nil {
			m.log.WithError(err).WithField("index", index).Warn("failed to create index")
		}
	}

	return nil
}

// SeedInitialData inserts development fixtures. Every seed is idempotent.
func (m *Migration) SeedInitialData() error {
	m.log.Info("Seeding initial data")

	if err := m.seedCategories(); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}
	if err := m.seedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	m.log.Info("Initial data seeded")
	return nil
}

func (m *Migration) seedCategories() error {
	categories := []catalog.Category{
		{Name: "Electronics", Slug: "electronics", Description: "Electronic devices, gadgets, and accessories"},
		{Name: "Clothing", Slug: "clothing", Description: "Fashion, apparel, and accessories"},
		{Name: "Books", Slug: "books", Description: "Books, eBooks, and educational materials"},
		{Name: "Home & Garden", Slug: "home-garden", Description: "Home improvement, furniture, and garden supplies"},
		{Name: "Sports & Outdoors", Slug: "sports-outdoors", Description: "Sports equipment, outdoor gear, and fitness products"},
	}

	for _, category := range categories {
		var existing catalog.Category
		result := m.db.Where("slug = ?", category.Slug).First(&existing)
		if result.Error == gorm.ErrRecordNotFound {
			if err := m.db.Create(&category).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *Migration) seedAdminUser() error {
	var count int64
	if err := m.db.Model(&user.User{}).Where("is_admin = ?", true).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("Admin123!"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := user.User{
		Username:  "admin",
		Email:     "admin@marketplace.local",
		Password:  string(hashed),
		FirstName: "Admin",
		IsActive:  true,
		IsAdmin:   true,
	}
	if err := m.db.Create(&admin).Error; err != nil {
		return err
	}

	m.log.WithField("email", admin.Email).Info("Seeded admin user")
	return nil
}
