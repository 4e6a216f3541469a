// internal/domain/cart/service_test.go
package cart

import (
	"io"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/marketplace-backend/internal/domain/catalog"
	"github.com/your-org/marketplace-backend/internal/domain/vendor"
	"github.com/your-org/marketplace-backend/internal/pkg/apperr"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&vendor.Vendor{}, &catalog.Category{}, &catalog.Product{}, &Cart{}, &CartItem{},
	))
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewService(db, log), db
}

func createProduct(t *testing.T, db *gorm.DB, price int64, inventory *int) *catalog.Product {
	t.Helper()
	p := &catalog.Product{
		VendorID:   1,
		CategoryID: 1,
		SKU:        "SKU-" + t.Name(),
		Name:       "Test Product " + t.Name(),
		Slug:       "test-product-" + t.Name(),
		Price:      price,
		Inventory:  inventory,
		IsActive:   true,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func intPtr(n int) *int { return &n }

func TestAddItem_SnapshotsPriceAtAddTime(t *testing.T) {
	svc, db := newTestService(t)
	p := createProduct(t, db, 2500, nil)

	view, err := svc.AddItem(1, &AddItemRequest{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, int64(2500), view.Items[0].Price)
	assert.Equal(t, int64(5000), view.Subtotal)

	// A later price change must not touch the snapshot.
	require.NoError(t, db.Model(p).Update("price", 9900).Error)

	view, err = svc.GetCart(1)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), view.Items[0].Price)
	assert.Equal(t, int64(5000), view.Subtotal)
}

func TestAddItem_MergeKeepsOriginalSnapshot(t *testing.T) {
	svc, db := newTestService(t)
	p := createProduct(t, db, 1000, nil)

	_, err := svc.AddItem(1, &AddItemRequest{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, db.Model(p).Update("price", 1500).Error)

	view, err := svc.AddItem(1, &AddItemRequest{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)

	// Still one line, merged quantity, original price.
	require.Len(t, view.Items, 1)
	assert.Equal(t, 3, view.Items[0].Quantity)
	assert.Equal(t, int64(1000), view.Items[0].Price)
	assert.Equal(t, int64(3000), view.Subtotal)

	var count int64
	require.NoError(t, db.Model(&CartItem{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAddItem_InactiveProductNotFound(t *testing.T) {
	svc, db := newTestService(t)
	p := createProduct(t, db, 1000, nil)
	require.NoError(t, db.Model(p).Update("is_active", false).Error)

	_, err := svc.AddItem(1, &AddItemRequest{ProductID: p.ID, Quantity: 1})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestAddItem_InsufficientStock(t *testing.T) {
	svc, db := newTestService(t)
	p := createProduct(t, db, 1000, intPtr(3))

	_, err := svc.AddItem(1, &AddItemRequest{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)

	// Merging past the available inventory is rejected.
	_, err = svc.AddItem(1, &AddItemRequest{ProductID: p.ID, Quantity: 2})
	assert.ErrorIs(t, err, apperr.ErrInsufficientStock)
}

func TestAddItem_UnlimitedInventory(t *testing.T) {
	svc, db := newTestService(t)
	p := createProduct(t, db, 1000, nil)

	view, err := svc.AddItem(1, &AddItemRequest{ProductID: p.ID, Quantity: 10000})
	require.NoError(t, err)
	assert.Equal(t, 10000, view.Items[0].Quantity)
}

func TestUpdateItemQuantity_ZeroRemovesLine(t *testing.T) {
	svc, db := newTestService(t)
	p := createProduct(t, db, 1000, nil)

	view, err := svc.AddItem(1, &AddItemRequest{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)
	itemID := view.Items[0].ID

	view, err = svc.UpdateItemQuantity(1, itemID, 0)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.Zero(t, view.Subtotal)

	// The line can be re-added afterwards.
	view, err = svc.AddItem(1, &AddItemRequest{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)
	assert.Len(t, view.Items, 1)
}

func TestUpdateItemQuantity_OtherUsersItemNotFound(t *testing.T) {
	svc, db := newTestService(t)
	p := createProduct(t, db, 1000, nil)

	view, err := svc.AddItem(1, &AddItemRequest{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = svc.UpdateItemQuantity(2, view.Items[0].ID, 5)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestClear_CartRowSurvives(t *testing.T) {
	svc, db := newTestService(t)
	p := createProduct(t, db, 1000, nil)

	_, err := svc.AddItem(1, &AddItemRequest{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)

	view, err := svc.Clear(1)
	require.NoError(t, err)
	assert.Empty(t, view.Items)

	var carts int64
	require.NoError(t, db.Model(&Cart{}).Where("user_id = ?", 1).Count(&carts).Error)
	assert.Equal(t, int64(1), carts)
}

func TestGetCart_EmptyViewWithoutCartRow(t *testing.T) {
	svc, db := newTestService(t)

	view, err := svc.GetCart(42)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.Zero(t, view.Subtotal)

	var carts int64
	require.NoError(t, db.Model(&Cart{}).Count(&carts).Error)
	assert.Zero(t, carts)
}
