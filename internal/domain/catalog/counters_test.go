// internal/domain/catalog/counters_test.go
package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/marketplace-backend/internal/domain/vendor"
	"gorm.io/gorm"
)

func vendorCount(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var v vendor.Vendor
	require.NoError(t, db.First(&v, id).Error)
	return v.ProductCount
}

func categoryCount(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var c Category
	require.NoError(t, db.First(&c, id).Error)
	return c.ProductCount
}

func TestCounters_TrackCreateAndDelete(t *testing.T) {
	svc, db := newTestService(t)
	v := seedVendor(t, db, 1, vendor.ApplicationStatusApproved)
	cat := seedCategory(t, db, "Books", "books")

	p1, err := svc.CreateProduct(1, &ProductCreateRequest{
		SKU: "B-1", Name: "One", CategoryID: cat.ID, Price: 100,
	})
	require.NoError(t, err)
	_, err = svc.CreateProduct(1, &ProductCreateRequest{
		SKU: "B-2", Name: "Two", CategoryID: cat.ID, Price: 100,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, vendorCount(t, db, v.ID))
	assert.Equal(t, 2, categoryCount(t, db, cat.ID))

	require.NoError(t, svc.DeleteProduct(1, p1.ID))

	assert.Equal(t, 1, vendorCount(t, db, v.ID))
	assert.Equal(t, 1, categoryCount(t, db, cat.ID))
}

func TestCounters_CategoryTransferMovesCount(t *testing.T) {
	svc, db := newTestService(t)
	v := seedVendor(t, db, 1, vendor.ApplicationStatusApproved)
	books := seedCategory(t, db, "Books", "books")
	toys := seedCategory(t, db, "Toys", "toys")

	p, err := svc.CreateProduct(1, &ProductCreateRequest{
		SKU: "B-1", Name: "Book", CategoryID: books.ID, Price: 100,
	})
	require.NoError(t, err)

	newCat := toys.ID
	_, err = svc.UpdateProduct(1, p.ID, &ProductUpdateRequest{CategoryID: &newCat})
	require.NoError(t, err)

	assert.Equal(t, 0, categoryCount(t, db, books.ID))
	assert.Equal(t, 1, categoryCount(t, db, toys.ID))
	// Vendor count is unaffected by a category move.
	assert.Equal(t, 1, vendorCount(t, db, v.ID))
}

func TestCounters_SameCategoryUpdateIsNoop(t *testing.T) {
	svc, db := newTestService(t)
	seedVendor(t, db, 1, vendor.ApplicationStatusApproved)
	books := seedCategory(t, db, "Books", "books")

	p, err := svc.CreateProduct(1, &ProductCreateRequest{
		SKU: "B-1", Name: "Book", CategoryID: books.ID, Price: 100,
	})
	require.NoError(t, err)

	same := books.ID
	_, err = svc.UpdateProduct(1, p.ID, &ProductUpdateRequest{CategoryID: &same})
	require.NoError(t, err)

	assert.Equal(t, 1, categoryCount(t, db, books.ID))
}

func TestCounters_DecrementFloorsAtZero(t *testing.T) {
	_, db := newTestService(t)
	counters := NewCounterService(discardLogger())

	v := seedVendor(t, db, 1, vendor.ApplicationStatusApproved)
	cat := seedCategory(t, db, "Books", "books")

	// Counters already at zero; a stray decrement must not go negative.
	require.NoError(t, counters.OnProductDeleted(db, v.ID, cat.ID))

	assert.Equal(t, 0, vendorCount(t, db, v.ID))
	assert.Equal(t, 0, categoryCount(t, db, cat.ID))
}

func TestCounters_MissingRowsAreLoggedNoops(t *testing.T) {
	_, db := newTestService(t)
	counters := NewCounterService(discardLogger())

	// Neither vendor 99 nor category 99 exists.
	assert.NoError(t, counters.OnProductCreated(db, 99, 99))
	assert.NoError(t, counters.OnProductDeleted(db, 99, 99))
}

func TestCounters_ReconcileRepairsDrift(t *testing.T) {
	svc, db := newTestService(t)
	v := seedVendor(t, db, 1, vendor.ApplicationStatusApproved)
	cat := seedCategory(t, db, "Books", "books")

	for _, sku := range []string{"B-1", "B-2", "B-3"} {
		_, err := svc.CreateProduct(1, &ProductCreateRequest{
			SKU: sku, Name: "Book " + sku, CategoryID: cat.ID, Price: 100,
		})
		require.NoError(t, err)
	}

	// Corrupt the counters directly.
	require.NoError(t, db.Model(&vendor.Vendor{}).Where("id = ?", v.ID).
		UpdateColumn("product_count", 40).Error)
	require.NoError(t, db.Model(&Category{}).Where("id = ?", cat.ID).
		UpdateColumn("product_count", 0).Error)

	counters := NewCounterService(discardLogger())
	require.NoError(t, counters.Reconcile(db))

	assert.Equal(t, 3, vendorCount(t, db, v.ID))
	assert.Equal(t, 3, categoryCount(t, db, cat.ID))
}

func TestCounters_ReconcileIgnoresSoftDeleted(t *testing.T) {
	svc, db := newTestService(t)
	v := seedVendor(t, db, 1, vendor.ApplicationStatusApproved)
	cat := seedCategory(t, db, "Books", "books")

	p, err := svc.CreateProduct(1, &ProductCreateRequest{
		SKU: "B-1", Name: "Book", CategoryID: cat.ID, Price: 100,
	})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteProduct(1, p.ID))

	counters := NewCounterService(discardLogger())
	require.NoError(t, counters.Reconcile(db))

	assert.Equal(t, 0, vendorCount(t, db, v.ID))
	assert.Equal(t, 0, categoryCount(t, db, cat.ID))
}
