// internal/domain/catalog/service_test.go
package catalog

import (
	"io"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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
	require.NoError(t, db.AutoMigrate(&vendor.Vendor{}, &Category{}, &Product{}))
	return db
}

func discardLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	log := discardLogger()
	return NewService(db, NewCounterService(log), log), db
}

func seedVendor(t *testing.T, db *gorm.DB, userID uint, status vendor.ApplicationStatus) *vendor.Vendor {
	t.Helper()
	v := &vendor.Vendor{
		UserID:            userID,
		StoreName:         "Store",
		Slug:              "store",
		ApplicationStatus: status,
	}
	require.NoError(t, db.Create(v).Error)
	return v
}

func seedCategory(t *testing.T, db *gorm.DB, name, slugValue string) *Category {
	t.Helper()
	c := &Category{Name: name, Slug: slugValue}
	require.NoError(t, db.Create(c).Error)
	return c
}

func intPtr(n int) *int { return &n }

func TestCreateProduct_RequiresApprovedVendor(t *testing.T) {
	svc, db := newTestService(t)
	seedVendor(t, db, 1, vendor.ApplicationStatusPending)
	cat := seedCategory(t, db, "Books", "books")

	req := &ProductCreateRequest{
		SKU: "B-1", Name: "A Book", CategoryID: cat.ID, Price: 1500,
	}

	_, err := svc.CreateProduct(1, req)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	// No vendor record at all behaves the same.
	_, err = svc.CreateProduct(99, req)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestCreateProduct_SetsSlugAndDefaults(t *testing.T) {
	svc, db := newTestService(t)
	seedVendor(t, db, 1, vendor.ApplicationStatusApproved)
	cat := seedCategory(t, db, "Books", "books")

	p, err := svc.CreateProduct(1, &ProductCreateRequest{
		SKU: "B-1", Name: "A Great Book", CategoryID: cat.ID, Price: 1500,
	})
	require.NoError(t, err)
	assert.Equal(t, "a-great-book-b-1", p.Slug)
	assert.True(t, p.IsActive)
	assert.Nil(t, p.Inventory)
}

func TestCreateProduct_PricingValidation(t *testing.T) {
	svc, db := newTestService(t)
	seedVendor(t, db, 1, vendor.ApplicationStatusApproved)
	cat := seedCategory(t, db, "Books", "books")

	_, err := svc.CreateProduct(1, &ProductCreateRequest{
		SKU: "B-1", Name: "Book", CategoryID: cat.ID, Price: 1000, ComparePrice: 500,
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.CreateProduct(1, &ProductCreateRequest{
		SKU: "B-2", Name: "Book Two", CategoryID: cat.ID, Price: 1000, Inventory: intPtr(-1),
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreateProduct_UnknownCategory(t *testing.T) {
	svc, db := newTestService(t)
	seedVendor(t, db, 1, vendor.ApplicationStatusApproved)

	_, err := svc.CreateProduct(1, &ProductCreateRequest{
		SKU: "B-1", Name: "Book", CategoryID: 999, Price: 1000,
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateProduct_OwnershipEnforced(t *testing.T) {
	svc, db := newTestService(t)
	seedVendor(t, db, 1, vendor.ApplicationStatusApproved)
	other := &vendor.Vendor{
		UserID: 2, StoreName: "Other", Slug: "other",
		ApplicationStatus: vendor.ApplicationStatusApproved,
	}
	require.NoError(t, db.Create(other).Error)
	cat := seedCategory(t, db, "Books", "books")

	p, err := svc.CreateProduct(1, &ProductCreateRequest{
		SKU: "B-1", Name: "Book", CategoryID: cat.ID, Price: 1000,
	})
	require.NoError(t, err)

	newName := "Hijacked"
	_, err = svc.UpdateProduct(2, p.ID, &ProductUpdateRequest{Name: &newName})
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestUpdateProduct_SlugStableAcrossRename(t *testing.T) {
	svc, db := newTestService(t)
	seedVendor(t, db, 1, vendor.ApplicationStatusApproved)
	cat := seedCategory(t, db, "Books", "books")

	p, err := svc.CreateProduct(1, &ProductCreateRequest{
		SKU: "B-1", Name: "Original Name", CategoryID: cat.ID, Price: 1000,
	})
	require.NoError(t, err)
	originalSlug := p.Slug

	newName := "Renamed Product"
	updated, err := svc.UpdateProduct(1, p.ID, &ProductUpdateRequest{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Renamed Product", updated.Name)
	assert.Equal(t, originalSlug, updated.Slug)
}

func TestGetProducts_ActiveOnlyWithFilters(t *testing.T) {
	svc, db := newTestService(t)
	seedVendor(t, db, 1, vendor.ApplicationStatusApproved)
	books := seedCategory(t, db, "Books", "books")
	toys := seedCategory(t, db, "Toys", "toys")

	_, err := svc.CreateProduct(1, &ProductCreateRequest{
		SKU: "B-1", Name: "Cheap Book", CategoryID: books.ID, Price: 500,
	})
	require.NoError(t, err)
	expensive, err := svc.CreateProduct(1, &ProductCreateRequest{
		SKU: "B-2", Name: "Expensive Book", CategoryID: books.ID, Price: 5000,
	})
	require.NoError(t, err)
	hidden, err := svc.CreateProduct(1, &ProductCreateRequest{
		SKU: "T-1", Name: "Toy", CategoryID: toys.ID, Price: 1000,
	})
	require.NoError(t, err)
	inactive := false
	_, err = svc.UpdateProduct(1, hidden.ID, &ProductUpdateRequest{IsActive: &inactive})
	require.NoError(t, err)

	resp, err := svc.GetProducts(&ProductListRequest{})
	require.NoError(t, err)
	assert.Len(t, resp.Products, 2) // inactive excluded

	resp, err = svc.GetProducts(&ProductListRequest{MinPrice: 1000})
	require.NoError(t, err)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, expensive.ID, resp.Products[0].ID)

	resp, err = svc.GetProducts(&ProductListRequest{Search: "expensive"})
	require.NoError(t, err)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, expensive.ID, resp.Products[0].ID)
}

func TestDeleteProduct_SoftDeleteHidesFromListing(t *testing.T) {
	svc, db := newTestService(t)
	seedVendor(t, db, 1, vendor.ApplicationStatusApproved)
	cat := seedCategory(t, db, "Books", "books")

	p, err := svc.CreateProduct(1, &ProductCreateRequest{
		SKU: "B-1", Name: "Book", CategoryID: cat.ID, Price: 1000,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(1, p.ID))

	_, err = svc.GetProduct(p.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	// Row still present for order history.
	var count int64
	require.NoError(t, db.Unscoped().Model(&Product{}).Where("id = ?", p.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
