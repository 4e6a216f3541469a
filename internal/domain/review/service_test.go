// internal/domain/review/service_test.go
package review

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

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&vendor.Vendor{}, &catalog.Category{}, &catalog.Product{}, &Review{},
	))

	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewService(db, log), db
}

func seedVendorAndProduct(t *testing.T, db *gorm.DB) (*vendor.Vendor, *catalog.Product) {
	t.Helper()
	v := &vendor.Vendor{
		UserID: 1, StoreName: "Store", Slug: "store",
		ApplicationStatus: vendor.ApplicationStatusApproved,
	}
	require.NoError(t, db.Create(v).Error)

	p := &catalog.Product{
		VendorID: v.ID, CategoryID: 1, SKU: "SKU-1", Name: "Product",
		Slug: "product", Price: 1000, IsActive: true,
	}
	require.NoError(t, db.Create(p).Error)
	return v, p
}

func TestSubmitReview_UpdatesProductAndVendorAggregates(t *testing.T) {
	svc, db := newTestService(t)
	v, p := seedVendorAndProduct(t, db)

	_, err := svc.SubmitReview(10, &SubmitReviewRequest{ProductID: p.ID, Rating: 5})
	require.NoError(t, err)
	_, err = svc.SubmitReview(11, &SubmitReviewRequest{ProductID: p.ID, Rating: 2})
	require.NoError(t, err)

	var product catalog.Product
	require.NoError(t, db.First(&product, p.ID).Error)
	assert.InDelta(t, 3.5, product.Rating, 0.001)
	assert.Equal(t, 2, product.ReviewCount)

	var vend vendor.Vendor
	require.NoError(t, db.First(&vend, v.ID).Error)
	assert.InDelta(t, 3.5, vend.Rating, 0.001)
	assert.Equal(t, 2, vend.ReviewCount)
}

func TestSubmitReview_VendorAggregateSpansProducts(t *testing.T) {
	svc, db := newTestService(t)
	v, p1 := seedVendorAndProduct(t, db)
	p2 := &catalog.Product{
		VendorID: v.ID, CategoryID: 1, SKU: "SKU-2", Name: "Second",
		Slug: "second", Price: 2000, IsActive: true,
	}
	require.NoError(t, db.Create(p2).Error)

	_, err := svc.SubmitReview(10, &SubmitReviewRequest{ProductID: p1.ID, Rating: 5})
	require.NoError(t, err)
	_, err = svc.SubmitReview(10, &SubmitReviewRequest{ProductID: p2.ID, Rating: 1})
	require.NoError(t, err)

	var first catalog.Product
	require.NoError(t, db.First(&first, p1.ID).Error)
	assert.InDelta(t, 5.0, first.Rating, 0.001)
	assert.Equal(t, 1, first.ReviewCount)

	var vend vendor.Vendor
	require.NoError(t, db.First(&vend, v.ID).Error)
	assert.InDelta(t, 3.0, vend.Rating, 0.001)
	assert.Equal(t, 2, vend.ReviewCount)
}

func TestSubmitReview_SameUserMayReviewAgain(t *testing.T) {
	svc, db := newTestService(t)
	_, p := seedVendorAndProduct(t, db)

	_, err := svc.SubmitReview(10, &SubmitReviewRequest{ProductID: p.ID, Rating: 5})
	require.NoError(t, err)
	_, err = svc.SubmitReview(10, &SubmitReviewRequest{ProductID: p.ID, Rating: 1})
	require.NoError(t, err)

	var product catalog.Product
	require.NoError(t, db.First(&product, p.ID).Error)
	assert.InDelta(t, 3.0, product.Rating, 0.001)
	assert.Equal(t, 2, product.ReviewCount)
}

func TestSubmitReview_RatingBounds(t *testing.T) {
	svc, db := newTestService(t)
	_, p := seedVendorAndProduct(t, db)

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.SubmitReview(10, &SubmitReviewRequest{ProductID: p.ID, Rating: rating})
		assert.ErrorIs(t, err, apperr.ErrValidation)
	}
}

func TestSubmitReview_UnknownOrInactiveProduct(t *testing.T) {
	svc, db := newTestService(t)
	_, p := seedVendorAndProduct(t, db)

	_, err := svc.SubmitReview(10, &SubmitReviewRequest{ProductID: 999, Rating: 4})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	require.NoError(t, db.Model(p).Update("is_active", false).Error)
	_, err = svc.SubmitReview(10, &SubmitReviewRequest{ProductID: p.ID, Rating: 4})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGetProductReviews_PublishedNewestFirst(t *testing.T) {
	svc, db := newTestService(t)
	_, p := seedVendorAndProduct(t, db)

	first, err := svc.SubmitReview(10, &SubmitReviewRequest{ProductID: p.ID, Rating: 5, Title: "first"})
	require.NoError(t, err)
	_, err = svc.SubmitReview(11, &SubmitReviewRequest{ProductID: p.ID, Rating: 3, Title: "second"})
	require.NoError(t, err)

	// Hidden reviews are excluded from listings.
	require.NoError(t, db.Model(&Review{}).Where("id = ?", first.ID).
		Update("status", StatusHidden).Error)

	resp, err := svc.GetProductReviews(p.ID, 1, 20)
	require.NoError(t, err)
	require.Len(t, resp.Reviews, 1)
	assert.Equal(t, "second", resp.Reviews[0].Title)
	assert.Equal(t, int64(1), resp.Pagination.Total)
}
