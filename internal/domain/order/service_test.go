// internal/domain/order/service_test.go
package order

import (
	"io"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/marketplace-backend/internal/domain/cart"
	"github.com/your-org/marketplace-backend/internal/domain/catalog"
	"github.com/your-org/marketplace-backend/internal/domain/user"
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
		&user.User{}, &vendor.Vendor{}, &catalog.Category{}, &catalog.Product{},
		&cart.Cart{}, &cart.CartItem{}, &Order{}, &OrderItem{},
	))
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewService(db, log, nil), db
}

func intPtr(n int) *int { return &n }

func seedProduct(t *testing.T, db *gorm.DB, vendorID uint, price int64, inventory *int) *catalog.Product {
	t.Helper()
	p := &catalog.Product{
		VendorID:   vendorID,
		CategoryID: 1,
		SKU:        "SKU-" + t.Name(),
		Name:       "Product " + t.Name(),
		Slug:       "product-" + t.Name(),
		Price:      price,
		Inventory:  inventory,
		IsActive:   true,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func seedCartLine(t *testing.T, db *gorm.DB, userID uint, p *catalog.Product, quantity int, snapshot int64) {
	t.Helper()
	var c cart.Cart
	require.NoError(t, db.Where(cart.Cart{UserID: userID}).FirstOrCreate(&c).Error)
	require.NoError(t, db.Create(&cart.CartItem{
		CartID:    c.ID,
		ProductID: p.ID,
		Quantity:  quantity,
		Price:     snapshot,
	}).Error)
}

func testAddress() Address {
	return Address{
		FullName:     "Pat Smith",
		AddressLine1: "1 Main St",
		City:         "Springfield",
		State:        "IL",
		PostalCode:   "62701",
		Country:      "US",
	}
}

func TestCreateOrder_TotalFromSnapshotsAndCartCleared(t *testing.T) {
	svc, db := newTestService(t)
	p1 := seedProduct(t, db, 7, 1000, nil)
	p2 := &catalog.Product{
		VendorID: 9, CategoryID: 1, SKU: "SKU2", Name: "Second", Slug: "second",
		Price: 250, IsActive: true,
	}
	require.NoError(t, db.Create(p2).Error)

	seedCartLine(t, db, 1, p1, 2, 1000)
	seedCartLine(t, db, 1, p2, 3, 250)

	o, err := svc.CreateOrder(1, &CreateOrderRequest{
		ShippingAddress: testAddress(),
		PaymentMethod:   "card",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2*1000+3*250), o.TotalAmount)
	assert.Equal(t, StatusPending, o.Status)
	assert.NotEmpty(t, o.OrderNumber)
	require.Len(t, o.Items, 2)

	// Vendor attribution comes from each product.
	vendorIDs := []uint{o.Items[0].VendorID, o.Items[1].VendorID}
	assert.ElementsMatch(t, []uint{7, 9}, vendorIDs)

	var remaining int64
	require.NoError(t, db.Model(&cart.CartItem{}).Count(&remaining).Error)
	assert.Zero(t, remaining)

	var carts int64
	require.NoError(t, db.Model(&cart.Cart{}).Where("user_id = ?", 1).Count(&carts).Error)
	assert.Equal(t, int64(1), carts)
}

func TestCreateOrder_EmptyCartRejected(t *testing.T) {
	svc, db := newTestService(t)

	_, err := svc.CreateOrder(1, &CreateOrderRequest{
		ShippingAddress: testAddress(),
		PaymentMethod:   "card",
	})
	assert.ErrorIs(t, err, apperr.ErrEmptyCart)

	// A cart row with no lines is still an empty cart.
	require.NoError(t, db.Create(&cart.Cart{UserID: 2}).Error)
	_, err = svc.CreateOrder(2, &CreateOrderRequest{
		ShippingAddress: testAddress(),
		PaymentMethod:   "card",
	})
	assert.ErrorIs(t, err, apperr.ErrEmptyCart)
}

func TestCreateOrder_UsesSnapshotNotLivePrice(t *testing.T) {
	svc, db := newTestService(t)
	p := seedProduct(t, db, 5, 1000, nil)
	seedCartLine(t, db, 1, p, 1, 1000)

	// Price drifts between add and checkout.
	require.NoError(t, db.Model(p).Update("price", 4000).Error)

	o, err := svc.CreateOrder(1, &CreateOrderRequest{
		ShippingAddress: testAddress(),
		PaymentMethod:   "card",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1000), o.TotalAmount)
	assert.Equal(t, int64(1000), o.Items[0].Price)
}

func TestCreateOrder_DecrementsInventory(t *testing.T) {
	svc, db := newTestService(t)
	p := seedProduct(t, db, 5, 1000, intPtr(10))
	seedCartLine(t, db, 1, p, 4, 1000)

	_, err := svc.CreateOrder(1, &CreateOrderRequest{
		ShippingAddress: testAddress(),
		PaymentMethod:   "card",
	})
	require.NoError(t, err)

	var after catalog.Product
	require.NoError(t, db.First(&after, p.ID).Error)
	require.NotNil(t, after.Inventory)
	assert.Equal(t, 6, *after.Inventory)
}

func TestCreateOrder_InsufficientStockRollsBackEverything(t *testing.T) {
	svc, db := newTestService(t)
	ok := seedProduct(t, db, 5, 1000, intPtr(10))
	scarce := &catalog.Product{
		VendorID: 5, CategoryID: 1, SKU: "SCARCE", Name: "Scarce", Slug: "scarce",
		Price: 2000, Inventory: intPtr(1), IsActive: true,
	}
	require.NoError(t, db.Create(scarce).Error)

	seedCartLine(t, db, 1, ok, 2, 1000)
	seedCartLine(t, db, 1, scarce, 3, 2000)

	_, err := svc.CreateOrder(1, &CreateOrderRequest{
		ShippingAddress: testAddress(),
		PaymentMethod:   "card",
	})
	assert.ErrorIs(t, err, apperr.ErrInsufficientStock)

	// No order, no order items, cart intact, inventory untouched.
	var orders, items, lines int64
	require.NoError(t, db.Model(&Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&OrderItem{}).Count(&items).Error)
	require.NoError(t, db.Model(&cart.CartItem{}).Count(&lines).Error)
	assert.Zero(t, orders)
	assert.Zero(t, items)
	assert.Equal(t, int64(2), lines)

	var after catalog.Product
	require.NoError(t, db.First(&after, ok.ID).Error)
	assert.Equal(t, 10, *after.Inventory)
}

func TestGetUserOrder_OwnershipEnforced(t *testing.T) {
	svc, db := newTestService(t)
	p := seedProduct(t, db, 5, 1000, nil)
	seedCartLine(t, db, 1, p, 1, 1000)

	o, err := svc.CreateOrder(1, &CreateOrderRequest{
		ShippingAddress: testAddress(),
		PaymentMethod:   "card",
	})
	require.NoError(t, err)

	_, err = svc.GetUserOrder(2, o.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	got, err := svc.GetUserOrder(1, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.OrderNumber, got.OrderNumber)
}

func TestGetUserOrders_Pagination(t *testing.T) {
	svc, db := newTestService(t)
	p := seedProduct(t, db, 5, 1000, nil)

	for i := 0; i < 3; i++ {
		seedCartLine(t, db, 1, p, 1, 1000)
		_, err := svc.CreateOrder(1, &CreateOrderRequest{
			ShippingAddress: testAddress(),
			PaymentMethod:   "card",
		})
		require.NoError(t, err)
	}

	resp, err := svc.GetUserOrders(1, 1, 2)
	require.NoError(t, err)
	assert.Len(t, resp.Orders, 2)
	assert.Equal(t, int64(3), resp.Pagination.Total)
	assert.True(t, resp.Pagination.HasNext)
}
