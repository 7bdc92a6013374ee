package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/AbuzarGhazanfarKhan/storefront/internal/models"
	"github.com/AbuzarGhazanfarKhan/storefront/internal/testutil"
)

func seedOrderWithItem(t *testing.T, db *gorm.DB, productID uint) {
	t.Helper()
	customer := models.Customer{UserID: 9}
	require.NoError(t, db.Create(&customer).Error)
	order := models.Order{CustomerID: customer.ID, PaymentStatus: models.PaymentStatusPending, PlacedAt: time.Now()}
	require.NoError(t, db.Create(&order).Error)
	item := models.OrderItem{
		OrderID:   order.ID,
		ProductID: productID,
		UnitPrice: decimal.RequireFromString("10.00"),
		Quantity:  1,
	}
	require.NoError(t, db.Create(&item).Error)
}

func TestDeleteProductBlockedByOrderItem(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := &Service{DB: db}

	col := testutil.SeedCollection(t, db, "tools")
	product := testutil.SeedProduct(t, db, col.ID, "hammer", "10.00")
	seedOrderWithItem(t, db, product.ID)

	err := svc.DeleteProduct(context.Background(), product.ID)
	require.ErrorIs(t, err, ErrProductInOrders)

	// The product is untouched.
	require.NoError(t, db.First(&models.Product{}, product.ID).Error)
}

func TestDeleteProductWithoutReferences(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := &Service{DB: db}

	col := testutil.SeedCollection(t, db, "tools")
	product := testutil.SeedProduct(t, db, col.ID, "hammer", "10.00")

	require.NoError(t, svc.DeleteProduct(context.Background(), product.ID))

	err := db.First(&models.Product{}, product.ID).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteProductNotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := &Service{DB: db}

	err := svc.DeleteProduct(context.Background(), 12345)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCollectionBlockedByProducts(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := &Service{DB: db}

	col := testutil.SeedCollection(t, db, "tools")
	testutil.SeedProduct(t, db, col.ID, "hammer", "10.00")

	err := svc.DeleteCollection(context.Background(), col.ID)
	require.ErrorIs(t, err, ErrCollectionNotEmpty)

	require.NoError(t, db.First(&models.Collection{}, col.ID).Error)
}

func TestDeleteEmptyCollection(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := &Service{DB: db}

	col := testutil.SeedCollection(t, db, "tools")

	require.NoError(t, svc.DeleteCollection(context.Background(), col.ID))

	err := db.First(&models.Collection{}, col.ID).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
