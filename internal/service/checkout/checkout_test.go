package checkout

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/AbuzarGhazanfarKhan/storefront/internal/events"
	"github.com/AbuzarGhazanfarKhan/storefront/internal/models"
	"github.com/AbuzarGhazanfarKhan/storefront/internal/testutil"
)

func newEnv(t *testing.T) (*gorm.DB, *Service, *testutil.RecordingPublisher) {
	db := testutil.NewTestDB(t)
	pub := &testutil.RecordingPublisher{}
	return db, &Service{DB: db, Producer: pub}, pub
}

func seedCart(t *testing.T, db *gorm.DB, items ...models.CartItem) models.Cart {
	t.Helper()
	cart := models.Cart{ID: uuid.New()}
	require.NoError(t, db.Create(&cart).Error)
	for i := range items {
		items[i].CartID = cart.ID
		require.NoError(t, db.Create(&items[i]).Error)
	}
	return cart
}

func TestPlaceOrderConvertsCartItems(t *testing.T) {
	db, svc, pub := newEnv(t)

	col := testutil.SeedCollection(t, db, "electronics")
	p1 := testutil.SeedProduct(t, db, col.ID, "keyboard", "49.99")
	p2 := testutil.SeedProduct(t, db, col.ID, "mouse", "19.50")

	cart := seedCart(t, db,
		models.CartItem{ProductID: p1.ID, Quantity: 2},
		models.CartItem{ProductID: p2.ID, Quantity: 3},
	)

	order, err := svc.PlaceOrder(context.Background(), cart.ID, 7)
	require.NoError(t, err)
	require.NotZero(t, order.ID)
	require.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	require.False(t, order.PlacedAt.IsZero())
	require.Len(t, order.Items, 2)

	quantities := map[uint]uint{}
	prices := map[uint]decimal.Decimal{}
	for _, item := range order.Items {
		require.Equal(t, order.ID, item.OrderID)
		quantities[item.ProductID] = item.Quantity
		prices[item.ProductID] = item.UnitPrice
	}
	require.Equal(t, uint(2), quantities[p1.ID])
	require.Equal(t, uint(3), quantities[p2.ID])
	require.True(t, prices[p1.ID].Equal(decimal.RequireFromString("49.99")))
	require.True(t, prices[p2.ID].Equal(decimal.RequireFromString("19.50")))

	// The cart is gone, cascaded items included.
	err = db.First(&models.Cart{}, "id = ?", cart.ID).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	var remaining int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("cart_id = ?", cart.ID).Count(&remaining).Error)
	require.Zero(t, remaining)

	// The customer was lazily created for the account.
	var customer models.Customer
	require.NoError(t, db.Where("user_id = ?", uint(7)).First(&customer).Error)
	require.Equal(t, customer.ID, order.CustomerID)
	require.Equal(t, models.MembershipBronze, customer.Membership)

	published := pub.ByTopic(events.TopicOrderEvents)
	require.Len(t, published, 1)
}

func TestPlaceOrderSnapshotsUnitPrice(t *testing.T) {
	db, svc, _ := newEnv(t)

	col := testutil.SeedCollection(t, db, "books")
	product := testutil.SeedProduct(t, db, col.ID, "novel", "12.00")
	cart := seedCart(t, db, models.CartItem{ProductID: product.ID, Quantity: 1})

	order, err := svc.PlaceOrder(context.Background(), cart.ID, 1)
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Update("unit_price", decimal.RequireFromString("99.00")).Error)

	var item models.OrderItem
	require.NoError(t, db.Where("order_id = ?", order.ID).First(&item).Error)
	require.True(t, item.UnitPrice.Equal(decimal.RequireFromString("12.00")))
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	db, svc, pub := newEnv(t)

	cart := seedCart(t, db)

	_, err := svc.PlaceOrder(context.Background(), cart.ID, 1)
	require.ErrorIs(t, err, ErrCartEmpty)

	var orders int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.Zero(t, orders)

	// The cart survives a rejected checkout.
	require.NoError(t, db.First(&models.Cart{}, "id = ?", cart.ID).Error)
	require.Empty(t, pub.ByTopic(events.TopicOrderEvents))
}

func TestPlaceOrderUnknownCart(t *testing.T) {
	db, svc, _ := newEnv(t)

	_, err := svc.PlaceOrder(context.Background(), uuid.New(), 1)
	require.ErrorIs(t, err, ErrCartNotFound)

	var orders int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.Zero(t, orders)
}

func TestPlaceOrderReusesExistingCustomer(t *testing.T) {
	db, svc, _ := newEnv(t)

	existing := models.Customer{UserID: 42, Membership: models.MembershipGold, Phone: "555-0101"}
	require.NoError(t, db.Create(&existing).Error)

	col := testutil.SeedCollection(t, db, "garden")
	product := testutil.SeedProduct(t, db, col.ID, "shovel", "25.00")
	cart := seedCart(t, db, models.CartItem{ProductID: product.ID, Quantity: 1})

	order, err := svc.PlaceOrder(context.Background(), cart.ID, 42)
	require.NoError(t, err)
	require.Equal(t, existing.ID, order.CustomerID)

	var customers int64
	require.NoError(t, db.Model(&models.Customer{}).Count(&customers).Error)
	require.Equal(t, int64(1), customers)
}
