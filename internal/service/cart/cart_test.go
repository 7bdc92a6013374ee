package cart

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/AbuzarGhazanfarKhan/storefront/internal/models"
	"github.com/AbuzarGhazanfarKhan/storefront/internal/testutil"
)

func TestAddItemMergesDuplicates(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := &Service{DB: db}
	ctx := context.Background()

	col := testutil.SeedCollection(t, db, "toys")
	product := testutil.SeedProduct(t, db, col.ID, "blocks", "15.00")

	cart, err := svc.CreateCart(ctx)
	require.NoError(t, err)

	first, err := svc.AddItem(ctx, cart.ID, product.ID, 3)
	require.NoError(t, err)
	require.Equal(t, uint(3), first.Quantity)

	second, err := svc.AddItem(ctx, cart.ID, product.ID, 2)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, uint(5), second.Quantity)

	// Exactly one row for this (cart, product) pair.
	var rows int64
	require.NoError(t, db.Model(&models.CartItem{}).
		Where("cart_id = ? AND product_id = ?", cart.ID, product.ID).
		Count(&rows).Error)
	require.Equal(t, int64(1), rows)
}

func TestAddItemUnknownProduct(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := &Service{DB: db}
	ctx := context.Background()

	cart, err := svc.CreateCart(ctx)
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, cart.ID, 999, 1)
	require.ErrorIs(t, err, ErrProductNotFound)
}

func TestAddItemClampsQuantity(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := &Service{DB: db}
	ctx := context.Background()

	col := testutil.SeedCollection(t, db, "toys")
	product := testutil.SeedProduct(t, db, col.ID, "kite", "8.00")

	cart, err := svc.CreateCart(ctx)
	require.NoError(t, err)

	item, err := svc.AddItem(ctx, cart.ID, product.ID, 0)
	require.NoError(t, err)
	require.Equal(t, uint(1), item.Quantity)
}

func TestItemAndCartTotals(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := &Service{DB: db}
	ctx := context.Background()

	col := testutil.SeedCollection(t, db, "toys")
	p1 := testutil.SeedProduct(t, db, col.ID, "blocks", "15.00")
	p2 := testutil.SeedProduct(t, db, col.ID, "puzzle", "9.99")

	cart, err := svc.CreateCart(ctx)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, cart.ID, p1.ID, 2)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, cart.ID, p2.ID, 1)
	require.NoError(t, err)

	_, items, err := svc.GetCart(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	require.True(t, ItemTotal(items[0]).Equal(decimal.RequireFromString("30.00")))
	require.True(t, ItemTotal(items[1]).Equal(decimal.RequireFromString("9.99")))
	require.True(t, CartTotal(items).Equal(decimal.RequireFromString("39.99")))
}

func TestDeleteCartRemovesItems(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := &Service{DB: db}
	ctx := context.Background()

	col := testutil.SeedCollection(t, db, "toys")
	product := testutil.SeedProduct(t, db, col.ID, "blocks", "15.00")

	cart, err := svc.CreateCart(ctx)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, cart.ID, product.ID, 1)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCart(ctx, cart.ID))

	err = db.First(&models.Cart{}, "id = ?", cart.ID).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	var rows int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("cart_id = ?", cart.ID).Count(&rows).Error)
	require.Zero(t, rows)
}

func TestUpdateItemQuantity(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := &Service{DB: db}
	ctx := context.Background()

	col := testutil.SeedCollection(t, db, "toys")
	product := testutil.SeedProduct(t, db, col.ID, "blocks", "15.00")

	cart, err := svc.CreateCart(ctx)
	require.NoError(t, err)
	item, err := svc.AddItem(ctx, cart.ID, product.ID, 1)
	require.NoError(t, err)

	updated, err := svc.UpdateItem(ctx, cart.ID, item.ID, 4)
	require.NoError(t, err)
	require.Equal(t, uint(4), updated.Quantity)

	_, err = svc.UpdateItem(ctx, cart.ID, 999, 4)
	require.ErrorIs(t, err, ErrItemNotFound)
}
