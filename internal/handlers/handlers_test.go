package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/AbuzarGhazanfarKhan/storefront/internal/models"
	"github.com/AbuzarGhazanfarKhan/storefront/internal/service/catalog"
	"github.com/AbuzarGhazanfarKhan/storefront/internal/service/checkout"
	"github.com/AbuzarGhazanfarKhan/storefront/internal/testutil"
)

type testEnv struct {
	T          *testing.T
	E          *echo.Echo
	DB         *gorm.DB
	Products   *ProductHandler
	Collection *CollectionHandler
	Orders     *OrderHandler
	Customers  *CustomerHandler
	Pub        *testutil.RecordingPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	db := testutil.NewTestDB(t)
	pub := &testutil.RecordingPublisher{}
	catalogService := &catalog.Service{DB: db}

	return &testEnv{
		T:          t,
		E:          echo.New(),
		DB:         db,
		Products:   &ProductHandler{DB: db, Catalog: catalogService, Producer: pub},
		Collection: &CollectionHandler{DB: db, Catalog: catalogService},
		Orders:     &OrderHandler{DB: db, Checkout: &checkout.Service{DB: db, Producer: pub}},
		Customers:  &CustomerHandler{DB: db},
		Pub:        pub,
	}
}

func (env *testEnv) doJSONRequest(method, path string, body any) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func (env *testEnv) seedOrderedProduct() models.Product {
	col := testutil.SeedCollection(env.T, env.DB, "electronics")
	product := testutil.SeedProduct(env.T, env.DB, col.ID, "headphones", "79.99")

	customer := models.Customer{UserID: 5}
	require.NoError(env.T, env.DB.Create(&customer).Error)
	order := models.Order{CustomerID: customer.ID, PaymentStatus: models.PaymentStatusComplete, PlacedAt: time.Now()}
	require.NoError(env.T, env.DB.Create(&order).Error)
	item := models.OrderItem{OrderID: order.ID, ProductID: product.ID, UnitPrice: product.UnitPrice, Quantity: 1}
	require.NoError(env.T, env.DB.Create(&item).Error)

	return product
}

func TestDeleteProductConflict(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedOrderedProduct()

	rec, c := env.doJSONRequest(http.MethodDelete, "/api/v1/admin/products/1", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.Products.DeleteProduct(c))
	require.Equal(t, http.StatusConflict, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Contains(t, resp["error"], "associated with an order item")

	require.NoError(t, env.DB.First(&models.Product{}, product.ID).Error)
}

func TestDeleteProductSuccess(t *testing.T) {
	env := newTestEnv(t)
	col := testutil.SeedCollection(t, env.DB, "electronics")
	product := testutil.SeedProduct(t, env.DB, col.ID, "charger", "14.99")

	rec, c := env.doJSONRequest(http.MethodDelete, "/api/v1/admin/products/1", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.Products.DeleteProduct(c))
	require.Equal(t, http.StatusNoContent, rec.Code)

	err := env.DB.First(&models.Product{}, product.ID).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteCollectionConflict(t *testing.T) {
	env := newTestEnv(t)
	col := testutil.SeedCollection(t, env.DB, "electronics")
	testutil.SeedProduct(t, env.DB, col.ID, "cable", "4.99")

	rec, c := env.doJSONRequest(http.MethodDelete, "/api/v1/admin/collections/1", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.Collection.DeleteCollection(c))
	require.Equal(t, http.StatusConflict, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Contains(t, resp["error"], "has products in it")
}

func TestProductResponseIncludesTax(t *testing.T) {
	env := newTestEnv(t)
	col := testutil.SeedCollection(t, env.DB, "electronics")
	testutil.SeedProduct(t, env.DB, col.ID, "webcam", "50.00")

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/products/1", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.Products.GetProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		UnitPrice    decimal.Decimal `json:"unit_price"`
		PriceWithTax decimal.Decimal `json:"price_with_tax"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.PriceWithTax.Equal(decimal.RequireFromString("60.00")))
}

func TestCollectionListProductCount(t *testing.T) {
	env := newTestEnv(t)
	col := testutil.SeedCollection(t, env.DB, "electronics")
	empty := testutil.SeedCollection(t, env.DB, "outdoors")
	testutil.SeedProduct(t, env.DB, col.ID, "webcam", "50.00")
	testutil.SeedProduct(t, env.DB, col.ID, "speaker", "30.00")

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/collections", nil)
	require.NoError(t, env.Collection.GetCollections(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []struct {
		ID           uint  `json:"id"`
		ProductCount int64 `json:"product_count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)

	counts := map[uint]int64{}
	for _, r := range resp {
		counts[r.ID] = r.ProductCount
	}
	require.Equal(t, int64(2), counts[col.ID])
	require.Equal(t, int64(0), counts[empty.ID])
}

func TestCreateOrderRejectsUnknownCart(t *testing.T) {
	env := newTestEnv(t)

	load := map[string]string{"cart_id": uuid.NewString()}
	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/orders", load)
	c.Set("user_id", uint(1))

	err := env.Orders.CreateOrder(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusBadRequest, he.Code)
	require.Contains(t, he.Message.(string), "no cart")
}

func TestCreateOrderRejectsEmptyCart(t *testing.T) {
	env := newTestEnv(t)

	cart := models.Cart{ID: uuid.New()}
	require.NoError(t, env.DB.Create(&cart).Error)

	load := map[string]string{"cart_id": cart.ID.String()}
	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/orders", load)
	c.Set("user_id", uint(1))

	err := env.Orders.CreateOrder(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusBadRequest, he.Code)
	require.Contains(t, he.Message.(string), "empty")
}

func TestCreateOrderReturnsItems(t *testing.T) {
	env := newTestEnv(t)

	col := testutil.SeedCollection(t, env.DB, "electronics")
	product := testutil.SeedProduct(t, env.DB, col.ID, "monitor", "199.00")

	cart := models.Cart{ID: uuid.New()}
	require.NoError(t, env.DB.Create(&cart).Error)
	require.NoError(t, env.DB.Create(&models.CartItem{CartID: cart.ID, ProductID: product.ID, Quantity: 2}).Error)

	load := map[string]string{"cart_id": cart.ID.String()}
	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/orders", load)
	c.Set("user_id", uint(1))
	require.NoError(t, env.Orders.CreateOrder(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, models.PaymentStatusPending, resp.PaymentStatus)
	require.Len(t, resp.Items, 1)
	require.Equal(t, uint(2), resp.Items[0].Quantity)
	require.True(t, resp.Items[0].UnitPrice.Equal(decimal.RequireFromString("199.00")))
}

func TestCustomerMeLazilyCreates(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/customers/me", nil)
	c.Set("user_id", uint(11))
	require.NoError(t, env.Customers.Me(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.Customer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, uint(11), resp.UserID)
	require.Equal(t, models.MembershipBronze, resp.Membership)

	// A second call resolves the same row.
	rec2, c2 := env.doJSONRequest(http.MethodGet, "/api/v1/customers/me", nil)
	c2.Set("user_id", uint(11))
	require.NoError(t, env.Customers.Me(c2))

	var resp2 models.Customer
	require.NoError(t, json.Unmarshal(rec2.Body.Bytes(), &resp2))
	require.Equal(t, resp.ID, resp2.ID)
}
