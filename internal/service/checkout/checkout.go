package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/AbuzarGhazanfarKhan/storefront/internal/events"
	"github.com/AbuzarGhazanfarKhan/storefront/internal/logging"
	"github.com/AbuzarGhazanfarKhan/storefront/internal/models"
	"github.com/AbuzarGhazanfarKhan/storefront/internal/service/customer"
	"github.com/google/uuid"
)

var (
	ErrCartNotFound = errors.New("no cart with the given id was found")
	ErrCartEmpty    = errors.New("the cart is empty")
)

type Service struct {
	DB       *gorm.DB
	Producer events.Publisher
}

// PlaceOrder converts the cart into an order: resolve the customer,
// snapshot every cart item into an order item at the product's current
// unit price, drop the cart. Everything up to the commit runs in one
// transaction; the order_created event goes out only after it.
func (s *Service) PlaceOrder(ctx context.Context, cartID uuid.UUID, userID uint) (*models.Order, error) {
	db := s.DB.WithContext(ctx)

	// Preconditions are validated before any mutation.
	var cart models.Cart
	if err := db.First(&cart, "id = ?", cartID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}

	var itemCount int64
	if err := db.Model(&models.CartItem{}).Where("cart_id = ?", cartID).Count(&itemCount).Error; err != nil {
		return nil, err
	}
	if itemCount == 0 {
		return nil, ErrCartEmpty
	}

	var order models.Order

	txErr := db.Transaction(func(tx *gorm.DB) error {
		cust, err := customer.GetOrCreate(tx, userID)
		if err != nil {
			return err
		}

		order = models.Order{
			CustomerID:    cust.ID,
			PaymentStatus: models.PaymentStatusPending,
			PlacedAt:      time.Now(),
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		// One batched fetch, products eager-loaded.
		var cartItems []models.CartItem
		if err := tx.Preload("Product").Where("cart_id = ?", cartID).Find(&cartItems).Error; err != nil {
			return err
		}
		if len(cartItems) == 0 {
			return ErrCartEmpty
		}

		orderItems := make([]models.OrderItem, 0, len(cartItems))
		for _, it := range cartItems {
			orderItems = append(orderItems, models.OrderItem{
				OrderID:   order.ID,
				ProductID: it.ProductID,
				UnitPrice: it.Product.UnitPrice,
				Quantity:  it.Quantity,
			})
		}
		if err := tx.Create(&orderItems).Error; err != nil {
			return err
		}

		if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Cart{}, "id = ?", cartID).Error; err != nil {
			return err
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if err := db.Preload("Items.Product").First(&order, order.ID).Error; err != nil {
		return nil, err
	}

	// Post-commit notification, best-effort.
	if s.Producer != nil {
		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		event := map[string]any{
			"type":     "order_created",
			"order_id": order.ID,
			"user_id":  userID,
			"items":    order.Items,
		}
		if err := s.Producer.PublishEvent(pubCtx, events.TopicOrderEvents, fmt.Sprint(userID), event); err != nil {
			logging.FromContext(ctx).Error("order_created publish failed", "order_id", order.ID, "error", err)
		}
	}

	return &order, nil
}
