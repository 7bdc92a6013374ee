package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AbuzarGhazanfarKhan/storefront/internal/models"
)

var (
	ErrCartNotFound    = errors.New("no cart with the given id was found")
	ErrProductNotFound = errors.New("no product with the given id was found")
	ErrItemNotFound    = errors.New("no such item in the cart")
)

type Service struct {
	DB *gorm.DB
}

func (s *Service) CreateCart(ctx context.Context) (*models.Cart, error) {
	cart := models.Cart{ID: uuid.New()}
	if err := s.DB.WithContext(ctx).Create(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (s *Service) GetCart(ctx context.Context, cartID uuid.UUID) (*models.Cart, []models.CartItem, error) {
	var cart models.Cart
	if err := s.DB.WithContext(ctx).First(&cart, "id = ?", cartID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrCartNotFound
		}
		return nil, nil, err
	}

	items, err := s.ListItems(ctx, cartID)
	if err != nil {
		return nil, nil, err
	}
	return &cart, items, nil
}

func (s *Service) DeleteCart(ctx context.Context, cartID uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Cart{}, "id = ?", cartID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrCartNotFound
		}
		return nil
	})
}

func (s *Service) ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	err := s.DB.WithContext(ctx).
		Preload("Product").
		Where("cart_id = ?", cartID).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// AddItem adds a product to the cart, or bumps the quantity when the
// (cart, product) pair already has a row. A single conditional upsert
// against the unique index keeps concurrent additions from losing
// updates or duplicating rows.
func (s *Service) AddItem(ctx context.Context, cartID uuid.UUID, productID, quantity uint) (*models.CartItem, error) {
	db := s.DB.WithContext(ctx)

	var product models.Product
	if err := db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	var cart models.Cart
	if err := db.First(&cart, "id = ?", cartID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}

	if quantity < 1 {
		quantity = 1
	}

	item := models.CartItem{CartID: cartID, ProductID: productID, Quantity: quantity}
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity": gorm.Expr("quantity + excluded.quantity"),
		}),
	}).Create(&item).Error
	if err != nil {
		return nil, err
	}

	var out models.CartItem
	if err := db.Preload("Product").
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) UpdateItem(ctx context.Context, cartID uuid.UUID, itemID, quantity uint) (*models.CartItem, error) {
	db := s.DB.WithContext(ctx)

	var item models.CartItem
	if err := db.Where("id = ? AND cart_id = ?", itemID, cartID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	if quantity < 1 {
		quantity = 1
	}
	item.Quantity = quantity
	if err := db.Save(&item).Error; err != nil {
		return nil, err
	}

	var out models.CartItem
	if err := db.Preload("Product").First(&out, item.ID).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) RemoveItem(ctx context.Context, cartID uuid.UUID, itemID uint) error {
	res := s.DB.WithContext(ctx).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

// ItemTotal is quantity times the product's current unit price.
func ItemTotal(item models.CartItem) decimal.Decimal {
	return item.Product.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// CartTotal sums the item totals of the whole cart.
func CartTotal(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(ItemTotal(it))
	}
	return total
}
