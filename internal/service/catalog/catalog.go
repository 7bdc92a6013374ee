package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/AbuzarGhazanfarKhan/storefront/internal/models"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrProductInOrders    = errors.New("product cannot be deleted because it is associated with an order item")
	ErrCollectionNotEmpty = errors.New("collection cannot be deleted because it has products in it")
)

type Service struct {
	DB *gorm.DB
}

// DeleteProduct refuses to remove a product that order history still
// references. Check and delete share one transaction; the RESTRICT
// foreign key on order_items backs the same rule at the schema level.
func (s *Service) DeleteProduct(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&models.OrderItem{}).Where("product_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return ErrProductInOrders
		}

		res := tx.Delete(&models.Product{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// DeleteCollection refuses to remove a collection that still has
// products in it.
func (s *Service) DeleteCollection(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&models.Product{}).Where("collection_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return ErrCollectionNotEmpty
		}

		res := tx.Delete(&models.Collection{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
