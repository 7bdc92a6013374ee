package customer

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AbuzarGhazanfarKhan/storefront/internal/models"
)

// GetOrCreate lazily creates the customer row for a user account on
// first use. The upsert keys on the unique user_id so two concurrent
// first uses cannot create duplicates.
func GetOrCreate(db *gorm.DB, userID uint) (*models.Customer, error) {
	fresh := models.Customer{UserID: userID, Membership: models.MembershipBronze}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&fresh).Error; err != nil {
		return nil, err
	}

	var out models.Customer
	if err := db.Where("user_id = ?", userID).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}
