package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MembershipBronze = "B"
	MembershipSilver = "S"
	MembershipGold   = "G"
)

const (
	PaymentStatusPending  = "P"
	PaymentStatusComplete = "C"
	PaymentStatusFailed   = "F"
)

type Collection struct {
	ID    uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Title string `gorm:"not null"                 json:"title"`
}

type Product struct {
	ID           uint            `gorm:"primaryKey;autoIncrement"      json:"id"`
	Title        string          `gorm:"not null"                      json:"title"`
	Slug         string          `gorm:"index;not null"                json:"slug"`
	Description  string          `json:"description"`
	UnitPrice    decimal.Decimal `gorm:"not null;type:decimal(10,2)"   json:"unit_price"`
	Inventory    uint            `json:"inventory"`
	CollectionID uint            `gorm:"index;not null"                json:"collection_id"`
	Collection   *Collection     `gorm:"constraint:OnDelete:RESTRICT"  json:"-"`
	LastUpdate   time.Time       `gorm:"autoUpdateTime"                json:"last_update"`
}

type ProductImage struct {
	ID        uint   `gorm:"primaryKey"     json:"id"`
	ProductID uint   `gorm:"index;not null" json:"product_id"`
	Image     string `gorm:"not null"       json:"image"`
}

type Review struct {
	ID          uint      `gorm:"primaryKey"     json:"id"`
	ProductID   uint      `gorm:"index;not null" json:"product_id"`
	Name        string    `gorm:"not null"       json:"name"`
	Date        time.Time `gorm:"autoCreateTime" json:"date"`
	Description string    `gorm:"not null"       json:"description"`
}

// Cart is identified by an opaque token so it can be handed to
// anonymous clients before any account exists.
type Cart struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

type CartItem struct {
	ID        uint      `gorm:"primaryKey"                                      json:"id"`
	CartID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_cart_product;not null" json:"cart_id"`
	ProductID uint      `gorm:"uniqueIndex:idx_cart_product;not null"           json:"product_id"`
	Product   Product   `json:"product"`
	Quantity  uint      `gorm:"default:1;check:quantity>0"                      json:"quantity"`
}

type Customer struct {
	ID         uint       `gorm:"primaryKey"           json:"id"`
	UserID     uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	Phone      string     `json:"phone"`
	BirthDate  *time.Time `json:"birth_date"`
	Membership string     `gorm:"not null;default:B"   json:"membership"`
}

type Order struct {
	ID            uint        `gorm:"primaryKey"         json:"id"`
	CustomerID    uint        `gorm:"index;not null"     json:"customer_id"`
	PaymentStatus string      `gorm:"not null;default:P" json:"payment_status"`
	PlacedAt      time.Time   `gorm:"not null"           json:"placed_at"`
	Items         []OrderItem `json:"items"`
}

// UnitPrice is a snapshot taken at checkout, it never tracks later
// price changes on the product row.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey"                   json:"id"`
	OrderID   uint            `gorm:"index;not null"               json:"order_id"`
	ProductID uint            `gorm:"not null"                     json:"product_id"`
	Product   Product         `gorm:"constraint:OnDelete:RESTRICT" json:"product"`
	UnitPrice decimal.Decimal `gorm:"not null;type:decimal(10,2)"  json:"unit_price"`
	Quantity  uint            `gorm:"default:1;check:quantity>0"   json:"quantity"`
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null"                 json:"role"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"      json:"id"`
	Token     string `gorm:"unique;not null" json:"token"`
	UserID    uint   `gorm:"index;not null"  json:"user_id"`
	Role      string `gorm:"not null"        json:"role"`
	ExpiresAt int64  `gorm:"not null"        json:"expires_at"`
	Revoked   bool   `gorm:"default:false"   json:"revoked"`
}

// All lists every model in migration order.
func All() []any {
	return []any{
		&User{},
		&RefreshToken{},
		&Collection{},
		&Product{},
		&ProductImage{},
		&Review{},
		&Cart{},
		&CartItem{},
		&Customer{},
		&Order{},
		&OrderItem{},
	}
}
