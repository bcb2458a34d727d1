package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem is one line of an order. UnitPrice is the dish price captured
// when the line was last written, so menu changes never touch old totals.
//
// When the referenced dish is deleted after the order left Pending, DishID is
// cleared and DishDeleted is set; DishName keeps the line readable.
type OrderItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OrderID     uint            `gorm:"not null;index" json:"order_id"`
	Order       *Order          `gorm:"foreignKey:OrderID" json:"-"`
	DishID      *uint           `gorm:"index" json:"dish_id"`
	Dish        *Dish           `gorm:"foreignKey:DishID" json:"dish,omitempty"`
	DishName    string          `gorm:"size:50;not null" json:"dish_name"`
	DishDeleted bool            `gorm:"not null;default:false" json:"dish_deleted"`
	Quantity    int             `gorm:"not null;check:quantity > 0" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// LineTotal returns quantity × unit price
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
