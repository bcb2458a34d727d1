package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PizzaCategoryName is the category whose dishes count towards the
// multi-pizza discount
const PizzaCategoryName = "Pizza"

// Dish represents a menu entry
type Dish struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	Name        string           `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Price       decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"price"`
	Description *string          `gorm:"size:100" json:"description"`
	CategoryID  uint             `gorm:"not null;index" json:"category_id"`
	Category    *Category        `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	ImageKey    *string          `gorm:"size:255" json:"image_key,omitempty"`       // nullable, S3 key of the dish photo
	ImageURL    *string          `gorm:"-" json:"image_url,omitempty"`              // computed field, presigned URL for image
	Ingredients []DishIngredient `gorm:"foreignKey:DishID" json:"ingredients,omitempty"` // recipe lines
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// TableName specifies the table name for the Dish model
func (Dish) TableName() string {
	return "dishes"
}
