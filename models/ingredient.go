package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ingredient is a stock item priced per unit
type Ingredient struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Name      string          `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TableName specifies the table name for the Ingredient model
func (Ingredient) TableName() string {
	return "ingredients"
}
