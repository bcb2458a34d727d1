package models

import "github.com/shopspring/decimal"

// DishIngredient is a recipe line. The composite primary key keeps a dish
// from listing the same ingredient twice.
type DishIngredient struct {
	DishID       uint            `gorm:"primaryKey;autoIncrement:false" json:"dish_id"`
	IngredientID uint            `gorm:"primaryKey;autoIncrement:false;index" json:"ingredient_id"`
	Quantity     decimal.Decimal `gorm:"type:decimal(10,3);not null" json:"quantity"`
	Unit         Unit            `gorm:"size:10;not null" json:"unit"`
	Dish         *Dish           `gorm:"foreignKey:DishID" json:"dish,omitempty"`
	Ingredient   *Ingredient     `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty"`
}

// TableName specifies the table name for the DishIngredient model
func (DishIngredient) TableName() string {
	return "dish_ingredients"
}

// Cost returns ingredient price × quantity. The ingredient must be loaded.
func (di DishIngredient) Cost() decimal.Decimal {
	if di.Ingredient == nil {
		return decimal.Zero
	}
	return di.Ingredient.Price.Mul(di.Quantity)
}
