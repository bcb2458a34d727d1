package models

// All returns every persisted model in migration order
func All() []interface{} {
	return []interface{}{
		&User{},
		&Category{},
		&Ingredient{},
		&Dish{},
		&DishIngredient{},
		&Order{},
		&OrderItem{},
	}
}
