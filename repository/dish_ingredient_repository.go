package repository

import (
	"context"

	"github.com/kendall-kelly/pizzeria-api/models"
	"gorm.io/gorm"
)

// DishIngredientRepository persists recipe lines
type DishIngredientRepository struct {
	db *gorm.DB
}

func (r *DishIngredientRepository) Create(ctx context.Context, line *models.DishIngredient) error {
	return r.db.WithContext(ctx).Omit("Dish", "Ingredient").Create(line).Error
}

// CreateMany inserts lines in one statement
func (r *DishIngredientRepository) CreateMany(ctx context.Context, lines []models.DishIngredient) error {
	if len(lines) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit("Dish", "Ingredient").Create(&lines).Error
}

// Update rewrites quantity and unit of an existing line
func (r *DishIngredientRepository) Update(ctx context.Context, line *models.DishIngredient) error {
	return r.db.WithContext(ctx).Model(&models.DishIngredient{}).
		Where("dish_id = ? AND ingredient_id = ?", line.DishID, line.IngredientID).
		Updates(map[string]interface{}{
			"quantity": line.Quantity,
			"unit":     line.Unit,
		}).Error
}

func (r *DishIngredientRepository) Delete(ctx context.Context, dishID, ingredientID uint) error {
	return r.db.WithContext(ctx).
		Where("dish_id = ? AND ingredient_id = ?", dishID, ingredientID).
		Delete(&models.DishIngredient{}).Error
}

// DeleteByDish removes every recipe line of a dish
func (r *DishIngredientRepository) DeleteByDish(ctx context.Context, dishID uint) error {
	return r.db.WithContext(ctx).Where("dish_id = ?", dishID).Delete(&models.DishIngredient{}).Error
}

func (r *DishIngredientRepository) Find(ctx context.Context, dishID, ingredientID uint) (*models.DishIngredient, error) {
	var line models.DishIngredient
	err := r.db.WithContext(ctx).Preload("Ingredient").
		Where("dish_id = ? AND ingredient_id = ?", dishID, ingredientID).
		First(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *DishIngredientRepository) List(ctx context.Context) ([]models.DishIngredient, error) {
	var lines []models.DishIngredient
	err := r.db.WithContext(ctx).Preload("Dish").Preload("Ingredient").
		Order("dish_id ASC").Order("ingredient_id ASC").
		Find(&lines).Error
	return lines, err
}

// ListByDish returns the recipe of a dish with ingredient prices loaded
func (r *DishIngredientRepository) ListByDish(ctx context.Context, dishID uint) ([]models.DishIngredient, error) {
	var lines []models.DishIngredient
	err := r.db.WithContext(ctx).Preload("Ingredient").
		Where("dish_id = ?", dishID).
		Order("ingredient_id ASC").
		Find(&lines).Error
	return lines, err
}

// ListByIngredient returns every recipe line using an ingredient, with dishes loaded
func (r *DishIngredientRepository) ListByIngredient(ctx context.Context, ingredientID uint) ([]models.DishIngredient, error) {
	var lines []models.DishIngredient
	err := r.db.WithContext(ctx).Preload("Dish").
		Where("ingredient_id = ?", ingredientID).
		Order("dish_id ASC").
		Find(&lines).Error
	return lines, err
}

// IngredientIDsForDish returns the ids of ingredients already on the recipe
func (r *DishIngredientRepository) IngredientIDsForDish(ctx context.Context, dishID uint) (map[uint]bool, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.DishIngredient{}).
		Where("dish_id = ?", dishID).
		Pluck("ingredient_id", &ids).Error
	if err != nil {
		return nil, err
	}
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (r *DishIngredientRepository) Exists(ctx context.Context, dishID, ingredientID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.DishIngredient{}).
		Where("dish_id = ? AND ingredient_id = ?", dishID, ingredientID).
		Count(&count).Error
	return count > 0, err
}

// ExistsByIngredientName checks the recipe for an ingredient by its name
func (r *DishIngredientRepository) ExistsByIngredientName(ctx context.Context, dishID uint, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.DishIngredient{}).
		Joins("JOIN ingredients ON ingredients.id = dish_ingredients.ingredient_id").
		Where("dish_ingredients.dish_id = ?", dishID).
		Where(lowerEquals("ingredients.name"), name).
		Count(&count).Error
	return count > 0, err
}
