package repository

import (
	"context"

	"github.com/kendall-kelly/pizzeria-api/models"
	"gorm.io/gorm"
)

// IngredientRepository persists ingredients
type IngredientRepository struct {
	db *gorm.DB
}

func (r *IngredientRepository) Create(ctx context.Context, ingredient *models.Ingredient) error {
	return r.db.WithContext(ctx).Create(ingredient).Error
}

func (r *IngredientRepository) Save(ctx context.Context, ingredient *models.Ingredient) error {
	return r.db.WithContext(ctx).Save(ingredient).Error
}

func (r *IngredientRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Ingredient{}, id).Error
}

func (r *IngredientRepository) FindByID(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := r.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (r *IngredientRepository) FindByName(ctx context.Context, name string) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := r.db.WithContext(ctx).Where(lowerEquals("name"), name).First(&ingredient).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

// FindByIDs loads the ingredients with the given ids, keyed by id
func (r *IngredientRepository) FindByIDs(ctx context.Context, ids []uint) (map[uint]models.Ingredient, error) {
	var ingredients []models.Ingredient
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ingredients).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Ingredient, len(ingredients))
	for _, i := range ingredients {
		byID[i.ID] = i
	}
	return byID, nil
}

func (r *IngredientRepository) List(ctx context.Context) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	err := r.db.WithContext(ctx).Order("name ASC").Find(&ingredients).Error
	return ingredients, err
}

// NameTaken reports whether another ingredient already uses name
func (r *IngredientRepository) NameTaken(ctx context.Context, name string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Ingredient{}).Where(lowerEquals("name"), name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

// CountRecipeUsage returns how many recipe lines reference the ingredient
func (r *IngredientRepository) CountRecipeUsage(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.DishIngredient{}).Where("ingredient_id = ?", id).Count(&count).Error
	return count, err
}
