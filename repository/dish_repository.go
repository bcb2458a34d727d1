package repository

import (
	"context"

	"github.com/kendall-kelly/pizzeria-api/models"
	"gorm.io/gorm"
)

// DishSort selects the ordering of dish listings
type DishSort int

const (
	DishSortByName DishSort = iota
	DishSortPriceAsc
	DishSortPriceDesc
)

// DishRepository persists dishes
type DishRepository struct {
	db *gorm.DB
}

func (r *DishRepository) Create(ctx context.Context, dish *models.Dish) error {
	return r.db.WithContext(ctx).Omit("Category", "Ingredients").Create(dish).Error
}

func (r *DishRepository) Save(ctx context.Context, dish *models.Dish) error {
	return r.db.WithContext(ctx).Omit("Category", "Ingredients").Save(dish).Error
}

func (r *DishRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Dish{}, id).Error
}

func (r *DishRepository) FindByID(ctx context.Context, id uint) (*models.Dish, error) {
	var dish models.Dish
	if err := r.db.WithContext(ctx).Preload("Category").First(&dish, id).Error; err != nil {
		return nil, err
	}
	return &dish, nil
}

// FindByIDForUpdate loads and locks the dish row
func (r *DishRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.Dish, error) {
	var dish models.Dish
	if err := forUpdate(r.db.WithContext(ctx)).First(&dish, id).Error; err != nil {
		return nil, err
	}
	return &dish, nil
}

func (r *DishRepository) FindByName(ctx context.Context, name string) (*models.Dish, error) {
	var dish models.Dish
	if err := r.db.WithContext(ctx).Preload("Category").Where(lowerEquals("name"), name).First(&dish).Error; err != nil {
		return nil, err
	}
	return &dish, nil
}

// FindByIDs loads the dishes with the given ids, keyed by id
func (r *DishRepository) FindByIDs(ctx context.Context, ids []uint) (map[uint]models.Dish, error) {
	var dishes []models.Dish
	if err := r.db.WithContext(ctx).Preload("Category").Where("id IN ?", ids).Find(&dishes).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Dish, len(dishes))
	for _, d := range dishes {
		byID[d.ID] = d
	}
	return byID, nil
}

func (r *DishRepository) List(ctx context.Context, sort DishSort) ([]models.Dish, error) {
	q := r.db.WithContext(ctx).Preload("Category")
	switch sort {
	case DishSortPriceAsc:
		q = q.Order("price ASC").Order("name ASC")
	case DishSortPriceDesc:
		q = q.Order("price DESC").Order("name ASC")
	default:
		q = q.Order("name ASC")
	}
	var dishes []models.Dish
	err := q.Find(&dishes).Error
	return dishes, err
}

func (r *DishRepository) ListByCategory(ctx context.Context, categoryID uint) ([]models.Dish, error) {
	var dishes []models.Dish
	err := r.db.WithContext(ctx).Preload("Category").
		Where("category_id = ?", categoryID).
		Order("name ASC").
		Find(&dishes).Error
	return dishes, err
}

// SearchByName returns dishes whose name contains term, ignoring case
func (r *DishRepository) SearchByName(ctx context.Context, term string) ([]models.Dish, error) {
	var dishes []models.Dish
	err := r.db.WithContext(ctx).Preload("Category").
		Where("LOWER(name) LIKE LOWER(?)", "%"+term+"%").
		Order("name ASC").
		Find(&dishes).Error
	return dishes, err
}

// NameTaken reports whether another dish already uses name
func (r *DishRepository) NameTaken(ctx context.Context, name string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Dish{}).Where(lowerEquals("name"), name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *DishRepository) SetImageKey(ctx context.Context, id uint, key *string) error {
	return r.db.WithContext(ctx).Model(&models.Dish{}).Where("id = ?", id).Update("image_key", key).Error
}
