package repository

import (
	"context"

	"github.com/kendall-kelly/pizzeria-api/models"
	"gorm.io/gorm"
)

// OrderItemRepository persists order lines
type OrderItemRepository struct {
	db *gorm.DB
}

func (r *OrderItemRepository) Create(ctx context.Context, item *models.OrderItem) error {
	return r.db.WithContext(ctx).Omit("Order", "Dish").Create(item).Error
}

// CreateMany inserts items in one statement
func (r *OrderItemRepository) CreateMany(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit("Order", "Dish").Create(&items).Error
}

func (r *OrderItemRepository) FindByID(ctx context.Context, id uint) (*models.OrderItem, error) {
	var item models.OrderItem
	if err := r.db.WithContext(ctx).Preload("Dish").First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateLine writes quantity and price snapshot of an item
func (r *OrderItemRepository) UpdateLine(ctx context.Context, item *models.OrderItem) error {
	return r.db.WithContext(ctx).Model(&models.OrderItem{}).
		Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"quantity":   item.Quantity,
			"unit_price": item.UnitPrice,
		}).Error
}

func (r *OrderItemRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.OrderItem{}, id).Error
}

func (r *OrderItemRepository) ListByOrder(ctx context.Context, orderID uint) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.db.WithContext(ctx).Preload("Dish").
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

// ListByOrderWithCategory loads items with dish and category, for discount rules
func (r *OrderItemRepository) ListByOrderWithCategory(ctx context.Context, orderID uint) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.db.WithContext(ctx).Preload("Dish.Category").
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

// ListByDish returns every item pointing at a dish, with its order loaded
func (r *OrderItemRepository) ListByDish(ctx context.Context, dishID uint) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.db.WithContext(ctx).Preload("Order").
		Where("dish_id = ?", dishID).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

// MarkDishDeleted detaches items from a deleted dish and keeps its name
func (r *OrderItemRepository) MarkDishDeleted(ctx context.Context, ids []uint, dishName string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.OrderItem{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"dish_id":      nil,
			"dish_deleted": true,
			"dish_name":    dishName,
		}).Error
}

func (r *OrderItemRepository) DeleteByIDs(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.OrderItem{}).Error
}

// DeleteByOrders removes every item of the given orders
func (r *OrderItemRepository) DeleteByOrders(ctx context.Context, orderIDs []uint) error {
	if len(orderIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("order_id IN ?", orderIDs).Delete(&models.OrderItem{}).Error
}
