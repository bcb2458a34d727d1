package repository

import (
	"context"
	"time"

	"github.com/kendall-kelly/pizzeria-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderRepository persists orders
type OrderRepository struct {
	db *gorm.DB
}

func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Omit("User", "Items").Create(order).Error
}

// FindByID loads an order with its items
func (r *OrderRepository) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByIDForUpdate loads and locks the order row without its items
func (r *OrderRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := forUpdate(r.db.WithContext(ctx)).First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindPendingByUser returns the user's pending order, if any
func (r *OrderRepository) FindPendingByUser(ctx context.Context, userID string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Preload("Items").
		Where("user_id = ? AND status = ?", userID, models.OrderStatusPending).
		Order("id ASC").
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// CountByUserAndStatus counts a user's orders in the given status
func (r *OrderRepository) CountByUserAndStatus(ctx context.Context, userID string, status models.OrderStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("user_id = ? AND status = ?", userID, status).
		Count(&count).Error
	return count, err
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&orders).Error
	return orders, err
}

func (r *OrderRepository) List(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).Preload("Items").
		Order("created_at DESC").Order("id DESC").
		Find(&orders).Error
	return orders, err
}

// ListCreatedBetween returns orders created in [from, to)
func (r *OrderRepository) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).Preload("Items").
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC").
		Find(&orders).Error
	return orders, err
}

func (r *OrderRepository) ListByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).Preload("Items").
		Where("status = ?", status).
		Order("created_at DESC").Order("id DESC").
		Find(&orders).Error
	return orders, err
}

func (r *OrderRepository) ListUsingBonus(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).Preload("Items").
		Where("used_bonus_reward = ?", true).
		Order("created_at DESC").Order("id DESC").
		Find(&orders).Error
	return orders, err
}

// AdjustTotal adds delta (which may be negative) to the order total and
// stores the result rounded to cents. sqlite keeps NUMERIC columns as REAL,
// so the sum is never taken in SQL.
func (r *OrderRepository) AdjustTotal(ctx context.Context, id uint, delta decimal.Decimal) error {
	if delta.IsZero() {
		return nil
	}
	var order models.Order
	if err := forUpdate(r.db.WithContext(ctx)).Select("id", "total_price").First(&order, id).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", id).
		Update("total_price", order.TotalPrice.Add(delta).Round(2)).Error
}

// UpdateFields writes the given columns of one order
func (r *OrderRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(fields).Error
}

func (r *OrderRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Order{}, id).Error
}

// IDsByUser returns the ids of every order a user owns
func (r *OrderRepository) IDsByUser(ctx context.Context, userID string) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID).Pluck("id", &ids).Error
	return ids, err
}

// DeleteByUser removes every order owned by a user
func (r *OrderRepository) DeleteByUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Order{}).Error
}
