package repository

import (
	"context"

	"github.com/kendall-kelly/pizzeria-api/models"
	"gorm.io/gorm"
)

// UserRepository persists accounts
type UserRepository struct {
	db *gorm.DB
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Omit("Orders").Create(user).Error
}

func (r *UserRepository) Save(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Omit("Orders").Save(user).Error
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.User{}).Error
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDForUpdate loads and locks the user row
func (r *UserRepository) FindByIDForUpdate(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := forUpdate(r.db.WithContext(ctx)).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where(lowerEquals("username"), username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where(lowerEquals("email"), email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Order("username ASC").Find(&users).Error
	return users, err
}

func (r *UserRepository) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Where("role = ?", role).Order("username ASC").Find(&users).Error
	return users, err
}

// ListWithOrders returns users owning at least one order
func (r *UserRepository) ListWithOrders(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("EXISTS (SELECT 1 FROM orders WHERE orders.user_id = users.id)").
		Order("username ASC").
		Find(&users).Error
	return users, err
}

// ListWithoutOrders returns users that never ordered
func (r *UserRepository) ListWithoutOrders(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("NOT EXISTS (SELECT 1 FROM orders WHERE orders.user_id = users.id)").
		Order("username ASC").
		Find(&users).Error
	return users, err
}

// ListByOrderStatus returns users owning at least one order in status
func (r *UserRepository) ListByOrderStatus(ctx context.Context, status models.OrderStatus) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("EXISTS (SELECT 1 FROM orders WHERE orders.user_id = users.id AND orders.status = ?)", status).
		Order("username ASC").
		Find(&users).Error
	return users, err
}

func (r *UserRepository) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where(lowerEquals("username"), username).Count(&count).Error
	return count > 0, err
}

// EmailTaken reports whether another user already uses email
func (r *UserRepository) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.User{}).Where(lowerEquals("email"), email)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) SetBonus(ctx context.Context, id string, points int) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("bonus_points", points).Error
}

func (r *UserRepository) SetRole(ctx context.Context, id string, role models.Role) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("role", role).Error
}
