package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a pizzeria account (regular, premium or admin)
type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Username     string    `gorm:"size:256;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:256;uniqueIndex;not null" json:"email"`
	PhoneNumber  *string   `gorm:"size:30" json:"phone_number"`
	PasswordHash string    `gorm:"not null" json:"-"`
	BonusPoints  int       `gorm:"not null;default:0;check:bonus_points >= 0" json:"bonus_points"`
	Role         Role      `gorm:"size:20;not null;default:'RegularUser';index" json:"role"`
	Orders       []Order   `gorm:"foreignKey:UserID" json:"orders,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a UUID when the caller did not set one
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// IsPremium reports whether the user holds the premium role
func (u *User) IsPremium() bool {
	return u.Role == RolePremiumUser
}
