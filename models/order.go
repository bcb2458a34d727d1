package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order represents a customer order. TotalPrice is maintained by the order
// item operations and always equals the sum of the item line totals.
type Order struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	UserID             string          `gorm:"size:36;not null;index" json:"user_id"` // foreign key to users table
	User               *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	TotalPrice         decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_price"`
	Status             OrderStatus     `gorm:"size:20;not null;default:'Pending';index" json:"status"`
	UsedBonusReward    bool            `gorm:"not null;default:false" json:"used_bonus_reward"`
	CancellationReason *string         `gorm:"size:100" json:"cancellation_reason,omitempty"` // set only when cancelled
	CancelledAt        *time.Time      `json:"cancelled_at,omitempty"`
	FinalizedAt        *time.Time      `json:"finalized_at,omitempty"` // set only when paid
	Items              []OrderItem     `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	CreatedAt          time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}
