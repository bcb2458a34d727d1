package models

import "time"

// Category groups dishes on the menu (Pizza, Pasta, Drinks...)
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Dishes    []Dish    `gorm:"foreignKey:CategoryID" json:"dishes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Category model
func (Category) TableName() string {
	return "categories"
}
