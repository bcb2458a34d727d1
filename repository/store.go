// Package repository holds the gorm-backed data access for the pizzeria.
// Every repository works on the *gorm.DB it was built with, so a Store
// created inside a transaction keeps all of its queries in that transaction.
package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when a lookup matches no row
var ErrNotFound = gorm.ErrRecordNotFound

// Store bundles the per-entity repositories over one connection or transaction
type Store struct {
	db *gorm.DB

	Categories      *CategoryRepository
	Dishes          *DishRepository
	Ingredients     *IngredientRepository
	DishIngredients *DishIngredientRepository
	Orders          *OrderRepository
	OrderItems      *OrderItemRepository
	Users           *UserRepository
}

// NewStore builds a Store over db
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:              db,
		Categories:      &CategoryRepository{db: db},
		Dishes:          &DishRepository{db: db},
		Ingredients:     &IngredientRepository{db: db},
		DishIngredients: &DishIngredientRepository{db: db},
		Orders:          &OrderRepository{db: db},
		OrderItems:      &OrderItemRepository{db: db},
		Users:           &UserRepository{db: db},
	}
}

// DB exposes the underlying handle
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn inside a database transaction. fn receives a Store
// bound to the transaction; returning an error rolls everything back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// IsNotFound reports whether err means no row matched
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateKey reports whether err is a unique constraint violation
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // sqlite
		strings.Contains(msg, "duplicate key") || // postgres
		strings.Contains(msg, "Duplicate entry") // mysql
}

// forUpdate adds a row lock on drivers that support it; sqlite ignores it
func forUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

func lowerEquals(column string) string {
	return "LOWER(" + column + ") = LOWER(?)"
}
