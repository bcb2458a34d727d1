package services

import (
	"context"
	"fmt"

	"github.com/kendall-kelly/pizzeria-api/models"
	"github.com/kendall-kelly/pizzeria-api/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderItemInput is one dish and quantity to put on an order
type OrderItemInput struct {
	DishID   uint
	Quantity int
}

func (in OrderItemInput) validate() error {
	if err := validateID("Dish id", in.DishID); err != nil {
		return err
	}
	if in.Quantity <= 0 {
		return validationError("Quantity must be greater than 0")
	}
	return nil
}

// OrderItemService edits the lines of a pending order. Every change locks the
// order row and adjusts its total in the same transaction.
type OrderItemService struct {
	store *repository.Store
	log   *zap.Logger
}

func NewOrderItemService(store *repository.Store, log *zap.Logger) *OrderItemService {
	return &OrderItemService{store: store, log: log}
}

// pendingOwnedOrder locks the order and checks ownership and status
func pendingOwnedOrder(ctx context.Context, tx *repository.Store, userID string, orderID uint) (*models.Order, error) {
	order, err := ownedOrderForUpdate(ctx, tx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusPending {
		return nil, ErrOrderNotPending
	}
	return order, nil
}

// AddOne puts a dish on the caller's pending order
func (s *OrderItemService) AddOne(ctx context.Context, userID string, orderID uint, in OrderItemInput) (*models.OrderItem, error) {
	items, err := s.AddMany(ctx, userID, orderID, []OrderItemInput{in})
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

// AddMany puts several dishes on the caller's pending order at their current
// prices. Either every line is added or none is.
func (s *OrderItemService) AddMany(ctx context.Context, userID string, orderID uint, inputs []OrderItemInput) ([]models.OrderItem, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if err := validateID("Order id", orderID); err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return nil, validationError("At least one order item is required")
	}
	dishIDs := make([]uint, 0, len(inputs))
	for _, in := range inputs {
		if err := in.validate(); err != nil {
			return nil, err
		}
		dishIDs = append(dishIDs, in.DishID)
	}

	var items []models.OrderItem
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := pendingOwnedOrder(ctx, tx, userID, orderID); err != nil {
			return err
		}

		dishes, err := tx.Dishes.FindByIDs(ctx, dishIDs)
		if err != nil {
			return err
		}

		added := decimal.Zero
		items = make([]models.OrderItem, 0, len(inputs))
		for _, in := range inputs {
			dish, ok := dishes[in.DishID]
			if !ok {
				return notFoundError("DISH_NOT_FOUND", "Dish %d not found", in.DishID)
			}
			dishID := dish.ID
			item := models.OrderItem{
				OrderID:   orderID,
				DishID:    &dishID,
				DishName:  dish.Name,
				Quantity:  in.Quantity,
				UnitPrice: dish.Price,
			}
			added = added.Add(item.LineTotal())
			items = append(items, item)
		}

		if err := tx.OrderItems.CreateMany(ctx, items); err != nil {
			return err
		}
		return tx.Orders.AdjustTotal(ctx, orderID, added)
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Update changes the quantity of a line. The total moves by the difference
// between the new and old line amounts at the line's price snapshot.
func (s *OrderItemService) Update(ctx context.Context, userID string, itemID uint, quantity int) (*models.OrderItem, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if err := validateID("Order item id", itemID); err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, validationError("Quantity must be greater than 0")
	}

	var item *models.OrderItem
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		item, err = tx.OrderItems.FindByID(ctx, itemID)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrOrderItemNotFound
			}
			return err
		}
		if _, err := pendingOwnedOrder(ctx, tx, userID, item.OrderID); err != nil {
			if err == ErrOrderNotFound {
				return ErrOrderItemNotFound
			}
			return err
		}

		before := item.LineTotal()
		item.Quantity = quantity
		if err := tx.OrderItems.UpdateLine(ctx, item); err != nil {
			return err
		}
		return tx.Orders.AdjustTotal(ctx, item.OrderID, item.LineTotal().Sub(before))
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes a line from the caller's pending order
func (s *OrderItemService) Delete(ctx context.Context, userID string, itemID uint) error {
	if err := validateUserID(userID); err != nil {
		return err
	}
	if err := validateID("Order item id", itemID); err != nil {
		return err
	}

	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		item, err := tx.OrderItems.FindByID(ctx, itemID)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrOrderItemNotFound
			}
			return err
		}
		if _, err := pendingOwnedOrder(ctx, tx, userID, item.OrderID); err != nil {
			if err == ErrOrderNotFound {
				return ErrOrderItemNotFound
			}
			return err
		}
		if err := tx.OrderItems.Delete(ctx, itemID); err != nil {
			return err
		}
		return tx.Orders.AdjustTotal(ctx, item.OrderID, item.LineTotal().Neg())
	})
}

// ListByOrder returns the lines of one of the caller's orders
func (s *OrderItemService) ListByOrder(ctx context.Context, userID string, orderID uint) ([]models.OrderItem, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if err := validateID("Order id", orderID); err != nil {
		return nil, err
	}
	order, err := s.store.Orders.FindByID(ctx, orderID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	if order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	items, err := s.store.OrderItems.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	return items, nil
}

func (s *OrderItemService) GetByID(ctx context.Context, userID string, itemID uint) (*models.OrderItem, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if err := validateID("Order item id", itemID); err != nil {
		return nil, err
	}
	item, err := s.store.OrderItems.FindByID(ctx, itemID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrOrderItemNotFound
		}
		return nil, fmt.Errorf("find order item: %w", err)
	}
	order, err := s.store.Orders.FindByID(ctx, item.OrderID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrOrderItemNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	if order.UserID != userID {
		return nil, ErrOrderItemNotFound
	}
	return item, nil
}
