package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kendall-kelly/pizzeria-api/models"
	"github.com/kendall-kelly/pizzeria-api/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	maxCancellationReasonLength = 100
	defaultCancellationReason   = "No reason provided"
)

// OrderService handles the order lifecycle
type OrderService struct {
	store    *repository.Store
	events   EventPublisher
	receipts ReceiptGenerator
	log      *zap.Logger
	now      func() time.Time
}

func NewOrderService(store *repository.Store, events EventPublisher, receipts ReceiptGenerator, log *zap.Logger) *OrderService {
	return &OrderService{store: store, events: events, receipts: receipts, log: log, now: time.Now}
}

func validateUserID(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return validationError("User id is required")
	}
	return nil
}

// ownedOrderForUpdate locks an order and checks that userID owns it
func ownedOrderForUpdate(ctx context.Context, tx *repository.Store, userID string, orderID uint) (*models.Order, error) {
	order, err := tx.Orders.FindByIDForUpdate(ctx, orderID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.UserID != userID {
		// Other users' orders are reported as missing
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// Create opens a new pending order for the user. A user holds at most one
// pending order at a time.
func (s *OrderService) Create(ctx context.Context, userID string) (*models.Order, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	var order *models.Order
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.Users.FindByIDForUpdate(ctx, userID); err != nil {
			if repository.IsNotFound(err) {
				return ErrUserNotFound
			}
			return err
		}

		pending, err := tx.Orders.CountByUserAndStatus(ctx, userID, models.OrderStatusPending)
		if err != nil {
			return err
		}
		if pending > 0 {
			return ErrDuplicatePendingOrder
		}

		order = &models.Order{
			UserID:     userID,
			TotalPrice: decimal.Zero,
			Status:     models.OrderStatusPending,
		}
		return tx.Orders.Create(ctx, order)
	})
	if err != nil {
		if IsKind(err, KindConflict) {
			s.log.Warn("rejected order creation", zap.String("user_id", userID), zap.Error(err))
		}
		return nil, err
	}

	publishEvent(ctx, s.events, s.log, Event{Type: EventOrderCreated, OrderID: order.ID, UserID: userID})
	return order, nil
}

// Cancel moves the caller's pending order to Cancelled
func (s *OrderService) Cancel(ctx context.Context, userID string, orderID uint, reason string) (*models.Order, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if err := validateID("Order id", orderID); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = defaultCancellationReason
	}
	if len(reason) > maxCancellationReasonLength {
		return nil, validationError("Cancellation reason cannot exceed %d characters", maxCancellationReasonLength)
	}

	var order *models.Order
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		order, err = ownedOrderForUpdate(ctx, tx, userID, orderID)
		if err != nil {
			return err
		}
		if order.Status != models.OrderStatusPending {
			return ErrOrderNotPending
		}

		cancelledAt := s.now().UTC()
		if err := tx.Orders.UpdateFields(ctx, orderID, map[string]interface{}{
			"status":              models.OrderStatusCancelled,
			"cancellation_reason": reason,
			"cancelled_at":        cancelledAt,
		}); err != nil {
			return err
		}
		order.Status = models.OrderStatusCancelled
		order.CancellationReason = &reason
		order.CancelledAt = &cancelledAt
		return nil
	})
	if err != nil {
		return nil, err
	}

	publishEvent(ctx, s.events, s.log, Event{
		Type:    EventOrderCancelled,
		OrderID: orderID,
		UserID:  userID,
		Data:    map[string]interface{}{"reason": reason},
	})
	return order, nil
}

// SetOrderPaid finalizes the caller's pending order. Premium users either
// redeem their bonus or earn points, and get the pizza discount when the
// order qualifies.
func (s *OrderService) SetOrderPaid(ctx context.Context, userID string, orderID uint, amountPaid decimal.Decimal, useBonus bool) (*models.Order, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if err := validateID("Order id", orderID); err != nil {
		return nil, err
	}
	if !amountPaid.IsPositive() {
		return nil, validationError("Amount paid must be greater than 0")
	}

	var (
		order    *models.Order
		mismatch decimal.Decimal
	)
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		order, err = ownedOrderForUpdate(ctx, tx, userID, orderID)
		if err != nil {
			return err
		}
		if order.Status != models.OrderStatusPending {
			return ErrOrderNotPending
		}

		user, err := tx.Users.FindByIDForUpdate(ctx, userID)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrUserNotFound
			}
			return err
		}

		total := order.TotalPrice.Round(2)
		usedBonus := false
		if user.IsPremium() {
			points := user.BonusPoints + BonusPointsPerOrder
			if useBonus && CanRedeemBonus(user.BonusPoints) {
				points = 0
				usedBonus = true
			}
			if err := tx.Users.SetBonus(ctx, userID, points); err != nil {
				return err
			}

			items, err := tx.OrderItems.ListByOrderWithCategory(ctx, orderID)
			if err != nil {
				return err
			}
			if PizzaUnits(items) >= PizzaDiscountMinUnits {
				total = ApplyPizzaDiscount(total)
			}
		}

		finalizedAt := s.now().UTC()
		if err := tx.Orders.UpdateFields(ctx, orderID, map[string]interface{}{
			"status":            models.OrderStatusPaid,
			"total_price":       total,
			"used_bonus_reward": usedBonus,
			"finalized_at":      finalizedAt,
		}); err != nil {
			return err
		}

		order.Status = models.OrderStatusPaid
		order.TotalPrice = total
		order.UsedBonusReward = usedBonus
		order.FinalizedAt = &finalizedAt
		mismatch = amountPaid.Sub(total).Round(2)
		return nil
	})
	if err != nil {
		return nil, err
	}

	publishEvent(ctx, s.events, s.log, Event{
		Type:    EventOrderPaid,
		OrderID: orderID,
		UserID:  userID,
		Data: map[string]interface{}{
			"total":             order.TotalPrice.StringFixed(2),
			"used_bonus_reward": order.UsedBonusReward,
		},
	})
	if !mismatch.IsZero() {
		kind := "overpaid"
		if mismatch.IsNegative() {
			kind = "underpaid"
		}
		s.log.Info("payment amount differs from order total",
			zap.Uint("order_id", orderID),
			zap.String("kind", kind),
			zap.String("amount_paid", amountPaid.StringFixed(2)),
			zap.String("total", order.TotalPrice.StringFixed(2)),
			zap.String("difference", mismatch.Abs().StringFixed(2)),
		)
		publishEvent(ctx, s.events, s.log, Event{
			Type:    EventOrderPaymentMismatch,
			OrderID: orderID,
			UserID:  userID,
			Data: map[string]interface{}{
				"kind":        kind,
				"amount_paid": amountPaid.StringFixed(2),
				"total":       order.TotalPrice.StringFixed(2),
				"difference":  mismatch.Abs().StringFixed(2),
			},
		})
	}
	return order, nil
}

// UpdateStatus advances an order to Paid or Delivered along the allowed edges.
// An admin moving an order to Paid only stamps finalized_at: bonus points and
// the pizza discount belong to SetOrderPaid.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, status models.OrderStatus) (*models.Order, error) {
	if err := validateID("Order id", orderID); err != nil {
		return nil, err
	}
	if status != models.OrderStatusPaid && status != models.OrderStatusDelivered {
		return nil, ErrInvalidStatusTransition
	}

	var (
		order    *models.Order
		previous models.OrderStatus
	)
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		order, err = tx.Orders.FindByIDForUpdate(ctx, orderID)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrOrderNotFound
			}
			return err
		}
		if !order.Status.CanTransitionTo(status) {
			return ErrInvalidStatusTransition
		}

		previous = order.Status
		fields := map[string]interface{}{"status": status}
		if status == models.OrderStatusPaid {
			finalizedAt := s.now().UTC()
			fields["finalized_at"] = finalizedAt
			order.FinalizedAt = &finalizedAt
		}
		if err := tx.Orders.UpdateFields(ctx, orderID, fields); err != nil {
			return err
		}
		order.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	publishEvent(ctx, s.events, s.log, Event{
		Type:    EventOrderStatusChanged,
		OrderID: orderID,
		UserID:  order.UserID,
		Data:    map[string]interface{}{"from": previous, "to": status},
	})
	return order, nil
}

// Delete removes an order and its items
func (s *OrderService) Delete(ctx context.Context, orderID uint) error {
	if err := validateID("Order id", orderID); err != nil {
		return err
	}

	var userID string
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		order, err := tx.Orders.FindByIDForUpdate(ctx, orderID)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrOrderNotFound
			}
			return err
		}
		userID = order.UserID
		if err := tx.OrderItems.DeleteByOrders(ctx, []uint{orderID}); err != nil {
			return err
		}
		return tx.Orders.Delete(ctx, orderID)
	})
	if err != nil {
		return err
	}

	publishEvent(ctx, s.events, s.log, Event{Type: EventOrderDeleted, OrderID: orderID, UserID: userID})
	return nil
}

// MyOrders lists the caller's orders
func (s *OrderService) MyOrders(ctx context.Context, userID string) ([]models.Order, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	orders, err := s.store.Orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// PendingOrder returns the user's pending order
func (s *OrderService) PendingOrder(ctx context.Context, userID string) (*models.Order, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	order, err := s.store.Orders.FindPendingByUser(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNoPendingOrder
		}
		return nil, fmt.Errorf("find pending order: %w", err)
	}
	return order, nil
}

// ByUser lists another user's orders after checking the user exists
func (s *OrderService) ByUser(ctx context.Context, userID string) ([]models.Order, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if _, err := s.store.Users.FindByID(ctx, userID); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return s.MyOrders(ctx, userID)
}

func (s *OrderService) GetByID(ctx context.Context, orderID uint) (*models.Order, error) {
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
	return order, nil
}

func (s *OrderService) List(ctx context.Context) ([]models.Order, error) {
	orders, err := s.store.Orders.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// ByDate lists orders created on the given UTC calendar day (YYYY-MM-DD)
func (s *OrderService) ByDate(ctx context.Context, date string) ([]models.Order, error) {
	day, err := time.Parse("2006-01-02", strings.TrimSpace(date))
	if err != nil {
		return nil, validationError("Date must use the YYYY-MM-DD format")
	}
	orders, err := s.store.Orders.ListCreatedBetween(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("list orders by date: %w", err)
	}
	return orders, nil
}

func (s *OrderService) ByStatus(ctx context.Context, status string) ([]models.Order, error) {
	parsed, err := models.ParseOrderStatus(status)
	if err != nil {
		return nil, validationError("%s", err.Error())
	}
	orders, err := s.store.Orders.ListByStatus(ctx, parsed)
	if err != nil {
		return nil, fmt.Errorf("list orders by status: %w", err)
	}
	return orders, nil
}

func (s *OrderService) UsingBonus(ctx context.Context) ([]models.Order, error) {
	orders, err := s.store.Orders.ListUsingBonus(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bonus orders: %w", err)
	}
	return orders, nil
}

// ReceiptQR renders the receipt QR code for one of the caller's paid orders
func (s *OrderService) ReceiptQR(ctx context.Context, userID string, orderID uint) ([]byte, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	order, err := s.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	if order.Status != models.OrderStatusPaid && order.Status != models.OrderStatusDelivered {
		return nil, ErrOrderNotPaid
	}
	png, err := s.receipts.Generate(orderID)
	if err != nil {
		return nil, fmt.Errorf("generate receipt: %w", err)
	}
	return png, nil
}
