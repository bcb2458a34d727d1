package models

import (
	"fmt"
	"strings"
)

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusPaid      OrderStatus = "Paid"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

var allOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPaid,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// ParseOrderStatus converts a status name (case-insensitive) into an OrderStatus
func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, st := range allOrderStatuses {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

// CanTransitionTo reports whether the status-update operation may move an
// order from s to next. Cancellation has its own operation and is never a
// valid target here.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch next {
	case OrderStatusPaid:
		return s == OrderStatusPending
	case OrderStatusDelivered:
		return s == OrderStatusPaid
	}
	return false
}

// IsFinalized reports whether the order has been paid for
func (s OrderStatus) IsFinalized() bool {
	return s == OrderStatusPaid || s == OrderStatusDelivered
}
