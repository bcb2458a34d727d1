package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies expected business failures
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindNotFound
	KindConflict
	KindState
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindState:
		return "state"
	}
	return "unknown"
}

// ServiceError is an expected business failure. Anything else returned by a
// service is an infrastructure error.
type ServiceError struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

func validationError(format string, args ...interface{}) *ServiceError {
	return &ServiceError{Kind: KindValidation, Code: "VALIDATION_ERROR", Message: fmt.Sprintf(format, args...)}
}

func notFoundError(code, format string, args ...interface{}) *ServiceError {
	return &ServiceError{Kind: KindNotFound, Code: code, Message: fmt.Sprintf(format, args...)}
}

func conflictError(code, format string, args ...interface{}) *ServiceError {
	return &ServiceError{Kind: KindConflict, Code: code, Message: fmt.Sprintf(format, args...)}
}

func stateError(code, format string, args ...interface{}) *ServiceError {
	return &ServiceError{Kind: KindState, Code: code, Message: fmt.Sprintf(format, args...)}
}

var (
	ErrCategoryNotFound   = notFoundError("CATEGORY_NOT_FOUND", "Category not found")
	ErrDishNotFound       = notFoundError("DISH_NOT_FOUND", "Dish not found")
	ErrIngredientNotFound = notFoundError("INGREDIENT_NOT_FOUND", "Ingredient not found")
	ErrRecipeLineNotFound = notFoundError("DISH_INGREDIENT_NOT_FOUND", "Ingredient is not part of this dish")
	ErrOrderNotFound      = notFoundError("ORDER_NOT_FOUND", "Order not found")
	ErrOrderItemNotFound  = notFoundError("ORDER_ITEM_NOT_FOUND", "Order item not found")
	ErrUserNotFound       = notFoundError("USER_NOT_FOUND", "User not found")
	ErrNoPendingOrder     = notFoundError("NO_PENDING_ORDER", "No pending order found")

	ErrDuplicatePendingOrder = conflictError("DUPLICATE_PENDING_ORDER", "User already has a pending order")
	ErrDuplicateRecipeLine   = conflictError("DUPLICATE_DISH_INGREDIENT", "Dish already contains this ingredient")
	ErrCategoryInUse         = conflictError("CATEGORY_IN_USE", "Category still has dishes")
	ErrIngredientInUse       = conflictError("INGREDIENT_IN_USE", "Ingredient is used by one or more dishes")
	ErrUsernameTaken         = conflictError("USERNAME_TAKEN", "Username is already taken")
	ErrEmailTaken            = conflictError("EMAIL_TAKEN", "Email is already registered")

	ErrOrderNotPending         = stateError("ORDER_NOT_PENDING", "Order is not pending")
	ErrOrderNotPaid            = stateError("ORDER_NOT_PAID", "Order has not been paid")
	ErrInvalidStatusTransition = stateError("INVALID_STATUS_TRANSITION", "Order status can only be updated to Paid from Pending or Delivered from Paid")
	ErrPriceUnavailable        = stateError("PRICE_UNAVAILABLE", "Not enough pricing data for this dish")
	ErrAdminImmutable          = stateError("ADMIN_IMMUTABLE", "Admin accounts cannot be modified this way")
	ErrImageStorageDisabled    = stateError("IMAGE_STORAGE_DISABLED", "Image storage is not configured")
	ErrInvalidCredentials      = &ServiceError{Kind: KindValidation, Code: "INVALID_CREDENTIALS", Message: "Invalid username or password"}
)

// AsServiceError unwraps err into a *ServiceError when it is one
func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsKind reports whether err is a ServiceError of the given kind
func IsKind(err error, kind ErrorKind) bool {
	se, ok := AsServiceError(err)
	return ok && se.Kind == kind
}
