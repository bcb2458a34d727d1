package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/kendall-kelly/pizzeria-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrder(t *testing.T) {
	env := newTestEnv(t)
	customer := env.user(t, "customer", models.RoleRegularUser)
	admin := env.user(t, "boss", models.RoleAdmin)

	tests := []struct {
		name           string
		user           *models.User
		expectedStatus int
		expectedError  string
	}{
		{name: "Successfully create order as customer", user: customer, expectedStatus: http.StatusOK},
		{name: "Second pending order is rejected", user: customer, expectedStatus: http.StatusBadRequest, expectedError: "DUPLICATE_PENDING_ORDER"},
		{name: "Admin cannot place orders", user: admin, expectedStatus: http.StatusForbidden, expectedError: "INSUFFICIENT_ROLE"},
		{name: "Anonymous request", user: nil, expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, response := env.do(t, http.MethodPost, "/api/Order/CreateOrder", nil, tt.user)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, errorCode(response))
				assert.Equal(t, false, response["success"])
			}
			if tt.expectedStatus == http.StatusOK {
				data := dataMap(t, response)
				assert.Equal(t, "Pending", data["status"])
				assert.Equal(t, customer.ID, data["user_id"])
			}
		})
	}
}

func TestOrderFlow(t *testing.T) {
	env := newTestEnv(t)
	customer := env.user(t, "customer", models.RoleRegularUser)
	admin := env.user(t, "boss", models.RoleAdmin)
	pizza := env.dish(t, "Margherita", "10.50")

	w, response := env.do(t, http.MethodPost, "/api/Order/CreateOrder", nil, customer)
	require.Equal(t, http.StatusOK, w.Code)
	orderID := uint(dataMap(t, response)["id"].(float64))

	w, _ = env.do(t, http.MethodPost, "/api/OrderItem/AddOneOrderItem", map[string]interface{}{
		"order_id": orderID,
		"dish_id":  pizza.ID,
		"quantity": 2,
	}, customer)
	require.Equal(t, http.StatusOK, w.Code)

	w, response = env.do(t, http.MethodGet, "/api/Order/GetMyPendingOrder", nil, customer)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "21", dataMap(t, response)["total_price"])

	// unpaid orders have no receipt
	w, response = env.do(t, http.MethodGet, fmt.Sprintf("/api/Order/GetOrderReceiptQR?order_id=%d", orderID), nil, customer)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ORDER_NOT_PAID", errorCode(response))

	w, response = env.do(t, http.MethodPost, "/api/Order/SetOrderPaid", map[string]interface{}{
		"order_id":    orderID,
		"amount_paid": "21.00",
	}, customer)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Paid", dataMap(t, response)["status"])

	w, _ = env.do(t, http.MethodGet, fmt.Sprintf("/api/Order/GetOrderReceiptQR?order_id=%d", orderID), nil, customer)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "\x89PNG", w.Body.String()[:4])

	w, response = env.do(t, http.MethodPut, "/api/Order/UpdateOrderStatus", map[string]interface{}{
		"order_id": orderID,
		"status":   "Delivered",
	}, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Delivered", dataMap(t, response)["status"])

	w, response = env.do(t, http.MethodGet, "/api/Order/GetOrdersByStatus?status=delivered", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, response["data"], 1)

	w, response = env.do(t, http.MethodGet, "/api/Order/GetOrdersByUserId?user_id="+customer.ID, nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, response["data"], 1)
}

func TestCancelOrder(t *testing.T) {
	env := newTestEnv(t)
	customer := env.user(t, "customer", models.RoleRegularUser)
	other := env.user(t, "other", models.RolePremiumUser)

	order, err := env.svc.Orders.Create(t.Context(), customer.ID)
	require.NoError(t, err)

	paid, err := env.svc.Orders.Create(t.Context(), other.ID)
	require.NoError(t, err)
	_, err = env.svc.Orders.UpdateStatus(t.Context(), paid.ID, models.OrderStatusPaid)
	require.NoError(t, err)
	delivered, err := env.svc.Orders.Create(t.Context(), other.ID)
	require.NoError(t, err)
	_, err = env.svc.Orders.UpdateStatus(t.Context(), delivered.ID, models.OrderStatusPaid)
	require.NoError(t, err)
	_, err = env.svc.Orders.UpdateStatus(t.Context(), delivered.ID, models.OrderStatusDelivered)
	require.NoError(t, err)

	tests := []struct {
		name           string
		user           *models.User
		body           map[string]interface{}
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "Missing order id",
			user:           customer,
			body:           map[string]interface{}{"reason": "oops"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name:           "Another user's order",
			user:           other,
			body:           map[string]interface{}{"order_id": order.ID},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "ORDER_NOT_FOUND",
		},
		{
			name:           "Paid order",
			user:           other,
			body:           map[string]interface{}{"order_id": paid.ID},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "ORDER_NOT_PENDING",
		},
		{
			name:           "Delivered order",
			user:           other,
			body:           map[string]interface{}{"order_id": delivered.ID},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "ORDER_NOT_PENDING",
		},
		{
			name:           "Cancel own order",
			user:           customer,
			body:           map[string]interface{}{"order_id": order.ID, "reason": "Too hungry to wait"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Cancel twice",
			user:           customer,
			body:           map[string]interface{}{"order_id": order.ID},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "ORDER_NOT_PENDING",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, response := env.do(t, http.MethodPut, "/api/Order/CancelOrder", tt.body, tt.user)
			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, errorCode(response))
				return
			}
			data := dataMap(t, response)
			assert.Equal(t, "Cancelled", data["status"])
			assert.Equal(t, "Too hungry to wait", data["cancellation_reason"])
		})
	}
}

func TestAdminOrderQueries(t *testing.T) {
	env := newTestEnv(t)
	customer := env.user(t, "customer", models.RoleRegularUser)
	admin := env.user(t, "boss", models.RoleAdmin)
	_, err := env.svc.Orders.Create(t.Context(), customer.ID)
	require.NoError(t, err)

	tests := []struct {
		name           string
		path           string
		user           *models.User
		expectedStatus int
		expectedError  string
	}{
		{"All orders", "/api/Order/GetAllOrders", admin, http.StatusOK, ""},
		{"Customer cannot list all orders", "/api/Order/GetAllOrders", customer, http.StatusForbidden, "INSUFFICIENT_ROLE"},
		{"Orders using bonus", "/api/Order/GetOrdersUsingBonus", admin, http.StatusOK, ""},
		{"Pending order for user", "/api/Order/GetPendingOrderForUser?user_id=" + customer.ID, admin, http.StatusOK, ""},
		{"Pending order for user without one", "/api/Order/GetPendingOrderForUser?user_id=" + admin.ID, admin, http.StatusBadRequest, "NO_PENDING_ORDER"},
		{"Orders by date", "/api/Order/GetOrdersByDate?date=2020-01-01", admin, http.StatusOK, ""},
		{"Orders by malformed date", "/api/Order/GetOrdersByDate?date=yesterday", admin, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"Order by invalid id", "/api/Order/GetOrderByOrderId?id=abc", admin, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"Order by unknown id", "/api/Order/GetOrderByOrderId?id=999", admin, http.StatusBadRequest, "ORDER_NOT_FOUND"},
		{"Orders by unknown status", "/api/Order/GetOrdersByStatus?status=Lost", admin, http.StatusBadRequest, "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, response := env.do(t, http.MethodGet, tt.path, nil, tt.user)
			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, errorCode(response))
			} else {
				assert.Equal(t, true, response["success"])
			}
		})
	}
}

func TestDeleteOrder(t *testing.T) {
	env := newTestEnv(t)
	customer := env.user(t, "customer", models.RoleRegularUser)
	admin := env.user(t, "boss", models.RoleAdmin)
	order, err := env.svc.Orders.Create(t.Context(), customer.ID)
	require.NoError(t, err)

	path := fmt.Sprintf("/api/Order/DeleteOrder?id=%d", order.ID)

	w, _ := env.do(t, http.MethodDelete, path, nil, customer)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = env.do(t, http.MethodDelete, path, nil, admin)
	assert.Equal(t, http.StatusOK, w.Code)

	w, response := env.do(t, http.MethodDelete, path, nil, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ORDER_NOT_FOUND", errorCode(response))
}
