package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/pizzeria-api/models"
	"github.com/kendall-kelly/pizzeria-api/services"
	"github.com/shopspring/decimal"
)

// CancelOrderRequest is the body of CancelOrder
type CancelOrderRequest struct {
	OrderID uint   `json:"order_id" binding:"required,gt=0"`
	Reason  string `json:"reason" binding:"max=100"`
}

// SetOrderPaidRequest is the body of SetOrderPaid
type SetOrderPaidRequest struct {
	OrderID    uint             `json:"order_id" binding:"required,gt=0"`
	AmountPaid *decimal.Decimal `json:"amount_paid" binding:"required"`
	UseBonus   bool             `json:"use_bonus"`
}

// UpdateOrderStatusRequest is the body of UpdateOrderStatus
type UpdateOrderStatusRequest struct {
	OrderID uint   `json:"order_id" binding:"required,gt=0"`
	Status  string `json:"status" binding:"required"`
}

// OrderController serves /api/Order
type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// CreateOrder handles POST /api/Order/CreateOrder - opens a pending order for the caller
func (h *OrderController) CreateOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	order, err := h.orders.Create(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, order, "Order created")
}

// CancelOrder handles PUT /api/Order/CancelOrder
func (h *OrderController) CancelOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req CancelOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.orders.Cancel(c.Request.Context(), userID, req.OrderID, req.Reason)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, order, "Order cancelled")
}

func (h *OrderController) GetMyOrders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	orders, err := h.orders.MyOrders(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, orders, "Orders retrieved")
}

func (h *OrderController) GetMyPendingOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	order, err := h.orders.PendingOrder(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, order, "Pending order found")
}

// SetOrderPaid handles POST /api/Order/SetOrderPaid
func (h *OrderController) SetOrderPaid(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req SetOrderPaidRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.orders.SetOrderPaid(c.Request.Context(), userID, req.OrderID, *req.AmountPaid, req.UseBonus)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, order, "Order paid")
}

// GetOrderReceiptQR handles GET /api/Order/GetOrderReceiptQR?order_id= and
// returns a PNG image
func (h *OrderController) GetOrderReceiptQR(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	orderID, ok := queryID(c, "order_id")
	if !ok {
		return
	}
	png, err := h.orders.ReceiptQR(c.Request.Context(), userID, orderID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.Header("Cache-Control", "private, max-age=300")
	c.Data(http.StatusOK, "image/png", png)
}

// UpdateOrderStatus handles PUT /api/Order/UpdateOrderStatus
func (h *OrderController) UpdateOrderStatus(c *gin.Context) {
	var req UpdateOrderStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	status, err := models.ParseOrderStatus(req.Status)
	if err != nil {
		respondError(c, "VALIDATION_ERROR", err.Error())
		return
	}
	order, err := h.orders.UpdateStatus(c.Request.Context(), req.OrderID, status)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, order, "Order status updated")
}

func (h *OrderController) DeleteOrder(c *gin.Context) {
	id, ok := queryID(c, "id")
	if !ok {
		return
	}
	if err := h.orders.Delete(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"id": id}, "Order deleted")
}

func (h *OrderController) GetOrdersByUserId(c *gin.Context) {
	userID, ok := queryString(c, "user_id")
	if !ok {
		return
	}
	orders, err := h.orders.ByUser(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, orders, "Orders retrieved")
}

func (h *OrderController) GetOrderByOrderId(c *gin.Context) {
	id, ok := queryID(c, "id")
	if !ok {
		return
	}
	order, err := h.orders.GetByID(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, order, "Order found")
}

func (h *OrderController) GetAllOrders(c *gin.Context) {
	orders, err := h.orders.List(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, orders, "Orders retrieved")
}

// GetOrdersByDate handles GET /api/Order/GetOrdersByDate?date=YYYY-MM-DD
func (h *OrderController) GetOrdersByDate(c *gin.Context) {
	date, ok := queryString(c, "date")
	if !ok {
		return
	}
	orders, err := h.orders.ByDate(c.Request.Context(), date)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, orders, "Orders retrieved")
}

func (h *OrderController) GetOrdersByStatus(c *gin.Context) {
	status, ok := queryString(c, "status")
	if !ok {
		return
	}
	orders, err := h.orders.ByStatus(c.Request.Context(), status)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, orders, "Orders retrieved")
}

func (h *OrderController) GetOrdersUsingBonus(c *gin.Context) {
	orders, err := h.orders.UsingBonus(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, orders, "Orders retrieved")
}

func (h *OrderController) GetPendingOrderForUser(c *gin.Context) {
	userID, ok := queryString(c, "user_id")
	if !ok {
		return
	}
	order, err := h.orders.PendingOrder(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, order, "Pending order found")
}
