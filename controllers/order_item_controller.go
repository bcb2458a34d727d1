package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/pizzeria-api/services"
)

// OrderItemRequest is one dish and quantity in an order item request
type OrderItemRequest struct {
	DishID   uint `json:"dish_id" binding:"required,gt=0"`
	Quantity int  `json:"quantity" binding:"required,gt=0"`
}

// AddOneOrderItemRequest is the body of AddOneOrderItem
type AddOneOrderItemRequest struct {
	OrderID uint `json:"order_id" binding:"required,gt=0"`
	OrderItemRequest
}

// AddManyOrderItemsRequest is the body of AddManyOrderItems
type AddManyOrderItemsRequest struct {
	OrderID uint               `json:"order_id" binding:"required,gt=0"`
	Items   []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateOrderItemRequest is the body of UpdateOrderItem
type UpdateOrderItemRequest struct {
	OrderItemID uint `json:"order_item_id" binding:"required,gt=0"`
	Quantity    int  `json:"quantity" binding:"required,gt=0"`
}

// OrderItemController serves /api/OrderItem. Every action works on the
// caller's own orders.
type OrderItemController struct {
	items *services.OrderItemService
}

func NewOrderItemController(items *services.OrderItemService) *OrderItemController {
	return &OrderItemController{items: items}
}

func (h *OrderItemController) AddOneOrderItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req AddOneOrderItemRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.items.AddOne(c.Request.Context(), userID, req.OrderID, services.OrderItemInput{
		DishID:   req.DishID,
		Quantity: req.Quantity,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, item, "Order item added")
}

func (h *OrderItemController) AddManyOrderItems(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req AddManyOrderItemsRequest
	if !bindJSON(c, &req) {
		return
	}
	inputs := make([]services.OrderItemInput, len(req.Items))
	for i, it := range req.Items {
		inputs[i] = services.OrderItemInput{DishID: it.DishID, Quantity: it.Quantity}
	}
	items, err := h.items.AddMany(c.Request.Context(), userID, req.OrderID, inputs)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, items, "Order items added")
}

func (h *OrderItemController) UpdateOrderItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req UpdateOrderItemRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.items.Update(c.Request.Context(), userID, req.OrderItemID, req.Quantity)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, item, "Order item updated")
}

func (h *OrderItemController) DeleteOrderItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := queryID(c, "id")
	if !ok {
		return
	}
	if err := h.items.Delete(c.Request.Context(), userID, id); err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"id": id}, "Order item deleted")
}

func (h *OrderItemController) GetOrderItemsByOrderId(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	orderID, ok := queryID(c, "order_id")
	if !ok {
		return
	}
	items, err := h.items.ListByOrder(c.Request.Context(), userID, orderID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, items, "Order items retrieved")
}

func (h *OrderItemController) GetOrderItemById(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := queryID(c, "id")
	if !ok {
		return
	}
	item, err := h.items.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, item, "Order item found")
}
