package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/pizzeria-api/middleware"
	"github.com/kendall-kelly/pizzeria-api/models"
	"github.com/kendall-kelly/pizzeria-api/services"
)

// Handlers groups one controller per resource
type Handlers struct {
	Categories      *CategoryController
	Dishes          *DishController
	Ingredients     *IngredientController
	DishIngredients *DishIngredientController
	Orders          *OrderController
	OrderItems      *OrderItemController
	Users           *UserController
}

func NewHandlers(svc *services.Services) *Handlers {
	return &Handlers{
		Categories:      NewCategoryController(svc.Categories),
		Dishes:          NewDishController(svc.Dishes),
		Ingredients:     NewIngredientController(svc.Ingredients),
		DishIngredients: NewDishIngredientController(svc.Recipes),
		Orders:          NewOrderController(svc.Orders),
		OrderItems:      NewOrderItemController(svc.OrderItems),
		Users:           NewUserController(svc.Users),
	}
}

// RegisterRoutes mounts every resource under api. auth authenticates the
// caller; role checks are added per route.
func RegisterRoutes(api *gin.RouterGroup, h *Handlers, auth gin.HandlerFunc) {
	admin := []gin.HandlerFunc{auth, middleware.RequireRole(models.RoleAdmin)}
	customer := []gin.HandlerFunc{auth, middleware.RequireRole(models.RoleRegularUser, models.RolePremiumUser)}
	premium := []gin.HandlerFunc{auth, middleware.RequireRole(models.RolePremiumUser)}
	anyRole := []gin.HandlerFunc{auth, middleware.RequireRole(models.AllRoles...)}

	with := func(guards []gin.HandlerFunc, handler gin.HandlerFunc) []gin.HandlerFunc {
		chain := make([]gin.HandlerFunc, 0, len(guards)+1)
		chain = append(chain, guards...)
		return append(chain, handler)
	}

	category := api.Group("/Category")
	{
		category.POST("/AddCategory", with(admin, h.Categories.AddCategory)...)
		category.PUT("/UpdateCategory", with(admin, h.Categories.UpdateCategory)...)
		category.DELETE("/DeleteCategory", with(admin, h.Categories.DeleteCategory)...)
		category.GET("/GetCategoryById", h.Categories.GetCategoryById)
		category.GET("/GetCategoryByName", h.Categories.GetCategoryByName)
		category.GET("/GetAllCategories", h.Categories.GetAllCategories)
	}

	dish := api.Group("/Dish")
	{
		dish.POST("/AddDish", with(admin, h.Dishes.AddDish)...)
		dish.PUT("/UpdateDish", with(admin, h.Dishes.UpdateDish)...)
		dish.DELETE("/DeleteDish", with(admin, h.Dishes.DeleteDish)...)
		dish.POST("/UploadDishImage", with(admin, h.Dishes.UploadDishImage)...)
		dish.GET("/GetAllDishes", h.Dishes.GetAllDishes)
		dish.GET("/GetDishesByCategoryId", h.Dishes.GetDishesByCategoryId)
		dish.GET("/GetDishesByName", h.Dishes.GetDishesByName)
		dish.GET("/GetOneDishById", h.Dishes.GetOneDishById)
		dish.GET("/GetOneDishByName", h.Dishes.GetOneDishByName)
		dish.GET("/GetDishImageUrl", h.Dishes.GetDishImageUrl)
	}

	ingredient := api.Group("/Ingredient", admin...)
	{
		ingredient.POST("/AddIngredient", h.Ingredients.AddIngredient)
		ingredient.PUT("/UpdateIngredient", h.Ingredients.UpdateIngredient)
		ingredient.DELETE("/DeleteIngredient", h.Ingredients.DeleteIngredient)
		ingredient.GET("/GetAllIngredients", h.Ingredients.GetAllIngredients)
		ingredient.GET("/GetIngredientById", h.Ingredients.GetIngredientById)
		ingredient.GET("/GetIngredientByName", h.Ingredients.GetIngredientByName)
	}

	recipe := api.Group("/DishIngredient", admin...)
	{
		recipe.POST("/AddDishIngredient", h.DishIngredients.AddDishIngredient)
		recipe.POST("/AddManyDishIngredients", h.DishIngredients.AddManyDishIngredients)
		recipe.PUT("/UpdateDishIngredient", h.DishIngredients.UpdateDishIngredient)
		recipe.DELETE("/DeleteDishIngredient", h.DishIngredients.DeleteDishIngredient)
		recipe.GET("/GetDishIngredients", h.DishIngredients.GetDishIngredients)
		recipe.GET("/GetDishIngredient", h.DishIngredients.GetDishIngredient)
		recipe.GET("/GetIngredientsByDishId", h.DishIngredients.GetIngredientsByDishId)
		recipe.GET("/GetDishesByIngredientId", h.DishIngredients.GetDishesByIngredientId)
		recipe.GET("/GetIngredientQuantityForDish", h.DishIngredients.GetIngredientQuantityForDish)
		recipe.GET("/CalculateEventualIngredientCost", h.DishIngredients.CalculateEventualIngredientCost)
		recipe.GET("/CalculateCostForDish", h.DishIngredients.CalculateCostForDish)
		recipe.GET("/GetRecommendedPriceForDish", h.DishIngredients.GetRecommendedPriceForDish)
		recipe.GET("/EvaluateCurrentPriceForDish", h.DishIngredients.EvaluateCurrentPriceForDish)
		recipe.GET("/DishHasIngredient", h.DishIngredients.DishHasIngredient)
		recipe.GET("/DishHasIngredientByName", h.DishIngredients.DishHasIngredientByName)
	}

	orderItem := api.Group("/OrderItem", customer...)
	{
		orderItem.POST("/AddOneOrderItem", h.OrderItems.AddOneOrderItem)
		orderItem.POST("/AddManyOrderItems", h.OrderItems.AddManyOrderItems)
		orderItem.PUT("/UpdateOrderItem", h.OrderItems.UpdateOrderItem)
		orderItem.DELETE("/DeleteOrderItem", h.OrderItems.DeleteOrderItem)
		orderItem.GET("/GetOrderItemsByOrderId", h.OrderItems.GetOrderItemsByOrderId)
		orderItem.GET("/GetOrderItemById", h.OrderItems.GetOrderItemById)
	}

	order := api.Group("/Order")
	{
		order.POST("/CreateOrder", with(customer, h.Orders.CreateOrder)...)
		order.PUT("/CancelOrder", with(customer, h.Orders.CancelOrder)...)
		order.GET("/GetMyOrders", with(customer, h.Orders.GetMyOrders)...)
		order.GET("/GetMyPendingOrder", with(customer, h.Orders.GetMyPendingOrder)...)
		order.POST("/SetOrderPaid", with(customer, h.Orders.SetOrderPaid)...)
		order.GET("/GetOrderReceiptQR", with(customer, h.Orders.GetOrderReceiptQR)...)

		order.PUT("/UpdateOrderStatus", with(admin, h.Orders.UpdateOrderStatus)...)
		order.DELETE("/DeleteOrder", with(admin, h.Orders.DeleteOrder)...)
		order.GET("/GetOrdersByUserId", with(admin, h.Orders.GetOrdersByUserId)...)
		order.GET("/GetOrderByOrderId", with(admin, h.Orders.GetOrderByOrderId)...)
		order.GET("/GetAllOrders", with(admin, h.Orders.GetAllOrders)...)
		order.GET("/GetOrdersByDate", with(admin, h.Orders.GetOrdersByDate)...)
		order.GET("/GetOrdersByStatus", with(admin, h.Orders.GetOrdersByStatus)...)
		order.GET("/GetOrdersUsingBonus", with(admin, h.Orders.GetOrdersUsingBonus)...)
		order.GET("/GetPendingOrderForUser", with(admin, h.Orders.GetPendingOrderForUser)...)
	}

	user := api.Group("/PizzeriaUser")
	{
		user.POST("/Register", h.Users.Register)
		user.POST("/Login", h.Users.Login)

		user.PUT("/UpdateUser", with(anyRole, h.Users.UpdateUser)...)
		user.GET("/GetMyUser", with(anyRole, h.Users.GetMyUser)...)
		user.DELETE("/DeleteMyUser", with(customer, h.Users.DeleteMyUser)...)
		user.GET("/CanUseMyBonus", with(premium, h.Users.CanUseMyBonus)...)
		user.GET("/GetMyBonus", with(premium, h.Users.GetMyBonus)...)

		user.DELETE("/DeleteUser", with(admin, h.Users.DeleteUser)...)
		user.GET("/GetUserWithId", with(admin, h.Users.GetUserWithId)...)
		user.GET("/GetUserByUsername", with(admin, h.Users.GetUserByUsername)...)
		user.GET("/GetUserByEmail", with(admin, h.Users.GetUserByEmail)...)
		user.GET("/GetPremiumUsers", with(admin, h.Users.GetPremiumUsers)...)
		user.GET("/GetRegularUsers", with(admin, h.Users.GetRegularUsers)...)
		user.GET("/GetUsersWithOrders", with(admin, h.Users.GetUsersWithOrders)...)
		user.GET("/GetUsersWithNoOrders", with(admin, h.Users.GetUsersWithNoOrders)...)
		user.GET("/GetUsersByOrderStatus", with(admin, h.Users.GetUsersByOrderStatus)...)
		user.GET("/GetBonusByUserId", with(admin, h.Users.GetBonusByUserId)...)
		user.PUT("/UpdateBonus", with(admin, h.Users.UpdateBonus)...)
		user.GET("/UserCanUseBonus", with(admin, h.Users.UserCanUseBonus)...)
		user.GET("/GetAllUsers", with(admin, h.Users.GetAllUsers)...)
		user.PUT("/UpdateUserRole", with(admin, h.Users.UpdateUserRole)...)
	}
}
