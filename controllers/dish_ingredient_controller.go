package controllers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/pizzeria-api/models"
	"github.com/kendall-kelly/pizzeria-api/services"
	"github.com/shopspring/decimal"
)

// AddDishIngredientRequest is the body of AddDishIngredient
type AddDishIngredientRequest struct {
	DishID uint `json:"dish_id" binding:"required,gt=0"`
	RecipeLineRequest
}

// AddManyDishIngredientsRequest is the body of AddManyDishIngredients
type AddManyDishIngredientsRequest struct {
	DishID      uint                `json:"dish_id" binding:"required,gt=0"`
	Ingredients []RecipeLineRequest `json:"ingredients" binding:"required,min=1,dive"`
}

// UpdateDishIngredientRequest is the body of UpdateDishIngredient
type UpdateDishIngredientRequest struct {
	DishID       uint             `json:"dish_id" binding:"required,gt=0"`
	IngredientID uint             `json:"ingredient_id" binding:"required,gt=0"`
	Quantity     *decimal.Decimal `json:"quantity"`
	Unit         *string          `json:"unit"`
}

// DishIngredientController serves /api/DishIngredient: recipes and pricing
type DishIngredientController struct {
	recipes *services.RecipeService
}

func NewDishIngredientController(recipes *services.RecipeService) *DishIngredientController {
	return &DishIngredientController{recipes: recipes}
}

func (h *DishIngredientController) AddDishIngredient(c *gin.Context) {
	var req AddDishIngredientRequest
	if !bindJSON(c, &req) {
		return
	}
	in, err := req.toInput()
	if err != nil {
		respondError(c, "VALIDATION_ERROR", "Unit must be Gram or Kilo")
		return
	}
	line, err := h.recipes.Add(c.Request.Context(), req.DishID, in)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, line, "Ingredient added to dish")
}

func (h *DishIngredientController) AddManyDishIngredients(c *gin.Context) {
	var req AddManyDishIngredientsRequest
	if !bindJSON(c, &req) {
		return
	}
	inputs := make([]services.RecipeLineInput, 0, len(req.Ingredients))
	for _, l := range req.Ingredients {
		in, err := l.toInput()
		if err != nil {
			respondError(c, "VALIDATION_ERROR", "Unit must be Gram or Kilo")
			return
		}
		inputs = append(inputs, in)
	}
	added, err := h.recipes.AddMany(c.Request.Context(), req.DishID, inputs)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"dish_id": req.DishID, "added": added}, "Ingredients added to dish")
}

func (h *DishIngredientController) UpdateDishIngredient(c *gin.Context) {
	var req UpdateDishIngredientRequest
	if !bindJSON(c, &req) {
		return
	}
	var unit *models.Unit
	if req.Unit != nil {
		parsed, err := models.ParseUnit(*req.Unit)
		if err != nil {
			respondError(c, "VALIDATION_ERROR", "Unit must be Gram or Kilo")
			return
		}
		unit = &parsed
	}
	line, err := h.recipes.Update(c.Request.Context(), req.DishID, req.IngredientID, req.Quantity, unit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, line, "Dish ingredient updated")
}

func (h *DishIngredientController) DeleteDishIngredient(c *gin.Context) {
	dishID, ok := queryID(c, "dish_id")
	if !ok {
		return
	}
	ingredientID, ok := queryID(c, "ingredient_id")
	if !ok {
		return
	}
	if err := h.recipes.Delete(c.Request.Context(), dishID, ingredientID); err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"dish_id": dishID, "ingredient_id": ingredientID}, "Ingredient removed from dish")
}

func (h *DishIngredientController) GetDishIngredients(c *gin.Context) {
	lines, err := h.recipes.List(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, lines, "Dish ingredients retrieved")
}

func (h *DishIngredientController) GetDishIngredient(c *gin.Context) {
	dishID, ok := queryID(c, "dish_id")
	if !ok {
		return
	}
	ingredientID, ok := queryID(c, "ingredient_id")
	if !ok {
		return
	}
	line, err := h.recipes.Get(c.Request.Context(), dishID, ingredientID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, line, "Dish ingredient found")
}

func (h *DishIngredientController) GetIngredientsByDishId(c *gin.Context) {
	dishID, ok := queryID(c, "dish_id")
	if !ok {
		return
	}
	lines, err := h.recipes.ListByDish(c.Request.Context(), dishID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, lines, "Dish ingredients retrieved")
}

func (h *DishIngredientController) GetDishesByIngredientId(c *gin.Context) {
	ingredientID, ok := queryID(c, "ingredient_id")
	if !ok {
		return
	}
	dishes, err := h.recipes.DishesUsingIngredient(c.Request.Context(), ingredientID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, dishes, "Dishes retrieved")
}

func (h *DishIngredientController) GetIngredientQuantityForDish(c *gin.Context) {
	dishID, ok := queryID(c, "dish_id")
	if !ok {
		return
	}
	ingredientID, ok := queryID(c, "ingredient_id")
	if !ok {
		return
	}
	line, err := h.recipes.Get(c.Request.Context(), dishID, ingredientID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, gin.H{
		"dish_id":       dishID,
		"ingredient_id": ingredientID,
		"quantity":      line.Quantity,
		"unit":          line.Unit,
	}, "Ingredient quantity retrieved")
}

// CalculateEventualIngredientCost prices ?quantity of ?ingredient_id
func (h *DishIngredientController) CalculateEventualIngredientCost(c *gin.Context) {
	ingredientID, ok := queryID(c, "ingredient_id")
	if !ok {
		return
	}
	quantity, err := decimal.NewFromString(strings.TrimSpace(c.Query("quantity")))
	if err != nil {
		respondError(c, "VALIDATION_ERROR", "quantity must be a number")
		return
	}
	cost, err := h.recipes.EventualIngredientCost(c.Request.Context(), ingredientID, quantity)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"ingredient_id": ingredientID, "quantity": quantity, "cost": cost}, "Cost calculated")
}

func (h *DishIngredientController) CalculateCostForDish(c *gin.Context) {
	dishID, ok := queryID(c, "dish_id")
	if !ok {
		return
	}
	report, err := h.recipes.Cost(c.Request.Context(), dishID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, report, "Cost calculated")
}

func (h *DishIngredientController) GetRecommendedPriceForDish(c *gin.Context) {
	dishID, ok := queryID(c, "dish_id")
	if !ok {
		return
	}
	report, err := h.recipes.RecommendedPrice(c.Request.Context(), dishID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, report, "Recommended price calculated")
}

func (h *DishIngredientController) EvaluateCurrentPriceForDish(c *gin.Context) {
	dishID, ok := queryID(c, "dish_id")
	if !ok {
		return
	}
	report, err := h.recipes.EvaluatePrice(c.Request.Context(), dishID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, report, "Price evaluated")
}

func (h *DishIngredientController) DishHasIngredient(c *gin.Context) {
	dishID, ok := queryID(c, "dish_id")
	if !ok {
		return
	}
	ingredientID, ok := queryID(c, "ingredient_id")
	if !ok {
		return
	}
	has, err := h.recipes.HasIngredient(c.Request.Context(), dishID, ingredientID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, has, "Check completed")
}

func (h *DishIngredientController) DishHasIngredientByName(c *gin.Context) {
	dishID, ok := queryID(c, "dish_id")
	if !ok {
		return
	}
	name, ok := queryString(c, "name")
	if !ok {
		return
	}
	has, err := h.recipes.HasIngredientByName(c.Request.Context(), dishID, name)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, has, "Check completed")
}
