package controllers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/pizzeria-api/models"
	"github.com/kendall-kelly/pizzeria-api/services"
	"github.com/shopspring/decimal"
)

// RecipeLineRequest is one ingredient in a dish or recipe request
type RecipeLineRequest struct {
	IngredientID uint             `json:"ingredient_id" binding:"required,gt=0"`
	Quantity     *decimal.Decimal `json:"quantity" binding:"required"`
	Unit         string           `json:"unit" binding:"required"`
}

func (r RecipeLineRequest) toInput() (services.RecipeLineInput, error) {
	unit, err := models.ParseUnit(r.Unit)
	if err != nil {
		return services.RecipeLineInput{}, err
	}
	return services.RecipeLineInput{IngredientID: r.IngredientID, Quantity: *r.Quantity, Unit: unit}, nil
}

// AddDishRequest is the body of AddDish
type AddDishRequest struct {
	Name        string              `json:"name" binding:"required"`
	Price       *decimal.Decimal    `json:"price" binding:"required"`
	Description *string             `json:"description"`
	CategoryID  uint                `json:"category_id" binding:"required,gt=0"`
	Ingredients []RecipeLineRequest `json:"ingredients" binding:"omitempty,dive"`
}

// UpdateDishRequest is the body of UpdateDish. Omitted fields are kept.
type UpdateDishRequest struct {
	ID          uint             `json:"id" binding:"required,gt=0"`
	Name        *string          `json:"name"`
	Price       *decimal.Decimal `json:"price"`
	Description *string          `json:"description"`
	CategoryID  *uint            `json:"category_id"`
}

// DishController serves /api/Dish
type DishController struct {
	dishes *services.DishService
}

func NewDishController(dishes *services.DishService) *DishController {
	return &DishController{dishes: dishes}
}

// AddDish handles POST /api/Dish/AddDish
func (h *DishController) AddDish(c *gin.Context) {
	var req AddDishRequest
	if !bindJSON(c, &req) {
		return
	}

	lines := make([]services.RecipeLineInput, 0, len(req.Ingredients))
	for _, l := range req.Ingredients {
		in, err := l.toInput()
		if err != nil {
			respondError(c, "VALIDATION_ERROR", "Unit must be Gram or Kilo")
			return
		}
		lines = append(lines, in)
	}

	dish, err := h.dishes.Create(c.Request.Context(), services.NewDishInput{
		Name:        req.Name,
		Price:       *req.Price,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Ingredients: lines,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, dish, "Dish created")
}

// UpdateDish handles PUT /api/Dish/UpdateDish
func (h *DishController) UpdateDish(c *gin.Context) {
	var req UpdateDishRequest
	if !bindJSON(c, &req) {
		return
	}
	dish, err := h.dishes.Update(c.Request.Context(), req.ID, services.DishPatch{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, dish, "Dish updated")
}

// DeleteDish handles DELETE /api/Dish/DeleteDish?id=
func (h *DishController) DeleteDish(c *gin.Context) {
	id, ok := queryID(c, "id")
	if !ok {
		return
	}
	result, err := h.dishes.Delete(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, result, "Dish deleted")
}

// GetAllDishes handles GET /api/Dish/GetAllDishes?filter=
func (h *DishController) GetAllDishes(c *gin.Context) {
	filter := 0
	if raw := strings.TrimSpace(c.Query("filter")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, "VALIDATION_ERROR", "filter must be 1, 2 or 3")
			return
		}
		filter = parsed
	}
	dishes, err := h.dishes.List(c.Request.Context(), filter)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, dishes, "Dishes retrieved")
}

func (h *DishController) GetDishesByCategoryId(c *gin.Context) {
	categoryID, ok := queryID(c, "category_id")
	if !ok {
		return
	}
	dishes, err := h.dishes.ListByCategory(c.Request.Context(), categoryID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, dishes, "Dishes retrieved")
}

func (h *DishController) GetDishesByName(c *gin.Context) {
	name, ok := queryString(c, "name")
	if !ok {
		return
	}
	dishes, err := h.dishes.SearchByName(c.Request.Context(), name)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, dishes, "Dishes retrieved")
}

func (h *DishController) GetOneDishById(c *gin.Context) {
	id, ok := queryID(c, "id")
	if !ok {
		return
	}
	dish, err := h.dishes.GetByID(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, dish, "Dish found")
}

func (h *DishController) GetOneDishByName(c *gin.Context) {
	name, ok := queryString(c, "name")
	if !ok {
		return
	}
	dish, err := h.dishes.GetByName(c.Request.Context(), name)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, dish, "Dish found")
}
