package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/pizzeria-api/services"
	"github.com/shopspring/decimal"
)

// IngredientRequest is the body of AddIngredient
type IngredientRequest struct {
	Name  string           `json:"name" binding:"required"`
	Price *decimal.Decimal `json:"price" binding:"required"`
}

// UpdateIngredientRequest is the body of UpdateIngredient. Omitted fields are kept.
type UpdateIngredientRequest struct {
	ID    uint             `json:"id" binding:"required,gt=0"`
	Name  *string          `json:"name"`
	Price *decimal.Decimal `json:"price"`
}

// IngredientController serves /api/Ingredient
type IngredientController struct {
	ingredients *services.IngredientService
}

func NewIngredientController(ingredients *services.IngredientService) *IngredientController {
	return &IngredientController{ingredients: ingredients}
}

func (h *IngredientController) AddIngredient(c *gin.Context) {
	var req IngredientRequest
	if !bindJSON(c, &req) {
		return
	}
	ingredient, err := h.ingredients.Create(c.Request.Context(), req.Name, *req.Price)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, ingredient, "Ingredient created")
}

func (h *IngredientController) UpdateIngredient(c *gin.Context) {
	var req UpdateIngredientRequest
	if !bindJSON(c, &req) {
		return
	}
	ingredient, err := h.ingredients.Update(c.Request.Context(), req.ID, services.IngredientPatch{
		Name:  req.Name,
		Price: req.Price,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, ingredient, "Ingredient updated")
}

func (h *IngredientController) DeleteIngredient(c *gin.Context) {
	id, ok := queryID(c, "id")
	if !ok {
		return
	}
	if err := h.ingredients.Delete(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"id": id}, "Ingredient deleted")
}

func (h *IngredientController) GetAllIngredients(c *gin.Context) {
	ingredients, err := h.ingredients.List(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, ingredients, "Ingredients retrieved")
}

func (h *IngredientController) GetIngredientById(c *gin.Context) {
	id, ok := queryID(c, "id")
	if !ok {
		return
	}
	ingredient, err := h.ingredients.GetByID(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, ingredient, "Ingredient found")
}

func (h *IngredientController) GetIngredientByName(c *gin.Context) {
	name, ok := queryString(c, "name")
	if !ok {
		return
	}
	ingredient, err := h.ingredients.GetByName(c.Request.Context(), name)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, ingredient, "Ingredient found")
}
