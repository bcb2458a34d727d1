package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/pizzeria-api/services"
)

// CategoryRequest is the body of AddCategory
type CategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateCategoryRequest is the body of UpdateCategory
type UpdateCategoryRequest struct {
	ID   uint   `json:"id" binding:"required,gt=0"`
	Name string `json:"name" binding:"required"`
}

// CategoryController serves /api/Category
type CategoryController struct {
	categories *services.CategoryService
}

func NewCategoryController(categories *services.CategoryService) *CategoryController {
	return &CategoryController{categories: categories}
}

// AddCategory handles POST /api/Category/AddCategory
func (h *CategoryController) AddCategory(c *gin.Context) {
	var req CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := h.categories.Create(c.Request.Context(), req.Name)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, category, "Category created")
}

// UpdateCategory handles PUT /api/Category/UpdateCategory
func (h *CategoryController) UpdateCategory(c *gin.Context) {
	var req UpdateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := h.categories.Update(c.Request.Context(), req.ID, req.Name)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, category, "Category updated")
}

// DeleteCategory handles DELETE /api/Category/DeleteCategory?id=
func (h *CategoryController) DeleteCategory(c *gin.Context) {
	id, ok := queryID(c, "id")
	if !ok {
		return
	}
	if err := h.categories.Delete(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"id": id}, "Category deleted")
}

func (h *CategoryController) GetCategoryById(c *gin.Context) {
	id, ok := queryID(c, "id")
	if !ok {
		return
	}
	category, err := h.categories.GetByID(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, category, "Category found")
}

func (h *CategoryController) GetCategoryByName(c *gin.Context) {
	name, ok := queryString(c, "name")
	if !ok {
		return
	}
	category, err := h.categories.GetByName(c.Request.Context(), name)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, category, "Category found")
}

func (h *CategoryController) GetAllCategories(c *gin.Context) {
	categories, err := h.categories.List(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, categories, "Categories retrieved")
}
