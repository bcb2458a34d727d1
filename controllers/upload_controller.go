package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/pizzeria-api/utils"
)

// UploadDishImage handles POST /api/Dish/UploadDishImage - multipart form
// with dish_id and a PNG image
func (h *DishController) UploadDishImage(c *gin.Context) {
	// Limit the request body before gin parses the multipart form
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, utils.MaxFileSize+1024*1024)

	dishID, err := strconv.ParseUint(strings.TrimSpace(c.PostForm("dish_id")), 10, 32)
	if err != nil || dishID == 0 {
		respondError(c, "VALIDATION_ERROR", "dish_id must be a positive integer")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondError(c, "MISSING_FILE", "An image file is required")
		return
	}

	dish, err := h.dishes.UploadImage(c.Request.Context(), uint(dishID), fileHeader)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, dish, "Dish image uploaded")
}

// GetDishImageUrl handles GET /api/Dish/GetDishImageUrl?id= and returns a
// presigned link to the photo
func (h *DishController) GetDishImageUrl(c *gin.Context) {
	id, ok := queryID(c, "id")
	if !ok {
		return
	}
	url, err := h.dishes.ImageURL(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"id": id, "image_url": url}, "Image URL generated")
}
