package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/pizzeria-api/logger"
	"github.com/kendall-kelly/pizzeria-api/middleware"
	"github.com/kendall-kelly/pizzeria-api/services"
	"github.com/kendall-kelly/pizzeria-api/utils"
	"go.uber.org/zap"
)

func respondOK(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
		"message": message,
	})
}

// respondError writes the failure envelope. Business failures are reported
// with 400 whatever their kind.
func respondError(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": message,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// handleServiceError maps a service error to the response envelope.
// Infrastructure errors are logged and hidden behind a generic message.
func handleServiceError(c *gin.Context, err error) {
	if se, ok := services.AsServiceError(err); ok {
		respondError(c, se.Code, se.Message)
		return
	}

	var uploadErr *utils.FileUploadError
	if errors.As(err, &uploadErr) {
		respondError(c, uploadErr.Code, uploadErr.Message)
		return
	}

	logger.L().Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	_ = c.Error(err)
	respondError(c, "INTERNAL_ERROR", "The request could not be completed")
}

// bindJSON decodes the request body and answers with a validation error on failure
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request data",
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return false
	}
	return true
}

// queryID reads a positive integer id from the query string
func queryID(c *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		respondError(c, "VALIDATION_ERROR", name+" is required")
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		respondError(c, "VALIDATION_ERROR", name+" must be a positive integer")
		return 0, false
	}
	return uint(id), true
}

// queryString reads a required, non-blank query parameter
func queryString(c *gin.Context, name string) (string, bool) {
	value := strings.TrimSpace(c.Query(name))
	if value == "" {
		respondError(c, "VALIDATION_ERROR", name+" is required")
		return "", false
	}
	return value, true
}

// currentUserID returns the authenticated caller or answers 401
func currentUserID(c *gin.Context) (string, bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Could not extract user information",
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return "", false
	}
	return userID, true
}
