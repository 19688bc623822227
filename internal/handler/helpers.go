package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

// currentUserID reads the userID set by the auth middleware. An empty string
// means the request is unauthenticated.
func currentUserID(c *gin.Context) string {
	v, exists := c.Get("userID")
	if !exists {
		return ""
	}
	id, _ := v.(string)
	return id
}

// pageParams reads page/limit query parameters with sane bounds.
func pageParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
