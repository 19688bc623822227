package handler

import (
	"net/http"

	"github.com/gcoopmansS/Moovle-sub000/internal/repository/postgres"

	"github.com/gin-gonic/gin"
)

// CategoryResponse is one selectable activity category.
type CategoryResponse struct {
	ID   uint   `json:"id" example:"1"`
	Name string `json:"name" example:"running"`
}

// CategoryHandler serves the activity-category lookup.
type CategoryHandler struct {
	categories *postgres.CategoryRepository
}

func NewCategoryHandler(categories *postgres.CategoryRepository) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// List godoc
// @Summary      List activity categories
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string][]CategoryResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	cats, err := h.categories.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load categories"})
		return
	}

	items := make([]CategoryResponse, 0, len(cats))
	for _, cat := range cats {
		items = append(items, CategoryResponse{ID: cat.ID, Name: cat.Name})
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}
