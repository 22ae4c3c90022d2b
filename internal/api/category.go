package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pentyflix/pentyflix-api/internal/reddit"
)

// popularCategories handles GET /api/reddit/category/popular
func (r *Router) popularCategories(c *gin.Context) {
	categories, err := r.categories.Popular(c.Request.Context(), parseLimit(c))
	if err != nil {
		r.respondError(c, err, "An error occurred while retrieving popular categories")
		return
	}

	if len(categories) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No popular categories found"})
		return
	}

	c.JSON(http.StatusOK, categories)
}

// searchCategories handles GET /api/reddit/category/search
func (r *Router) searchCategories(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search query is required"})
		return
	}

	categories, err := r.categories.Search(c.Request.Context(), query, parseLimit(c))
	if err != nil {
		r.respondError(c, err, fmt.Sprintf("An error occurred while searching categories for %q", query))
		return
	}

	if len(categories) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("No categories found matching %q", query)})
		return
	}

	c.JSON(http.StatusOK, categories)
}

// categoryDetails handles GET /api/reddit/category/:name
func (r *Router) categoryDetails(c *gin.Context) {
	name := c.Param("name")
	if strings.TrimSpace(name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category name is required"})
		return
	}

	category, err := r.categories.Detail(c.Request.Context(), name)
	if err != nil {
		r.respondError(c, err, fmt.Sprintf("An error occurred while retrieving details for r/%s", reddit.CanonicalName(name)))
		return
	}

	c.JSON(http.StatusOK, category)
}
