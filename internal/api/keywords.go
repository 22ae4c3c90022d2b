package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// listKeywords handles GET /api/nsfwkeywords. Requires a valid bearer token.
func (r *Router) listKeywords(c *gin.Context) {
	keywords, err := r.keywords.ListAll(c.Request.Context())
	if err != nil {
		r.logger.Error("failed to list nsfw keywords", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while retrieving keywords"})
		return
	}

	c.JSON(http.StatusOK, keywords)
}
