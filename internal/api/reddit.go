package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pentyflix/pentyflix-api/internal/reddit"
)

var validTimeFrames = map[string]bool{
	"hour": true, "day": true, "week": true,
	"month": true, "year": true, "all": true,
}

var validMediaTypes = map[string]bool{
	reddit.MediaTypeImage: true,
	reddit.MediaTypeVideo: true,
	reddit.MediaTypeGif:   true,
	reddit.MediaTypeAll:   true,
}

// parseLimit reads the limit query parameter; anything unparsable falls
// through to the facade's default
func parseLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "25"))
	if err != nil {
		return 0
	}
	return limit
}

// parseTimeFrame whitelists the time frame, defaulting to "week"
func parseTimeFrame(c *gin.Context) string {
	timeFrame := strings.ToLower(c.DefaultQuery("timeFrame", "week"))
	if !validTimeFrames[timeFrame] {
		return "week"
	}
	return timeFrame
}

// subredditMedia handles GET /api/reddit/media/:subreddit
func (r *Router) subredditMedia(c *gin.Context) {
	subreddit := c.Param("subreddit")
	if strings.TrimSpace(subreddit) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Subreddit name is required"})
		return
	}

	posts, err := r.media.ListMediaPosts(c.Request.Context(), subreddit, parseLimit(c), parseTimeFrame(c))
	if err != nil {
		r.respondError(c, err, fmt.Sprintf("An error occurred while retrieving media posts from r/%s", reddit.CanonicalName(subreddit)))
		return
	}

	if len(posts) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("No media posts found in r/%s", reddit.CanonicalName(subreddit))})
		return
	}

	c.JSON(http.StatusOK, posts)
}

// filteredSubredditMedia handles GET /api/reddit/media/:subreddit/filter/:mediaType
func (r *Router) filteredSubredditMedia(c *gin.Context) {
	subreddit := c.Param("subreddit")
	if strings.TrimSpace(subreddit) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Subreddit name is required"})
		return
	}

	mediaType := strings.ToLower(c.Param("mediaType"))
	if !validMediaTypes[mediaType] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid media type. Valid types are: image, video, gif, all"})
		return
	}

	posts, err := r.media.ListMediaPosts(c.Request.Context(), subreddit, parseLimit(c), parseTimeFrame(c))
	if err != nil {
		r.respondError(c, err, fmt.Sprintf("An error occurred while retrieving %s media posts", mediaType))
		return
	}

	filtered := reddit.FilterMediaPosts(posts, mediaType)
	if len(filtered) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("No %s media posts found in r/%s", mediaType, reddit.CanonicalName(subreddit))})
		return
	}

	c.JSON(http.StatusOK, filtered)
}
