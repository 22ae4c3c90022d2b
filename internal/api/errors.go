package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pentyflix/pentyflix-api/internal/reddit"
)

// statusForError maps the upstream error taxonomy onto HTTP statuses: an
// open circuit or exhausted retries is a temporary outage, an upstream 404
// passes through, and any other permanent or malformed response is a bad
// gateway.
func statusForError(err error) int {
	if errors.Is(err, reddit.ErrCircuitOpen) {
		return http.StatusServiceUnavailable
	}

	var permanent *reddit.PermanentError
	if errors.As(err, &permanent) {
		if permanent.StatusCode == http.StatusNotFound {
			return http.StatusNotFound
		}
		return http.StatusBadGateway
	}

	var transient *reddit.TransientError
	if errors.As(err, &transient) {
		return http.StatusServiceUnavailable
	}

	var malformed *reddit.MalformedResponseError
	if errors.As(err, &malformed) {
		return http.StatusBadGateway
	}

	return http.StatusInternalServerError
}

// respondError logs the failure and writes the mapped status with a
// client-safe message
func (r *Router) respondError(c *gin.Context, err error, message string) {
	status := statusForError(err)
	r.logger.Error(message, zap.Int("status", status), zap.Error(err))
	c.JSON(status, gin.H{"error": message})
}
