package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amonks/tasktree/todo"
)

// statusForError maps the store's error kinds to HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, todo.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, todo.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, todo.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(c *gin.Context, err error) {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		s.logf("request %s %s failed (%d): %v", c.Request.Method, c.Request.URL.Path, status, err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
