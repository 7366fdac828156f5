// Package respond writes the JSON error bodies shared by all handlers
package respond

import (
	"errors"
	"net/http"

	"pathfinder/guide-api/internal/service"
	"pathfinder/guide-api/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Fail writes an error body with the given status.
func Fail(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{
		"error":     msg,
		"requestID": middleware.RequestID(c),
	})
}

// Error maps a service error to its status code. Errors that don't come
// from a service are logged with logMsg and hidden behind a 500.
func Error(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrConflict):
		Fail(c, http.StatusBadRequest, service.Message(err))
	case errors.Is(err, service.ErrAuth):
		Fail(c, http.StatusUnauthorized, service.Message(err))
	case errors.Is(err, service.ErrNotFound):
		Fail(c, http.StatusNotFound, service.Message(err))
	default:
		requestID := middleware.RequestID(c)

		Fail(c, http.StatusInternalServerError, "Internal server error")
		zap.L().Error(logMsg, zap.Error(err), zap.String("requestID", requestID))
	}
}
