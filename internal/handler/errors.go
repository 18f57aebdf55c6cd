package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/blogkit/backend/internal/service"
)

// writeError translates service errors to status codes. Credential
// failures all surface as the same 401 body; anything unclassified is
// logged with the request id and answered with a bare 500.
func writeError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
	case errors.Is(err, service.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "unauthorized"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "already exists"})
	default:
		logger.Error("unhandled error", "requestId", RequestID(c), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
	}
}
