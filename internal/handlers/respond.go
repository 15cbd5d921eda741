package handlers

import (
	"errors"
	"net/http"

	"github.com/Akila-Wasalathilaka/cognihire/internal/scoring"
	"github.com/Akila-Wasalathilaka/cognihire/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// writeError maps the service error taxonomy onto HTTP statuses. Unknown
// errors are logged and collapsed to a generic 500 so internals never leak
// to clients.
func writeError(c *gin.Context, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
	case errors.Is(err, services.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, scoring.ErrUnsupportedGame):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		log.Error("Unhandled error",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// principal pulls the authenticated principal placed in the context by the
// auth middleware.
func principal(c *gin.Context) services.Principal {
	p, _ := c.Get("principal")
	if p == nil {
		return services.Principal{}
	}
	return p.(services.Principal)
}
