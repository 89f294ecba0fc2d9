package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hearthside/carepath-backend/internal/engine"
	"github.com/hearthside/carepath-backend/internal/pkg/apperr"
)

// respondError maps service and engine errors onto HTTP statuses. Engine
// error kinds carry the interesting distinctions: invalid input is 422,
// acting on stale state is 409, broken configuration is 500.
func respondError(c *gin.Context, err error) {
	var validationErr *engine.ValidationError
	var staleErr *engine.StaleStateError
	var configErr *engine.ConfigurationError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": validationErr.Reason})
	case errors.As(err, &staleErr):
		c.JSON(http.StatusConflict, gin.H{"error": staleErr.Reason})
	case errors.As(err, &configErr):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "program configuration error"})
	case errors.Is(err, apperr.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, apperr.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
