package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gamehub/apperrors"
	"gamehub/models"
)

// respondError maps the typed service errors onto HTTP status codes.
// Unknown errors become an opaque 500; the cause stays in the log.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrAlreadyExists):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrHasRelated):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// requireRole aborts with 403 unless the authenticated user has one of
// the given roles. Returns the user and whether the request may proceed.
func requireRole(c *gin.Context, roles ...string) (models.User, bool) {
	user := c.MustGet("user").(models.User)
	for _, role := range roles {
		if user.Role == role {
			return user, true
		}
	}
	c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	return user, false
}
