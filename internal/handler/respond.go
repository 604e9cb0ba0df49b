package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"habitud/internal/apperr"
)

// respondError maps a service error to an HTTP response. Domain errors keep
// their message; anything unclassified becomes a generic 500 with the
// detail going to the log only.
func respondError(c *gin.Context, logger *zap.Logger, op string, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindInvalid, apperr.KindConflict:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case apperr.KindUnauthorized:
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case apperr.KindForbidden:
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case apperr.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		logger.Error(op+": unexpected error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error interno del servidor"})
	}
}

// currentUserID reads the authenticated user id stored by the auth
// middleware.
func currentUserID(c *gin.Context) int {
	return c.GetInt("user_id")
}
