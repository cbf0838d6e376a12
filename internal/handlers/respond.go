package handlers

import (
	"net/http"

	"github.com/gocool94/innnov-prod/internal/apperrors"

	"github.com/gin-gonic/gin"
)

// respondError maps an error kind onto an HTTP status and writes the
// standard error body.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch apperrors.KindOf(err) {
	case apperrors.KindValidation:
		status = http.StatusBadRequest
	case apperrors.KindAuthorization:
		status = http.StatusForbidden
	case apperrors.KindNotFound:
		status = http.StatusNotFound
	case apperrors.KindIllegalTransition:
		status = http.StatusConflict
	case apperrors.KindTimeout:
		status = http.StatusGatewayTimeout
	}

	c.JSON(status, gin.H{
		"error": err.Error(),
		"kind":  apperrors.KindOf(err).String(),
	})
}
