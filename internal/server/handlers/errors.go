package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/vladimiradmaev/diatrack/internal/errors"
)

// writeError logs err and writes it for the non risk routes, which use a
// plain {msg} body.
func writeError(c *gin.Context, deps Dependencies, err error) {
	if deps.Errors != nil {
		deps.Errors.Handle(c.Request.Context(), err)
	}

	appErr, ok := apperrors.As(err)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Internal server error."})
		return
	}

	status := http.StatusInternalServerError
	msg := "Internal server error."
	switch appErr.Type {
	case apperrors.ErrorTypeValidation:
		status, msg = http.StatusBadRequest, appErr.Message
	case apperrors.ErrorTypePermission:
		status, msg = http.StatusUnauthorized, appErr.Message
	case apperrors.ErrorTypeNotFound:
		status, msg = http.StatusNotFound, appErr.Message
	}
	c.JSON(status, gin.H{"msg": msg})
}
