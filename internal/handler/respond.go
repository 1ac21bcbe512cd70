package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"wedding-memories/internal/apperr"
)

func errorJSON(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// errorDetails adds the underlying error for admin-facing endpoints.
func errorDetails(c *gin.Context, status int, message string, err error) {
	c.JSON(status, gin.H{"error": message, "details": err.Error()})
}

func badRequest(c *gin.Context, message string) {
	errorJSON(c, http.StatusBadRequest, message)
}

func unauthorized(c *gin.Context) {
	errorJSON(c, http.StatusUnauthorized, "Unauthorized")
}

// validationMessage returns the message of a ValidationError in err.
func validationMessage(err error) (string, bool) {
	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		return ve.Message, true
	}
	return "", false
}
