package response

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	apiError "github.com/techagentng/ain/errors"
)

// JSON writes the standard envelope every handler responds with.
func JSON(c *gin.Context, message string, status int, data interface{}, err error) {
	errMessage := ""
	if err != nil {
		errMessage = err.Error()
	}
	responsedata := gin.H{
		"message":   message,
		"data":      data,
		"errors":    errMessage,
		"status":    http.StatusText(status),
		"timestamp": time.Now().Format(time.RFC3339),
	}
	if err == nil {
		responsedata["errors"] = nil
	}

	c.JSON(status, responsedata)
}

// HandleErrors picks the status for err and writes it.
func HandleErrors(c *gin.Context, err error) {
	var apiErr *apiError.Error
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &apiErr):
		JSON(c, "", apiErr.Status, nil, err)
	case errors.As(err, &validationErrs):
		JSON(c, "", http.StatusBadRequest, nil, err)
	default:
		JSON(c, "", http.StatusInternalServerError, nil, err)
	}
}
