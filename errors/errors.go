package errors

import (
	"fmt"
	"net/http"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
)

// Error is the error type every service returns to the handlers.
// Status carries the HTTP status the error should be rendered with.
type Error struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *Error) Error() string {
	return e.Message
}

// New creates an *Error with the given message and HTTP status.
func New(message string, status int) *Error {
	return &Error{Message: message, Status: status}
}

var (
	ErrBadRequest          = New("bad request", http.StatusBadRequest)
	ErrUnauthorized        = New("unauthorized", http.StatusUnauthorized)
	ErrForbidden           = New("forbidden", http.StatusForbidden)
	ErrConflict            = New("email already registered", http.StatusConflict)
	ErrInternalServerError = New("internal server error", http.StatusInternalServerError)
	ErrInvalidPassword     = New("invalid email or password", http.StatusUnauthorized)
	ErrInvalidOTP          = New("Invalid OTP or expired", http.StatusBadRequest)
	ErrEmailNotFound       = New("Email not found or invalid", http.StatusBadRequest)
	ErrInvalidRefreshToken = New("invalid or expired refresh token", http.StatusUnauthorized)
	ErrTooManyRequests     = New("too many requests", http.StatusTooManyRequests)
)

// ErrorHandler renders rate-limit rejections for gin-rate-limit.
func ErrorHandler(c *gin.Context, info ratelimit.Info) {
	c.AbortWithStatusJSON(ErrTooManyRequests.Status, gin.H{
		"message": ErrTooManyRequests.Message,
		"errors":  fmt.Sprintf("try again in %s", time.Until(info.ResetTime).Round(time.Second)),
		"status":  http.StatusText(ErrTooManyRequests.Status),
	})
}
