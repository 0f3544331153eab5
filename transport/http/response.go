package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Stable machine-readable error codes surfaced to clients.
const (
	CodeLoginFailed        = "LOGIN_FAILED"
	CodeTokenRequired      = "TOKEN_REQUIRED"
	CodeLogoutFailed       = "LOGOUT_FAILED"
	CodeValidationError    = "VALIDATION_ERROR"
	CodeInvalidCEP         = "INVALID_CEP"
	CodeCEPNotFound        = "CEP_NOT_FOUND"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeInternalError      = "INTERNAL_ERROR"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidTokenFormat = "INVALID_TOKEN_FORMAT"
	CodeTokenRevoked       = "TOKEN_REVOKED"
	CodeInvalidToken       = "INVALID_TOKEN"
)

type errorBody struct {
	Code      string       `json:"code"`
	Message   string       `json:"message"`
	Details   []fieldError `json:"details,omitempty"`
	Timestamp string       `json:"timestamp"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// respondError writes the error envelope and stops the handler chain.
func respondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error": errorBody{
			Code:      code,
			Message:   message,
			Timestamp: timestamp(),
		},
	})
}

// respondValidationError maps a gin binding failure to a 400 with per-field
// details when the underlying error is from the validator.
func respondValidationError(c *gin.Context, err error) {
	body := errorBody{
		Code:      CodeValidationError,
		Message:   "invalid request body",
		Timestamp: timestamp(),
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			body.Details = append(body.Details, fieldError{
				Field:   fe.Field(),
				Message: fe.Tag(),
			})
		}
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   body,
	})
}
