package common

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIResponse standard API response structure
type APIResponse struct {
	Data    interface{} `json:"data,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
	Warning string      `json:"warning,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// Meta additional response metadata
type Meta struct {
	Total int64 `json:"total,omitempty"`
	Count int64 `json:"count,omitempty"`
}

// ErrorInfo error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse returns a successful JSON response
func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Data: data})
}

// CreatedResponse returns a 201 Created JSON response
func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Data: data})
}

// DegradedResponse returns a 200 response for an operation whose record
// mutation committed but whose file cleanup failed (see FileCleanupError).
func DegradedResponse(c *gin.Context, data interface{}, warn error) {
	c.JSON(http.StatusOK, APIResponse{Data: data, Warning: warn.Error()})
}

// ErrorResponse returns an error JSON response
func ErrorResponse(c *gin.Context, status int, message string, err error) {
	errInfo := &ErrorInfo{
		Code:    getErrorCode(status),
		Message: message,
	}
	if err != nil {
		errInfo.Details = err.Error()
	}

	c.JSON(status, APIResponse{Error: errInfo})
}

// MapError translates a service error into an HTTP error response.
// Validation and not-found outcomes must stay distinguishable from
// storage failures so clients can decide whether to retry.
func MapError(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		ErrorResponse(c, http.StatusBadRequest, message, err)
	case errors.Is(err, ErrNotFound):
		ErrorResponse(c, http.StatusNotFound, message, err)
	case errors.Is(err, ErrUserAlreadyExists):
		ErrorResponse(c, http.StatusConflict, message, err)
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrUnauthorized):
		ErrorResponse(c, http.StatusUnauthorized, message, err)
	default:
		ErrorResponse(c, http.StatusInternalServerError, message, err)
	}
}

// getErrorCode generates error code from HTTP status
func getErrorCode(status int) string {
	switch status {
	case 400:
		return "BAD_REQUEST"
	case 401:
		return "UNAUTHORIZED"
	case 403:
		return "FORBIDDEN"
	case 404:
		return "NOT_FOUND"
	case 409:
		return "CONFLICT"
	case 500:
		return "INTERNAL_SERVER_ERROR"
	default:
		return "ERROR"
	}
}
