package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/elpiaio/elpiaio-ERP-prototype/internal/dates"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/repositories"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/seed"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/services"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/store"
)

// ErrorResponse defines the structure of an error response
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Error represents an API error
type Error struct {
	Message    string
	StatusCode int
	Code       string
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

// Common API errors
var (
	ErrInvalidRequest     = &Error{Message: "Invalid request", StatusCode: http.StatusBadRequest, Code: "INVALID_REQUEST"}
	ErrNotFound           = &Error{Message: "Resource not found", StatusCode: http.StatusNotFound, Code: "NOT_FOUND"}
	ErrInternalServer     = &Error{Message: "Internal server error", StatusCode: http.StatusInternalServerError, Code: "INTERNAL_ERROR"}
	ErrServiceUnavailable = &Error{Message: "Service unavailable", StatusCode: http.StatusServiceUnavailable, Code: "SERVICE_UNAVAILABLE"}
)

// NewError creates a new API error with custom details
func NewError(message string, statusCode int, code string) *Error {
	return &Error{
		Message:    message,
		StatusCode: statusCode,
		Code:       code,
	}
}

// NewValidationError creates a new validation error with a custom message
func NewValidationError(message string) *Error {
	return NewError(message, http.StatusBadRequest, "VALIDATION_ERROR")
}

// toAPIError maps domain errors to API errors. Unknown errors become a bare 500.
func toAPIError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}

	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return NewError(err.Error(), http.StatusNotFound, "NOT_FOUND"), true
	case errors.Is(err, repositories.ErrValidation):
		return NewValidationError(err.Error()), true
	case errors.Is(err, dates.ErrInvalidDate):
		return NewError(err.Error(), http.StatusBadRequest, "INVALID_DATE"), true
	case errors.Is(err, services.ErrInvalidRange):
		return NewError(err.Error(), http.StatusBadRequest, "INVALID_RANGE"), true
	case errors.Is(err, seed.ErrFetchFailed):
		return NewError("Reference data unavailable", http.StatusBadGateway, "SEED_UNAVAILABLE"), true
	case errors.Is(err, store.ErrWriteFailed):
		return NewError("Storage write failed", http.StatusServiceUnavailable, "WRITE_FAILED"), true
	}
	return nil, false
}

// WriteError writes an error response
func WriteError(c *gin.Context, err error) {
	apiErr, ok := toAPIError(err)
	if !ok {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled error")
		apiErr = ErrInternalServer
	} else if apiErr.StatusCode >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg(apiErr.Message)
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(apiErr.StatusCode, ErrorResponse{
		Message: apiErr.Message,
		Code:    apiErr.Code,
	})
}
