package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes carried by AppError.
const (
	CodeNotFound     = "NOT_FOUND"
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeBadGateway   = "BAD_GATEWAY"
	CodeInternal     = "INTERNAL_ERROR"
)

// ErrorResponse is the standardized API error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// AppError is a custom application error with a stable code.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError reports that an entity does not exist.
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %v not found", resource, id),
	}
}

// NewValidationError reports a malformed or incomplete request payload.
func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

// NewUnauthorizedError reports a missing or invalid credential. Callers use
// one uniform message regardless of which check failed.
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

// NewBadGatewayError reports a failure of a synchronous external dependency
// whose result the caller needs. The message is safe to show to clients.
func NewBadGatewayError(message string, err error) *AppError {
	return &AppError{
		Code:    CodeBadGateway,
		Message: message,
		Err:     err,
	}
}

// NewInternalError wraps an unexpected error behind a generic client message.
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// StatusFor maps an error to its HTTP status class.
func StatusFor(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case CodeNotFound:
			return fiber.StatusNotFound
		case CodeValidation:
			return fiber.StatusUnprocessableEntity
		case CodeUnauthorized:
			return fiber.StatusUnauthorized
		case CodeBadGateway:
			return fiber.StatusBadGateway
		}
	}
	return fiber.StatusInternalServerError
}

// RespondWithError writes the standardized error envelope. Wrapped internal
// errors are never leaked to the client, only the stable message and code.
func RespondWithError(c *fiber.Ctx, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return c.Status(StatusFor(err)).JSON(ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error: "Internal server error",
		Code:  CodeInternal,
	})
}
