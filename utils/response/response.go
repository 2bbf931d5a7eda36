package response

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/respir-app/respir-api/utils/apperror"
	"github.com/respir-app/respir-api/utils/validation"
)

// Response represents a standardized API response
type Response struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    interface{}  `json:"data,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Success returns a 200 response wrapping the read projection
func Success(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(Response{
		Success: true,
		Data:    data,
	})
}

// Created returns a 201 Created response
func Created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Response{
		Success: true,
		Data:    data,
	})
}

// NoContent returns a 204 No Content response
func NoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

// Error returns an error response
func Error(c *fiber.Ctx, statusCode int, message string, code string) error {
	return ErrorWithDetails(c, statusCode, message, code, nil)
}

// ErrorWithDetails returns an error response with details
func ErrorWithDetails(c *fiber.Ctx, statusCode int, message string, code string, details interface{}) error {
	return c.Status(statusCode).JSON(Response{
		Success: false,
		Error: &ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// BadRequest returns a 400 Bad Request response
func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message, "BAD_REQUEST")
}

// Unauthorized returns a 401 Unauthorized response
func Unauthorized(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Unauthorized access"
	}
	return Error(c, fiber.StatusUnauthorized, message, "UNAUTHORIZED")
}

// Forbidden returns a 403 Forbidden response
func Forbidden(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Access forbidden"
	}
	return Error(c, fiber.StatusForbidden, message, "FORBIDDEN")
}

// NotFound returns a 404 Not Found response
func NotFound(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Resource not found"
	}
	return Error(c, fiber.StatusNotFound, message, "NOT_FOUND")
}

// Conflict returns a 409 Conflict response
func Conflict(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusConflict, message, "CONFLICT")
}

// TooManyRequests returns a 429 Too Many Requests response
func TooManyRequests(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Too many requests"
	}
	return Error(c, fiber.StatusTooManyRequests, message, "TOO_MANY_REQUESTS")
}

// ValidationError returns a 422 Unprocessable Entity response with per-field messages
func ValidationError(c *fiber.Ctx, err error) error {
	details := interface{}(err.Error())
	if fields := validation.FormatValidationErrors(err); len(fields) > 0 {
		details = fields
	}
	return ErrorWithDetails(c, fiber.StatusUnprocessableEntity,
		"Validation failed", "VALIDATION_ERROR", details)
}

// FieldValidationError returns a 422 for a single offending field
func FieldValidationError(c *fiber.Ctx, field, message string) error {
	return ErrorWithDetails(c, fiber.StatusUnprocessableEntity,
		"Validation failed", "VALIDATION_ERROR", map[string]string{field: message})
}

// InternalServerError returns a 500 Internal Server Error response
func InternalServerError(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Internal server error"
	}
	return Error(c, fiber.StatusInternalServerError, message, "INTERNAL_ERROR")
}

// ServiceUnavailable returns a 503 Service Unavailable response
func ServiceUnavailable(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Service temporarily unavailable"
	}
	return Error(c, fiber.StatusServiceUnavailable, message, "SERVICE_UNAVAILABLE")
}

// FromError renders a service error. Unclassified errors are logged and hidden behind
// fallback as a 500.
func FromError(c *fiber.Ctx, err error, fallback string) error {
	message := err.Error()
	switch apperror.KindOf(err) {
	case apperror.KindNotFound:
		return NotFound(c, message)
	case apperror.KindConflict:
		return Conflict(c, message)
	case apperror.KindBadRequest:
		return BadRequest(c, message)
	case apperror.KindUnauthorized:
		return Unauthorized(c, message)
	case apperror.KindForbidden:
		return Forbidden(c, message)
	case apperror.KindValidation:
		return ErrorWithDetails(c, fiber.StatusUnprocessableEntity, "Validation failed", "VALIDATION_ERROR", message)
	}

	log.Errorw(fallback, "error", err, "method", c.Method(), "path", c.Path())
	return InternalServerError(c, fallback)
}

// ErrorHandler is the Fiber application error handler, rendering errors
// that escape handlers (unknown routes, body limits, panics) in the same envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if fe, ok := err.(*fiber.Error); ok {
		switch fe.Code {
		case fiber.StatusNotFound:
			return NotFound(c, fe.Message)
		case fiber.StatusMethodNotAllowed:
			return Error(c, fe.Code, fe.Message, "METHOD_NOT_ALLOWED")
		case fiber.StatusRequestEntityTooLarge:
			return Error(c, fe.Code, fe.Message, "PAYLOAD_TOO_LARGE")
		}
		if fe.Code < fiber.StatusInternalServerError {
			return Error(c, fe.Code, fe.Message, "BAD_REQUEST")
		}
	}
	return FromError(c, err, "Internal server error")
}
