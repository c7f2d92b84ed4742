// Package errors renders the API's JSON error envelope.
package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stwalsh4118/helios/internal/middleware"
)

// Error codes returned in ErrorDetail.Code.
const (
	ErrNotFound           = "NOT_FOUND"
	ErrBadRequest         = "BAD_REQUEST"
	ErrInternalServer     = "INTERNAL_SERVER_ERROR"
	ErrValidation         = "VALIDATION_ERROR"
	ErrCalculation        = "CALCULATION_ERROR"
	ErrDatabaseConnection = "DATABASE_CONNECTION_ERROR"
)

// ErrorResponse is the top-level error response structure.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the error information.
type ErrorDetail struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

func respond(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	c.JSON(status, ErrorResponse{
		Error: ErrorDetail{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: middleware.GetRequestID(c),
		},
	})
}

func requestFields(c *gin.Context, extra map[string]interface{}) map[string]interface{} {
	fields := map[string]interface{}{
		"request_id": middleware.GetRequestID(c),
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
	}
	for k, v := range extra {
		fields[k] = v
	}
	return fields
}

// NotFound writes a 404.
func NotFound(c *gin.Context, message string) {
	if log := middleware.GetLogger(c); log != nil {
		log.Warn("Resource not found", requestFields(c, map[string]interface{}{"message": message}))
	}
	respond(c, http.StatusNotFound, ErrNotFound, message, nil)
}

// BadRequest writes a 400 with optional details.
func BadRequest(c *gin.Context, message string, details map[string]interface{}) {
	if log := middleware.GetLogger(c); log != nil {
		extra := map[string]interface{}{"message": message}
		if details != nil {
			extra["details"] = details
		}
		log.Warn("Bad request", requestFields(c, extra))
	}
	respond(c, http.StatusBadRequest, ErrBadRequest, message, details)
}

// CalculationError writes a 422 for a calculation whose preconditions could
// not be met. The cause is logged, not returned.
func CalculationError(c *gin.Context, stage string, err error) {
	if log := middleware.GetLogger(c); log != nil {
		log.Error("Calculation failed", err, requestFields(c, map[string]interface{}{"stage": stage}))
	}
	respond(c, http.StatusUnprocessableEntity, ErrCalculation,
		"The calculation could not be completed", map[string]interface{}{"stage": stage})
}

// ServiceUnavailable writes a 503 when the database cannot be reached.
func ServiceUnavailable(c *gin.Context, message string, err error) {
	if log := middleware.GetLogger(c); log != nil {
		log.Error("Service unavailable", err, requestFields(c, nil))
	}
	respond(c, http.StatusServiceUnavailable, ErrDatabaseConnection, message, nil)
}

// InternalServerError writes a 500. err is logged but never exposed.
func InternalServerError(c *gin.Context, message string, err error) {
	if log := middleware.GetLogger(c); log != nil {
		log.Error("Internal server error", err, requestFields(c, nil))
	}
	respond(c, http.StatusInternalServerError, ErrInternalServer, message, nil)
}

// ValidationError writes a 400 listing each failing field.
func ValidationError(c *gin.Context, validationErrors validator.ValidationErrors) {
	details := make(map[string]interface{}, len(validationErrors))
	for _, err := range validationErrors {
		details[err.Field()] = formatValidationError(err)
	}

	if log := middleware.GetLogger(c); log != nil {
		log.Warn("Validation error", requestFields(c, map[string]interface{}{"fields": details}))
	}
	respond(c, http.StatusBadRequest, ErrValidation, "Validation failed for one or more fields", details)
}

func formatValidationError(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return "Value is too short or small (minimum: " + err.Param() + ")"
	case "max":
		return "Value is too long or large (maximum: " + err.Param() + ")"
	case "gt":
		return "Must be greater than " + err.Param()
	case "gte":
		return "Must be greater than or equal to " + err.Param()
	case "lt":
		return "Must be less than " + err.Param()
	case "lte":
		return "Must be less than or equal to " + err.Param()
	case "oneof":
		return "Must be one of: " + err.Param()
	case "latitude":
		return "Must be a latitude between -90 and 90"
	case "longitude":
		return "Must be a longitude between -180 and 180"
	case "uuid":
		return "Must be a valid UUID"
	default:
		return "Validation failed for tag: " + err.Tag()
	}
}
