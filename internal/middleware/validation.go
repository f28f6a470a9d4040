package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/campuslink/backend/internal/app/models/dto"
)

// RespondValidationError turns a binding failure into a 400 with per-field
// details when the underlying error carries them.
func RespondValidationError(c *gin.Context, err error) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make([]string, len(validationErrors))
		for i, fieldErr := range validationErrors {
			details[i] = formatValidationError(fieldErr)
		}
		errorDetail = errorDetail.WithDetails(details)
		if len(validationErrors) > 0 {
			errorDetail = errorDetail.WithField(validationErrors[0].Field())
		}
	} else {
		errorDetail = errorDetail.WithDetails(err.Error())
	}

	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "len":
		return e.Field() + " must be exactly " + e.Param() + " characters"
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
