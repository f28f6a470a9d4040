package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuslink/backend/internal/app/models/dto"
	"github.com/campuslink/backend/internal/pkg/apperrors"
)

// HandleAPIError maps service errors onto HTTP responses. Not-found is also
// what a hidden private community produces, so the mapping never reveals
// whether a resource exists.
func HandleAPIError(c *gin.Context, err error) {
	var custom *apperrors.CustomError
	message := func(fallback string) string {
		if errors.As(err, &custom) && custom.Message != "" {
			return custom.Message
		}
		return fallback
	}

	switch {
	// 401
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, apperrors.ErrAccountDisabled):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Account is disabled")
	case errors.Is(err, apperrors.ErrTokenExpired):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenRevoked):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Token revoked")
	case errors.Is(err, apperrors.ErrTokenNotFound):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "Token not found")
	case errors.Is(err, apperrors.ErrTokenInvalid):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token")

	// 403
	case errors.Is(err, apperrors.ErrPermissionDenied):
		respond(c, http.StatusForbidden, dto.ErrorCodeForbidden, message("Permission denied"))
	case errors.Is(err, apperrors.ErrNotMember):
		respond(c, http.StatusForbidden, dto.ErrorCodeForbidden, "Not a member")
	case errors.Is(err, apperrors.ErrOwnerCannotLeave):
		respond(c, http.StatusForbidden, dto.ErrorCodeForbidden, "Owners cannot leave their community")
	case errors.Is(err, apperrors.ErrHostCannotLeave):
		respond(c, http.StatusForbidden, dto.ErrorCodeForbidden, "Hosts cannot leave their project")
	case errors.Is(err, apperrors.ErrFounderCannotLeave):
		respond(c, http.StatusForbidden, dto.ErrorCodeForbidden, "Founders cannot leave their startup")

	// 404
	case errors.Is(err, apperrors.ErrCommunityNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Community not found")
	case errors.Is(err, apperrors.ErrProjectNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Project not found")
	case errors.Is(err, apperrors.ErrStartupNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Startup not found")
	case errors.Is(err, apperrors.ErrPostNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Post not found")
	case errors.Is(err, apperrors.ErrUserNotFound), errors.Is(err, apperrors.ErrProfileNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "User not found")
	case errors.Is(err, apperrors.ErrResourceNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, message("Resource not found"))

	// 409
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		respond(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Email already exists")
	case errors.Is(err, apperrors.ErrAlreadyMember):
		respond(c, http.StatusConflict, dto.ErrorCodeConflict, "Already a member")
	case errors.Is(err, apperrors.ErrConflict):
		respond(c, http.StatusConflict, dto.ErrorCodeConflict, message("Conflict"))

	// 400
	case errors.Is(err, apperrors.ErrInvalidJoinCode):
		respond(c, http.StatusBadRequest, dto.ErrorCodeInvalidJoinCode, "Invalid join code")
	case errors.Is(err, apperrors.ErrValidationFailed):
		respond(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, message("Validation failed"))
	case errors.Is(err, apperrors.ErrBadRequest):
		respond(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, message("Bad request"))

	default:
		respond(c, http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error")
	}
}

func respond(c *gin.Context, status int, code dto.ErrorCode, message string) {
	c.JSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
}
