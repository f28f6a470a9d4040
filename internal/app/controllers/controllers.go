// Package controllers translates HTTP requests into service calls. Handlers
// bind and validate input, read the caller's identity from the auth
// middleware and delegate every decision to the services.
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campuslink/backend/internal/app/models/dto"
	"github.com/campuslink/backend/internal/middleware"
)

// parseIDParam reads a positive int64 path parameter. A false return means a
// 400 was already written.
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name+" parameter").
			WithDetails(name + " must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// callerID reads the authenticated user id. A false return means a 401 was
// already written; that only happens when a route misses the auth middleware.
func callerID(ctx *gin.Context) (int64, bool) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return userID, true
}
