package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuslink/backend/internal/app/models/dto"
	"github.com/campuslink/backend/internal/app/services"
	"github.com/campuslink/backend/internal/middleware"
)

// ProfileController handles profile endpoints
type ProfileController struct {
	profileService services.ProfileService
}

// NewProfileController creates a new ProfileController
func NewProfileController(profileService services.ProfileService) *ProfileController {
	return &ProfileController{profileService: profileService}
}

// GetOwnProfile returns the caller's full profile
// @Summary Get own profile
// @Description Returns the authenticated user's full profile including contact details
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse} "Profile retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 404 {object} dto.ErrorResponse "Profile not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /profile [get]
func (c *ProfileController) GetOwnProfile(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}

	resp, err := c.profileService.GetOwnProfile(ctx, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// UpdateProfile updates the caller's profile
// @Summary Update own profile
// @Description Updates the authenticated user's profile. Only the owner can update a profile.
// @Tags profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Profile data"
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse} "Profile updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 404 {object} dto.ErrorResponse "Profile not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /profile [put]
func (c *ProfileController) UpdateProfile(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondValidationError(ctx, err)
		return
	}

	resp, err := c.profileService.UpdateProfile(ctx, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetPublicProfile returns another user's public profile
// @Summary Get a user's public profile
// @Description Returns the public fields of another user's profile
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.PublicProfileResponse} "Profile retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid user ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/{id}/profile [get]
func (c *ProfileController) GetPublicProfile(ctx *gin.Context) {
	targetID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.profileService.GetPublicProfile(ctx, targetID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
