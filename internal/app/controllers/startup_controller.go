package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuslink/backend/internal/app/models/dto"
	"github.com/campuslink/backend/internal/app/services"
	"github.com/campuslink/backend/internal/middleware"
)

// StartupController handles startup endpoints
type StartupController struct {
	startupService services.StartupService
}

// NewStartupController creates a new StartupController
func NewStartupController(startupService services.StartupService) *StartupController {
	return &StartupController{startupService: startupService}
}

// GetStartups lists startups
// @Summary List startups
// @Description Lists startups with text search, status filter, sort and pagination
// @Tags startups
// @Produce json
// @Security BearerAuth
// @Param search query string false "Search by name or description"
// @Param status query string false "Filter by status" Enums(IDEA, BUILDING, LAUNCHED)
// @Param sort query string false "Sort order" Enums(newest, oldest) default(newest)
// @Param page query int false "Page number (1-based)" default(1) minimum(1)
// @Param pageSize query int false "Page size" default(10) minimum(1) maximum(100)
// @Success 200 {object} dto.APIResponse{data=dto.StartupListResponse} "Startups retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /startups [get]
func (c *StartupController) GetStartups(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}

	var filter dto.StartupFilterRequest
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		middleware.RespondValidationError(ctx, err)
		return
	}

	resp, err := c.startupService.GetStartups(ctx, userID, &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// CreateStartup creates a startup founded by the caller
// @Summary Create a startup
// @Description Creates a startup with the caller as founder and first member
// @Tags startups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStartupRequest true "Startup data"
// @Success 201 {object} dto.APIResponse{data=dto.StartupResponse} "Startup created successfully"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /startups [post]
func (c *StartupController) CreateStartup(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}

	var req dto.CreateStartupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondValidationError(ctx, err)
		return
	}

	resp, err := c.startupService.CreateStartup(ctx, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// GetStartupByID returns startup details
// @Summary Get startup by ID
// @Description Returns startup details with its member list
// @Tags startups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Startup ID"
// @Success 200 {object} dto.APIResponse{data=dto.StartupDetailResponse} "Startup retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid startup ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 404 {object} dto.ErrorResponse "Startup not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /startups/{id} [get]
func (c *StartupController) GetStartupByID(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}
	startupID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.startupService.GetStartupByID(ctx, userID, startupID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// UpdateStartup updates a startup, founder only
// @Summary Update a startup
// @Description Updates startup fields. Only the founder can update a startup.
// @Tags startups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Startup ID"
// @Param request body dto.UpdateStartupRequest true "Startup data"
// @Success 200 {object} dto.APIResponse{data=dto.StartupResponse} "Startup updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Caller is not the founder"
// @Failure 404 {object} dto.ErrorResponse "Startup not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /startups/{id} [put]
func (c *StartupController) UpdateStartup(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}
	startupID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateStartupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondValidationError(ctx, err)
		return
	}

	resp, err := c.startupService.UpdateStartup(ctx, userID, startupID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// JoinStartup joins a startup with a self-described role
// @Summary Join a startup
// @Description Adds the caller as a member with the role they describe
// @Tags startups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Startup ID"
// @Param request body dto.JoinStartupRequest true "Role description"
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse} "Joined successfully"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 404 {object} dto.ErrorResponse "Startup not found"
// @Failure 409 {object} dto.ErrorResponse "Already a member"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /startups/{id}/members [post]
func (c *StartupController) JoinStartup(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}
	startupID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.JoinStartupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondValidationError(ctx, err)
		return
	}

	if err := c.startupService.JoinStartup(ctx, userID, startupID, req.Role); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.MessageResponse{Message: "Joined startup successfully"}))
}

// LeaveStartup removes the caller's membership
// @Summary Leave a startup
// @Description Removes the caller's own membership row. Founders cannot leave their startup.
// @Tags startups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Startup ID"
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse} "Left successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid startup ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Founder cannot leave or caller is not a member"
// @Failure 404 {object} dto.ErrorResponse "Startup not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /startups/{id}/members [delete]
func (c *StartupController) LeaveStartup(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}
	startupID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.startupService.LeaveStartup(ctx, userID, startupID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.MessageResponse{Message: "Left startup successfully"}))
}
