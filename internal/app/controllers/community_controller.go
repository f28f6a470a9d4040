package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuslink/backend/internal/app/models/dto"
	"github.com/campuslink/backend/internal/app/services"
	"github.com/campuslink/backend/internal/middleware"
)

// CommunityController handles community endpoints
type CommunityController struct {
	communityService services.CommunityService
}

// NewCommunityController creates a new CommunityController
func NewCommunityController(communityService services.CommunityService) *CommunityController {
	return &CommunityController{communityService: communityService}
}

// GetCommunities lists communities visible to the caller
// @Summary List communities
// @Description Lists public communities plus the caller's private ones, with search, branch filter and pagination
// @Tags communities
// @Produce json
// @Security BearerAuth
// @Param search query string false "Search by name or description"
// @Param branch query string false "Filter by branch"
// @Param page query int false "Page number (1-based)" default(1) minimum(1)
// @Param pageSize query int false "Page size" default(10) minimum(1) maximum(100)
// @Success 200 {object} dto.APIResponse{data=dto.CommunityListResponse} "Communities retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /communities [get]
func (c *CommunityController) GetCommunities(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}

	var filter dto.CommunityFilterRequest
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		middleware.RespondValidationError(ctx, err)
		return
	}

	resp, err := c.communityService.GetCommunities(ctx, userID, &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetJoinedCommunities lists the caller's communities
// @Summary List joined communities
// @Description Lists the communities the caller belongs to
// @Tags communities
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.CommunityResponse} "Communities retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /communities/joined [get]
func (c *CommunityController) GetJoinedCommunities(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}

	resp, err := c.communityService.GetJoinedCommunities(ctx, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// CreateCommunity creates a community owned by the caller
// @Summary Create a community
// @Description Creates a community with a generated invite code. The creator becomes owner and first member.
// @Tags communities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCommunityRequest true "Community data"
// @Success 201 {object} dto.APIResponse{data=dto.CommunityResponse} "Community created successfully"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /communities [post]
func (c *CommunityController) CreateCommunity(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}

	var req dto.CreateCommunityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondValidationError(ctx, err)
		return
	}

	resp, err := c.communityService.CreateCommunity(ctx, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// GetCommunityByID returns community details
// @Summary Get community by ID
// @Description Returns community details with members. Private communities return 404 to non-members.
// @Tags communities
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Success 200 {object} dto.APIResponse{data=dto.CommunityDetailResponse} "Community retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid community ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 404 {object} dto.ErrorResponse "Community not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /communities/{id} [get]
func (c *CommunityController) GetCommunityByID(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}
	communityID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.communityService.GetCommunityByID(ctx, userID, communityID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// UpdateCommunity updates a community, owner only
// @Summary Update a community
// @Description Updates community fields. Only the owner can update a community.
// @Tags communities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Param request body dto.UpdateCommunityRequest true "Community data"
// @Success 200 {object} dto.APIResponse{data=dto.CommunityResponse} "Community updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Caller is not the owner"
// @Failure 404 {object} dto.ErrorResponse "Community not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /communities/{id} [put]
func (c *CommunityController) UpdateCommunity(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}
	communityID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateCommunityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondValidationError(ctx, err)
		return
	}

	resp, err := c.communityService.UpdateCommunity(ctx, userID, communityID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// JoinCommunity joins a public community directly
// @Summary Join a community
// @Description Adds the caller as a member. Private communities require the invite code instead.
// @Tags communities
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse} "Joined successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid community ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 404 {object} dto.ErrorResponse "Community not found"
// @Failure 409 {object} dto.ErrorResponse "Already a member"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /communities/{id}/members [post]
func (c *CommunityController) JoinCommunity(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}
	communityID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.communityService.JoinCommunity(ctx, userID, communityID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.MessageResponse{Message: "Joined community successfully"}))
}

// JoinByCode joins a community via its invite code
// @Summary Join a community by invite code
// @Description Adds the caller as a member of the community the code belongs to, private communities included
// @Tags communities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.JoinByCodeRequest true "Invite code"
// @Success 200 {object} dto.APIResponse{data=dto.CommunityResponse} "Joined successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid join code"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 409 {object} dto.ErrorResponse "Already a member"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /communities/join [post]
func (c *CommunityController) JoinByCode(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}

	var req dto.JoinByCodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondValidationError(ctx, err)
		return
	}

	resp, err := c.communityService.JoinByCode(ctx, userID, req.JoinCode)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// LeaveCommunity removes the caller's membership
// @Summary Leave a community
// @Description Removes the caller's own membership row. Owners cannot leave their community.
// @Tags communities
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse} "Left successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid community ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Owner cannot leave or caller is not a member"
// @Failure 404 {object} dto.ErrorResponse "Community not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /communities/{id}/members [delete]
func (c *CommunityController) LeaveCommunity(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}
	communityID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.communityService.LeaveCommunity(ctx, userID, communityID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.MessageResponse{Message: "Left community successfully"}))
}

// GetCommunityMembers lists a community's members
// @Summary List community members
// @Description Lists the members of a community. Private communities return 404 to non-members.
// @Tags communities
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.CommunityMemberResponse} "Members retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid community ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 404 {object} dto.ErrorResponse "Community not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /communities/{id}/members [get]
func (c *CommunityController) GetCommunityMembers(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}
	communityID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.communityService.GetCommunityMembers(ctx, userID, communityID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
