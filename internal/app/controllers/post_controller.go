package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuslink/backend/internal/app/models/dto"
	"github.com/campuslink/backend/internal/app/services"
	"github.com/campuslink/backend/internal/middleware"
)

// PostController handles community feed endpoints
type PostController struct {
	postService services.PostService
}

// NewPostController creates a new PostController
func NewPostController(postService services.PostService) *PostController {
	return &PostController{postService: postService}
}

// GetPosts lists a community's posts
// @Summary List community posts
// @Description Returns posts ascending by creation time with after/limit paging. Private communities return 404 to non-members.
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Param after query string false "Return posts created after this RFC3339 timestamp"
// @Param limit query int false "Maximum posts to return" default(50) minimum(1) maximum(200)
// @Success 200 {object} dto.APIResponse{data=dto.PostListResponse} "Posts retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 404 {object} dto.ErrorResponse "Community not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /communities/{id}/posts [get]
func (c *PostController) GetPosts(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}
	communityID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.GetPostsRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		middleware.RespondValidationError(ctx, err)
		return
	}

	resp, err := c.postService.GetPosts(ctx, userID, communityID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// CreatePost creates a post in a community
// @Summary Create a post
// @Description Creates a post as the caller and pushes it to the community's feed subscribers. Members only.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Param request body dto.CreatePostRequest true "Post content"
// @Success 201 {object} dto.APIResponse{data=dto.PostResponse} "Post created successfully"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Caller is not a member"
// @Failure 404 {object} dto.ErrorResponse "Community not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /communities/{id}/posts [post]
func (c *PostController) CreatePost(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}
	communityID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreatePostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondValidationError(ctx, err)
		return
	}

	resp, err := c.postService.CreatePost(ctx, userID, communityID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}
