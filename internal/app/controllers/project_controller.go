package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuslink/backend/internal/app/models/dto"
	"github.com/campuslink/backend/internal/app/services"
	"github.com/campuslink/backend/internal/middleware"
)

// ProjectController handles project endpoints
type ProjectController struct {
	projectService services.ProjectService
}

// NewProjectController creates a new ProjectController
func NewProjectController(projectService services.ProjectService) *ProjectController {
	return &ProjectController{projectService: projectService}
}

// GetProjects lists projects
// @Summary List projects
// @Description Lists projects with text search, status filter, sort and pagination
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param search query string false "Search by title or description"
// @Param status query string false "Filter by status" Enums(OPEN, IN_PROGRESS, COMPLETED)
// @Param sort query string false "Sort order" Enums(newest, oldest) default(newest)
// @Param page query int false "Page number (1-based)" default(1) minimum(1)
// @Param pageSize query int false "Page size" default(10) minimum(1) maximum(100)
// @Success 200 {object} dto.APIResponse{data=dto.ProjectListResponse} "Projects retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /projects [get]
func (c *ProjectController) GetProjects(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}

	var filter dto.ProjectFilterRequest
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		middleware.RespondValidationError(ctx, err)
		return
	}

	resp, err := c.projectService.GetProjects(ctx, userID, &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// CreateProject creates a project hosted by the caller
// @Summary Create a project
// @Description Creates a project with the caller as host and first member
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateProjectRequest true "Project data"
// @Success 201 {object} dto.APIResponse{data=dto.ProjectResponse} "Project created successfully"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /projects [post]
func (c *ProjectController) CreateProject(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}

	var req dto.CreateProjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondValidationError(ctx, err)
		return
	}

	resp, err := c.projectService.CreateProject(ctx, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// GetProjectByID returns project details
// @Summary Get project by ID
// @Description Returns project details with its member list
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {object} dto.APIResponse{data=dto.ProjectDetailResponse} "Project retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid project ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /projects/{id} [get]
func (c *ProjectController) GetProjectByID(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.projectService.GetProjectByID(ctx, userID, projectID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// UpdateProject updates a project, host only
// @Summary Update a project
// @Description Updates project fields. Only the host can update a project.
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Param request body dto.UpdateProjectRequest true "Project data"
// @Success 200 {object} dto.APIResponse{data=dto.ProjectResponse} "Project updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Caller is not the host"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /projects/{id} [put]
func (c *ProjectController) UpdateProject(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateProjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondValidationError(ctx, err)
		return
	}

	resp, err := c.projectService.UpdateProject(ctx, userID, projectID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// JoinProject joins a project as participant
// @Summary Join a project
// @Description Adds the caller as a PARTICIPANT member
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse} "Joined successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid project ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Failure 409 {object} dto.ErrorResponse "Already a member"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /projects/{id}/members [post]
func (c *ProjectController) JoinProject(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.projectService.JoinProject(ctx, userID, projectID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.MessageResponse{Message: "Joined project successfully"}))
}

// LeaveProject removes the caller's membership
// @Summary Leave a project
// @Description Removes the caller's own membership row. Hosts cannot leave their project.
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse} "Left successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid project ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Host cannot leave or caller is not a member"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /projects/{id}/members [delete]
func (c *ProjectController) LeaveProject(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.projectService.LeaveProject(ctx, userID, projectID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.MessageResponse{Message: "Left project successfully"}))
}
