package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuslink/backend/internal/app/models/dto"
	"github.com/campuslink/backend/internal/app/services"
	"github.com/campuslink/backend/internal/middleware"
)

// MembershipController serves the caller's membership id sets
type MembershipController struct {
	membershipService services.MembershipService
}

// NewMembershipController creates a new MembershipController
func NewMembershipController(membershipService services.MembershipService) *MembershipController {
	return &MembershipController{membershipService: membershipService}
}

// GetMyMemberships returns the caller's membership id sets
// @Summary Get own memberships
// @Description Returns the caller's community, project and startup id sets. Served from cache when fresh.
// @Tags memberships
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.MyMembershipsResponse} "Memberships retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /me/memberships [get]
func (c *MembershipController) GetMyMemberships(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}

	resp, err := c.membershipService.GetMyMemberships(ctx, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
