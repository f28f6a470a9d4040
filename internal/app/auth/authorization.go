package auth

import (
	"context"

	"github.com/campuslink/backend/internal/app/models"
	"github.com/campuslink/backend/internal/pkg/apperrors"
	"github.com/campuslink/backend/internal/pkg/logger"
)

// CommunityStore is the community lookup surface the authorization checks need.
type CommunityStore interface {
	GetByID(ctx context.Context, id int64) (*models.Community, error)
}

// CommunityMembershipStore answers membership questions for communities.
type CommunityMembershipStore interface {
	IsMember(ctx context.Context, communityID, userID int64) (bool, error)
}

// ProjectMembershipStore answers membership questions for projects.
type ProjectMembershipStore interface {
	IsMember(ctx context.Context, projectID, userID int64) (bool, error)
}

// StartupMembershipStore answers membership questions for startups.
type StartupMembershipStore interface {
	IsMember(ctx context.Context, startupID, userID int64) (bool, error)
}

// AuthorizationService handles access checks that cut across services.
// Private communities are hidden from non-members: visibility failures
// surface as not-found rather than forbidden so their existence does
// not leak.
type AuthorizationService struct {
	communityRepo       CommunityStore
	communityMemberRepo CommunityMembershipStore
	projectMemberRepo   ProjectMembershipStore
	startupMemberRepo   StartupMembershipStore
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(
	communityRepo CommunityStore,
	communityMemberRepo CommunityMembershipStore,
	projectMemberRepo ProjectMembershipStore,
	startupMemberRepo StartupMembershipStore,
) *AuthorizationService {
	return &AuthorizationService{
		communityRepo:       communityRepo,
		communityMemberRepo: communityMemberRepo,
		projectMemberRepo:   projectMemberRepo,
		startupMemberRepo:   startupMemberRepo,
	}
}

// CanViewCommunity checks whether a user may see a community at all.
// Public communities are visible to everyone; private ones only to the
// owner and members. Returns ErrCommunityNotFound for hidden communities.
func (s *AuthorizationService) CanViewCommunity(ctx context.Context, community *models.Community, userID int64) error {
	if !community.IsPrivate {
		return nil
	}
	if community.OwnerID == userID {
		return nil
	}

	isMember, err := s.communityMemberRepo.IsMember(ctx, community.ID, userID)
	if err != nil {
		logger.Error().Err(err).Int64("communityID", community.ID).Int64("userID", userID).Msg("Error checking community membership")
		return err
	}
	if !isMember {
		return apperrors.ErrCommunityNotFound
	}
	return nil
}

// ResolveViewableCommunity fetches a community and applies the visibility
// check in one step.
func (s *AuthorizationService) ResolveViewableCommunity(ctx context.Context, communityID, userID int64) (*models.Community, error) {
	community, err := s.communityRepo.GetByID(ctx, communityID)
	if err != nil {
		return nil, err
	}
	if err := s.CanViewCommunity(ctx, community, userID); err != nil {
		return nil, err
	}
	return community, nil
}

// ValidateCommunityOwner ensures the user owns the community
func (s *AuthorizationService) ValidateCommunityOwner(community *models.Community, userID int64) error {
	if community.OwnerID != userID {
		return apperrors.ErrPermissionDenied
	}
	return nil
}

// ValidateCommunityMember ensures the user belongs to the community
func (s *AuthorizationService) ValidateCommunityMember(ctx context.Context, communityID, userID int64) error {
	isMember, err := s.communityMemberRepo.IsMember(ctx, communityID, userID)
	if err != nil {
		logger.Error().Err(err).Int64("communityID", communityID).Int64("userID", userID).Msg("Error checking community membership")
		return err
	}
	if !isMember {
		return apperrors.ErrNotMember
	}
	return nil
}

// ValidateProjectHost ensures the user hosts the project
func (s *AuthorizationService) ValidateProjectHost(project *models.Project, userID int64) error {
	if project.HostID != userID {
		return apperrors.ErrPermissionDenied
	}
	return nil
}

// ValidateStartupFounder ensures the user founded the startup
func (s *AuthorizationService) ValidateStartupFounder(startup *models.Startup, userID int64) error {
	if startup.FounderID != userID {
		return apperrors.ErrPermissionDenied
	}
	return nil
}
