package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/campuslink/backend/internal/app/auth"
	"github.com/campuslink/backend/internal/app/models"
	"github.com/campuslink/backend/internal/app/models/dto"
	"github.com/campuslink/backend/internal/app/repositories"
	"github.com/campuslink/backend/internal/pkg/apperrors"
	"github.com/campuslink/backend/internal/pkg/cache"
	"github.com/campuslink/backend/internal/pkg/dberrors"
	"github.com/campuslink/backend/internal/pkg/helpers"
	"github.com/campuslink/backend/internal/pkg/invite"
)

// maxJoinCodeAttempts bounds invite code regeneration on unique index
// collisions. With a 31^8 code space hitting this is effectively impossible.
const maxJoinCodeAttempts = 5

// communityStore is the community persistence surface the service needs.
type communityStore interface {
	GetByID(ctx context.Context, id int64) (*models.Community, error)
	GetByJoinCode(ctx context.Context, joinCode string) (*models.Community, error)
	Update(ctx context.Context, community *models.Community) error
	List(ctx context.Context, viewerID int64, search, branch *string, page, pageSize int) ([]*models.Community, int64, error)
	ListJoinedByUser(ctx context.Context, userID int64) ([]*models.Community, error)
}

// communityMemberStore is the membership persistence surface the service needs.
type communityMemberStore interface {
	Add(ctx context.Context, communityID, userID int64) (*models.CommunityMember, error)
	Remove(ctx context.Context, communityID, userID int64) error
	IsMember(ctx context.Context, communityID, userID int64) (bool, error)
	CountByCommunityID(ctx context.Context, communityID int64) (int, error)
	CountsByCommunityIDs(ctx context.Context, communityIDs []int64) (map[int64]int, error)
	ListByCommunityID(ctx context.Context, communityID int64) ([]*models.CommunityMember, error)
	ListCommunityIDsByUser(ctx context.Context, userID int64) ([]int64, error)
}

// CommunityService handles community browsing, creation and membership
type CommunityService interface {
	GetCommunities(ctx context.Context, callerID int64, filter *dto.CommunityFilterRequest) (*dto.CommunityListResponse, error)
	GetJoinedCommunities(ctx context.Context, callerID int64) ([]dto.CommunityResponse, error)
	CreateCommunity(ctx context.Context, callerID int64, req *dto.CreateCommunityRequest) (*dto.CommunityResponse, error)
	GetCommunityByID(ctx context.Context, callerID, communityID int64) (*dto.CommunityDetailResponse, error)
	UpdateCommunity(ctx context.Context, callerID, communityID int64, req *dto.UpdateCommunityRequest) (*dto.CommunityResponse, error)
	JoinCommunity(ctx context.Context, callerID, communityID int64) error
	JoinByCode(ctx context.Context, callerID int64, joinCode string) (*dto.CommunityResponse, error)
	LeaveCommunity(ctx context.Context, callerID, communityID int64) error
	GetCommunityMembers(ctx context.Context, callerID, communityID int64) ([]dto.CommunityMemberResponse, error)
}

type communityServiceImpl struct {
	communityRepo   communityStore
	memberRepo      communityMemberStore
	txManager       TxManager
	authzService    *auth.AuthorizationService
	membershipCache cache.MembershipCache
	logger          zerolog.Logger
}

// NewCommunityService creates a new CommunityService
func NewCommunityService(
	communityRepo communityStore,
	memberRepo communityMemberStore,
	txManager TxManager,
	authzService *auth.AuthorizationService,
	membershipCache cache.MembershipCache,
	logger zerolog.Logger,
) CommunityService {
	return &communityServiceImpl{
		communityRepo:   communityRepo,
		memberRepo:      memberRepo,
		txManager:       txManager,
		authzService:    authzService,
		membershipCache: membershipCache,
		logger:          logger,
	}
}

// GetCommunities lists communities visible to the caller with search,
// branch filter and pagination
func (s *communityServiceImpl) GetCommunities(ctx context.Context, callerID int64, filter *dto.CommunityFilterRequest) (*dto.CommunityListResponse, error) {
	communities, total, err := s.communityRepo.List(ctx, callerID, filter.Search, filter.Branch, filter.Page, filter.PageSize)
	if err != nil {
		return nil, err
	}

	responses, err := s.buildResponses(ctx, communities, callerID)
	if err != nil {
		return nil, err
	}

	return &dto.CommunityListResponse{
		Communities: responses,
		Pagination:  helpers.NewPaginationInfo(total, filter.Page, filter.PageSize),
	}, nil
}

// GetJoinedCommunities lists the communities the caller belongs to
func (s *communityServiceImpl) GetJoinedCommunities(ctx context.Context, callerID int64) ([]dto.CommunityResponse, error) {
	communities, err := s.communityRepo.ListJoinedByUser(ctx, callerID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(communities))
	for i, c := range communities {
		ids[i] = c.ID
	}

	counts, err := s.memberRepo.CountsByCommunityIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CommunityResponse, len(communities))
	for i, c := range communities {
		responses[i] = dto.ToCommunityResponse(c, counts[c.ID], callerID, true)
	}

	return responses, nil
}

// CreateCommunity creates a community with a freshly generated invite code.
// The creator becomes owner and first member in the same transaction.
func (s *communityServiceImpl) CreateCommunity(ctx context.Context, callerID int64, req *dto.CreateCommunityRequest) (*dto.CommunityResponse, error) {
	community := &models.Community{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     callerID,
		IsPrivate:   req.IsPrivate,
		Branch:      req.Branch,
	}

	// Each attempt gets its own transaction. A unique violation aborts the
	// whole transaction, so re-issuing the insert inside it could only fail
	// with SQLSTATE 25P02.
	var lastErr error
	for attempt := 0; attempt < maxJoinCodeAttempts; attempt++ {
		code, err := invite.NewCode()
		if err != nil {
			return nil, err
		}
		community.JoinCode = code

		lastErr = s.txManager.Run(ctx, func(ctx context.Context, r *repositories.Repositories) error {
			if _, err := r.CommunityRepository.Create(ctx, community); err != nil {
				return err
			}
			_, err := r.CommunityMemberRepository.Add(ctx, community.ID, callerID)
			return err
		})
		if lastErr == nil {
			break
		}
		if !dberrors.IsDuplicateConstraintError(lastErr, repositories.JoinCodeConstraint) {
			s.logger.Error().Err(lastErr).Int64("ownerID", callerID).Msg("Failed to create community")
			return nil, lastErr
		}
		s.logger.Warn().Int("attempt", attempt+1).Msg("Join code collision, regenerating")
	}
	if lastErr != nil {
		s.logger.Error().Err(lastErr).Int64("ownerID", callerID).Msg("Failed to create community")
		return nil, fmt.Errorf("could not generate a unique join code: %w", lastErr)
	}

	s.membershipCache.Invalidate(ctx, callerID, cache.KindCommunity)
	s.logger.Info().Int64("communityID", community.ID).Int64("ownerID", callerID).Msg("Community created")

	resp := dto.ToCommunityResponse(community, 1, callerID, true)
	return &resp, nil
}

// GetCommunityByID returns community details with its member list.
// Private communities are hidden from non-members.
func (s *communityServiceImpl) GetCommunityByID(ctx context.Context, callerID, communityID int64) (*dto.CommunityDetailResponse, error) {
	community, err := s.authzService.ResolveViewableCommunity(ctx, communityID, callerID)
	if err != nil {
		return nil, err
	}

	count, err := s.memberRepo.CountByCommunityID(ctx, communityID)
	if err != nil {
		return nil, err
	}

	isMember, err := s.memberRepo.IsMember(ctx, communityID, callerID)
	if err != nil {
		return nil, err
	}

	members, err := s.memberRepo.ListByCommunityID(ctx, communityID)
	if err != nil {
		return nil, err
	}

	return &dto.CommunityDetailResponse{
		CommunityResponse: dto.ToCommunityResponse(community, count, callerID, isMember),
		Members:           toMemberResponses(members),
	}, nil
}

// UpdateCommunity updates a community, owner only
func (s *communityServiceImpl) UpdateCommunity(ctx context.Context, callerID, communityID int64, req *dto.UpdateCommunityRequest) (*dto.CommunityResponse, error) {
	community, err := s.authzService.ResolveViewableCommunity(ctx, communityID, callerID)
	if err != nil {
		return nil, err
	}
	if err := s.authzService.ValidateCommunityOwner(community, callerID); err != nil {
		return nil, err
	}

	community.Name = req.Name
	community.Description = req.Description
	community.IsPrivate = req.IsPrivate
	community.Branch = req.Branch

	if err := s.communityRepo.Update(ctx, community); err != nil {
		return nil, err
	}

	count, err := s.memberRepo.CountByCommunityID(ctx, communityID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("communityID", communityID).Msg("Community updated")

	resp := dto.ToCommunityResponse(community, count, callerID, true)
	return &resp, nil
}

// JoinCommunity joins a community directly. Private communities cannot be
// joined this way; they stay hidden and require the invite code.
func (s *communityServiceImpl) JoinCommunity(ctx context.Context, callerID, communityID int64) error {
	community, err := s.authzService.ResolveViewableCommunity(ctx, communityID, callerID)
	if err != nil {
		return err
	}

	// Visible private communities mean the caller is already in
	if community.IsPrivate && community.OwnerID != callerID {
		return apperrors.ErrAlreadyMember
	}

	if _, err := s.memberRepo.Add(ctx, communityID, callerID); err != nil {
		return err
	}

	s.membershipCache.Invalidate(ctx, callerID, cache.KindCommunity)
	s.logger.Info().Int64("communityID", communityID).Int64("userID", callerID).Msg("User joined community")
	return nil
}

// JoinByCode joins a community via its invite code, private included
func (s *communityServiceImpl) JoinByCode(ctx context.Context, callerID int64, joinCode string) (*dto.CommunityResponse, error) {
	community, err := s.communityRepo.GetByJoinCode(ctx, joinCode)
	if err != nil {
		return nil, err
	}

	if _, err := s.memberRepo.Add(ctx, community.ID, callerID); err != nil {
		return nil, err
	}

	s.membershipCache.Invalidate(ctx, callerID, cache.KindCommunity)
	s.logger.Info().Int64("communityID", community.ID).Int64("userID", callerID).Msg("User joined community by code")

	count, err := s.memberRepo.CountByCommunityID(ctx, community.ID)
	if err != nil {
		return nil, err
	}

	resp := dto.ToCommunityResponse(community, count, callerID, true)
	return &resp, nil
}

// LeaveCommunity removes the caller's own membership row. Owners cannot
// leave their community.
func (s *communityServiceImpl) LeaveCommunity(ctx context.Context, callerID, communityID int64) error {
	community, err := s.communityRepo.GetByID(ctx, communityID)
	if err != nil {
		return err
	}

	if community.OwnerID == callerID {
		return apperrors.ErrOwnerCannotLeave
	}

	if err := s.memberRepo.Remove(ctx, communityID, callerID); err != nil {
		return err
	}

	s.membershipCache.Invalidate(ctx, callerID, cache.KindCommunity)
	s.logger.Info().Int64("communityID", communityID).Int64("userID", callerID).Msg("User left community")
	return nil
}

// GetCommunityMembers lists a community's members. Private communities are
// hidden from non-members.
func (s *communityServiceImpl) GetCommunityMembers(ctx context.Context, callerID, communityID int64) ([]dto.CommunityMemberResponse, error) {
	if _, err := s.authzService.ResolveViewableCommunity(ctx, communityID, callerID); err != nil {
		return nil, err
	}

	members, err := s.memberRepo.ListByCommunityID(ctx, communityID)
	if err != nil {
		return nil, err
	}

	return toMemberResponses(members), nil
}

func (s *communityServiceImpl) buildResponses(ctx context.Context, communities []*models.Community, callerID int64) ([]dto.CommunityResponse, error) {
	ids := make([]int64, len(communities))
	for i, c := range communities {
		ids[i] = c.ID
	}

	counts, err := s.memberRepo.CountsByCommunityIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	joined, err := s.memberRepo.ListCommunityIDsByUser(ctx, callerID)
	if err != nil {
		return nil, err
	}
	joinedSet := make(map[int64]bool, len(joined))
	for _, id := range joined {
		joinedSet[id] = true
	}

	responses := make([]dto.CommunityResponse, len(communities))
	for i, c := range communities {
		responses[i] = dto.ToCommunityResponse(c, counts[c.ID], callerID, joinedSet[c.ID])
	}
	return responses, nil
}

func toMemberResponses(members []*models.CommunityMember) []dto.CommunityMemberResponse {
	responses := make([]dto.CommunityMemberResponse, len(members))
	for i, m := range members {
		responses[i] = dto.CommunityMemberResponse{
			UserID:   m.UserID,
			JoinedAt: m.JoinedAt,
		}
		if m.User != nil {
			responses[i].DisplayName = m.User.FirstName + " " + m.User.LastName
		}
	}
	return responses
}
