package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/campuslink/backend/internal/app/models/dto"
	"github.com/campuslink/backend/internal/pkg/cache"
)

// communityIDLister returns the community ids a user belongs to.
type communityIDLister interface {
	ListCommunityIDsByUser(ctx context.Context, userID int64) ([]int64, error)
}

// projectIDLister returns the project ids a user belongs to.
type projectIDLister interface {
	ListProjectIDsByUser(ctx context.Context, userID int64) ([]int64, error)
}

// startupIDLister returns the startup ids a user belongs to.
type startupIDLister interface {
	ListStartupIDsByUser(ctx context.Context, userID int64) ([]int64, error)
}

// MembershipService serves the caller's membership id sets, cache first.
// Join and leave operations in the other services invalidate the cache, so
// a hit is never staler than the last membership change.
type MembershipService interface {
	GetMyMemberships(ctx context.Context, userID int64) (*dto.MyMembershipsResponse, error)
}

type membershipServiceImpl struct {
	communities     communityIDLister
	projects        projectIDLister
	startups        startupIDLister
	membershipCache cache.MembershipCache
	logger          zerolog.Logger
}

// NewMembershipService creates a new MembershipService
func NewMembershipService(
	communities communityIDLister,
	projects projectIDLister,
	startups startupIDLister,
	membershipCache cache.MembershipCache,
	logger zerolog.Logger,
) MembershipService {
	return &membershipServiceImpl{
		communities:     communities,
		projects:        projects,
		startups:        startups,
		membershipCache: membershipCache,
		logger:          logger,
	}
}

// GetMyMemberships returns the caller's community, project and startup id sets
func (s *membershipServiceImpl) GetMyMemberships(ctx context.Context, userID int64) (*dto.MyMembershipsResponse, error) {
	communityIDs, err := s.idSet(ctx, userID, cache.KindCommunity, s.communities.ListCommunityIDsByUser)
	if err != nil {
		return nil, err
	}

	projectIDs, err := s.idSet(ctx, userID, cache.KindProject, s.projects.ListProjectIDsByUser)
	if err != nil {
		return nil, err
	}

	startupIDs, err := s.idSet(ctx, userID, cache.KindStartup, s.startups.ListStartupIDsByUser)
	if err != nil {
		return nil, err
	}

	return &dto.MyMembershipsResponse{
		CommunityIDs: communityIDs,
		ProjectIDs:   projectIDs,
		StartupIDs:   startupIDs,
	}, nil
}

func (s *membershipServiceImpl) idSet(ctx context.Context, userID int64, kind cache.MembershipKind, load func(context.Context, int64) ([]int64, error)) ([]int64, error) {
	if ids, ok := s.membershipCache.Get(ctx, userID, kind); ok {
		return ids, nil
	}

	ids, err := load(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.membershipCache.Set(ctx, userID, kind, ids)
	return ids, nil
}
