package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/campuslink/backend/internal/app/auth"
	"github.com/campuslink/backend/internal/app/models"
	"github.com/campuslink/backend/internal/app/models/dto"
	"github.com/campuslink/backend/internal/app/repositories"
	"github.com/campuslink/backend/internal/pkg/apperrors"
	"github.com/campuslink/backend/internal/pkg/cache"
	"github.com/campuslink/backend/internal/pkg/helpers"
)

// founderRole is the membership role recorded for the founder at creation.
const founderRole = "Founder"

// startupStore is the startup persistence surface the service needs.
type startupStore interface {
	GetByID(ctx context.Context, id int64) (*models.Startup, error)
	Update(ctx context.Context, startup *models.Startup) error
	List(ctx context.Context, search, status *string, sort string, page, pageSize int) ([]*models.Startup, int64, error)
}

// startupMemberStore is the membership persistence surface the service needs.
type startupMemberStore interface {
	Add(ctx context.Context, startupID, userID int64, role string) (*models.StartupMember, error)
	Remove(ctx context.Context, startupID, userID int64) error
	CountsByStartupIDs(ctx context.Context, startupIDs []int64) (map[int64]int, error)
	ListByStartupID(ctx context.Context, startupID int64) ([]*models.StartupMember, error)
	ListStartupIDsByUser(ctx context.Context, userID int64) ([]int64, error)
}

// StartupService handles startup browsing, founding and membership
type StartupService interface {
	GetStartups(ctx context.Context, callerID int64, filter *dto.StartupFilterRequest) (*dto.StartupListResponse, error)
	CreateStartup(ctx context.Context, callerID int64, req *dto.CreateStartupRequest) (*dto.StartupResponse, error)
	GetStartupByID(ctx context.Context, callerID, startupID int64) (*dto.StartupDetailResponse, error)
	UpdateStartup(ctx context.Context, callerID, startupID int64, req *dto.UpdateStartupRequest) (*dto.StartupResponse, error)
	JoinStartup(ctx context.Context, callerID, startupID int64, role string) error
	LeaveStartup(ctx context.Context, callerID, startupID int64) error
}

type startupServiceImpl struct {
	startupRepo     startupStore
	memberRepo      startupMemberStore
	txManager       TxManager
	authzService    *auth.AuthorizationService
	membershipCache cache.MembershipCache
	logger          zerolog.Logger
}

// NewStartupService creates a new StartupService
func NewStartupService(
	startupRepo startupStore,
	memberRepo startupMemberStore,
	txManager TxManager,
	authzService *auth.AuthorizationService,
	membershipCache cache.MembershipCache,
	logger zerolog.Logger,
) StartupService {
	return &startupServiceImpl{
		startupRepo:     startupRepo,
		memberRepo:      memberRepo,
		txManager:       txManager,
		authzService:    authzService,
		membershipCache: membershipCache,
		logger:          logger,
	}
}

// GetStartups lists startups with search, status filter, sort and pagination
func (s *startupServiceImpl) GetStartups(ctx context.Context, callerID int64, filter *dto.StartupFilterRequest) (*dto.StartupListResponse, error) {
	startups, total, err := s.startupRepo.List(ctx, filter.Search, filter.Status, filter.Sort, filter.Page, filter.PageSize)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(startups))
	for i, st := range startups {
		ids[i] = st.ID
	}

	counts, err := s.memberRepo.CountsByStartupIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	// One id-set fetch instead of a membership query per listed row
	joined, err := s.memberRepo.ListStartupIDsByUser(ctx, callerID)
	if err != nil {
		return nil, err
	}
	joinedSet := make(map[int64]bool, len(joined))
	for _, id := range joined {
		joinedSet[id] = true
	}

	responses := make([]dto.StartupResponse, len(startups))
	for i, st := range startups {
		responses[i] = dto.ToStartupResponse(st, counts[st.ID], joinedSet[st.ID])
	}

	return &dto.StartupListResponse{
		Startups:   responses,
		Pagination: helpers.NewPaginationInfo(total, filter.Page, filter.PageSize),
	}, nil
}

// CreateStartup creates a startup founded by the caller. The founder's
// membership row is inserted in the same transaction.
func (s *startupServiceImpl) CreateStartup(ctx context.Context, callerID int64, req *dto.CreateStartupRequest) (*dto.StartupResponse, error) {
	status := models.StartupStatusIdea
	if req.Status != "" {
		status = models.StartupStatus(req.Status)
	}

	startup := &models.Startup{
		Name:        req.Name,
		Description: req.Description,
		LookingFor:  req.LookingFor,
		Status:      status,
		FounderID:   callerID,
	}

	err := s.txManager.Run(ctx, func(ctx context.Context, r *repositories.Repositories) error {
		if _, err := r.StartupRepository.Create(ctx, startup); err != nil {
			return err
		}
		_, err := r.StartupMemberRepository.Add(ctx, startup.ID, callerID, founderRole)
		return err
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("founderID", callerID).Msg("Failed to create startup")
		return nil, err
	}

	s.membershipCache.Invalidate(ctx, callerID, cache.KindStartup)
	s.logger.Info().Int64("startupID", startup.ID).Int64("founderID", callerID).Msg("Startup created")

	resp := dto.ToStartupResponse(startup, 1, true)
	return &resp, nil
}

// GetStartupByID returns startup details with its member list
func (s *startupServiceImpl) GetStartupByID(ctx context.Context, callerID, startupID int64) (*dto.StartupDetailResponse, error) {
	startup, err := s.startupRepo.GetByID(ctx, startupID)
	if err != nil {
		return nil, err
	}

	members, err := s.memberRepo.ListByStartupID(ctx, startupID)
	if err != nil {
		return nil, err
	}

	isMember := false
	memberResponses := make([]dto.StartupMemberResponse, len(members))
	for i, m := range members {
		if m.UserID == callerID {
			isMember = true
		}
		memberResponses[i] = dto.StartupMemberResponse{
			UserID:   m.UserID,
			Role:     m.Role,
			JoinedAt: m.JoinedAt,
		}
		if m.User != nil {
			memberResponses[i].DisplayName = m.User.FirstName + " " + m.User.LastName
		}
	}

	return &dto.StartupDetailResponse{
		StartupResponse: dto.ToStartupResponse(startup, len(members), isMember),
		Members:         memberResponses,
	}, nil
}

// UpdateStartup updates a startup, founder only
func (s *startupServiceImpl) UpdateStartup(ctx context.Context, callerID, startupID int64, req *dto.UpdateStartupRequest) (*dto.StartupResponse, error) {
	startup, err := s.startupRepo.GetByID(ctx, startupID)
	if err != nil {
		return nil, err
	}
	if err := s.authzService.ValidateStartupFounder(startup, callerID); err != nil {
		return nil, err
	}

	startup.Name = req.Name
	startup.Description = req.Description
	startup.LookingFor = req.LookingFor
	startup.Status = models.StartupStatus(req.Status)

	if err := s.startupRepo.Update(ctx, startup); err != nil {
		return nil, err
	}

	counts, err := s.memberRepo.CountsByStartupIDs(ctx, []int64{startupID})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("startupID", startupID).Msg("Startup updated")

	resp := dto.ToStartupResponse(startup, counts[startupID], true)
	return &resp, nil
}

// JoinStartup adds the caller with a self-described role
func (s *startupServiceImpl) JoinStartup(ctx context.Context, callerID, startupID int64, role string) error {
	if _, err := s.startupRepo.GetByID(ctx, startupID); err != nil {
		return err
	}

	if _, err := s.memberRepo.Add(ctx, startupID, callerID, role); err != nil {
		return err
	}

	s.membershipCache.Invalidate(ctx, callerID, cache.KindStartup)
	s.logger.Info().Int64("startupID", startupID).Int64("userID", callerID).Msg("User joined startup")
	return nil
}

// LeaveStartup removes the caller's own membership row. Founders cannot
// leave their startup.
func (s *startupServiceImpl) LeaveStartup(ctx context.Context, callerID, startupID int64) error {
	startup, err := s.startupRepo.GetByID(ctx, startupID)
	if err != nil {
		return err
	}

	if startup.FounderID == callerID {
		return apperrors.ErrFounderCannotLeave
	}

	if err := s.memberRepo.Remove(ctx, startupID, callerID); err != nil {
		return err
	}

	s.membershipCache.Invalidate(ctx, callerID, cache.KindStartup)
	s.logger.Info().Int64("startupID", startupID).Int64("userID", callerID).Msg("User left startup")
	return nil
}
