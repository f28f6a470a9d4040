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

// projectStore is the project persistence surface the service needs.
type projectStore interface {
	GetByID(ctx context.Context, id int64) (*models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	List(ctx context.Context, search, status *string, sort string, page, pageSize int) ([]*models.Project, int64, error)
}

// projectMemberStore is the membership persistence surface the service needs.
type projectMemberStore interface {
	Add(ctx context.Context, projectID, userID int64, role models.ProjectMemberRole) (*models.ProjectMember, error)
	Remove(ctx context.Context, projectID, userID int64) error
	CountsByProjectIDs(ctx context.Context, projectIDs []int64) (map[int64]int, error)
	ListByProjectID(ctx context.Context, projectID int64) ([]*models.ProjectMember, error)
	ListProjectIDsByUser(ctx context.Context, userID int64) ([]int64, error)
}

// ProjectService handles project browsing, hosting and membership
type ProjectService interface {
	GetProjects(ctx context.Context, callerID int64, filter *dto.ProjectFilterRequest) (*dto.ProjectListResponse, error)
	CreateProject(ctx context.Context, callerID int64, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error)
	GetProjectByID(ctx context.Context, callerID, projectID int64) (*dto.ProjectDetailResponse, error)
	UpdateProject(ctx context.Context, callerID, projectID int64, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error)
	JoinProject(ctx context.Context, callerID, projectID int64) error
	LeaveProject(ctx context.Context, callerID, projectID int64) error
}

type projectServiceImpl struct {
	projectRepo     projectStore
	memberRepo      projectMemberStore
	txManager       TxManager
	authzService    *auth.AuthorizationService
	membershipCache cache.MembershipCache
	logger          zerolog.Logger
}

// NewProjectService creates a new ProjectService
func NewProjectService(
	projectRepo projectStore,
	memberRepo projectMemberStore,
	txManager TxManager,
	authzService *auth.AuthorizationService,
	membershipCache cache.MembershipCache,
	logger zerolog.Logger,
) ProjectService {
	return &projectServiceImpl{
		projectRepo:     projectRepo,
		memberRepo:      memberRepo,
		txManager:       txManager,
		authzService:    authzService,
		membershipCache: membershipCache,
		logger:          logger,
	}
}

// GetProjects lists projects with search, status filter, sort and pagination
func (s *projectServiceImpl) GetProjects(ctx context.Context, callerID int64, filter *dto.ProjectFilterRequest) (*dto.ProjectListResponse, error) {
	projects, total, err := s.projectRepo.List(ctx, filter.Search, filter.Status, filter.Sort, filter.Page, filter.PageSize)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}

	counts, err := s.memberRepo.CountsByProjectIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	// One id-set fetch instead of a membership query per listed row
	joined, err := s.memberRepo.ListProjectIDsByUser(ctx, callerID)
	if err != nil {
		return nil, err
	}
	joinedSet := make(map[int64]bool, len(joined))
	for _, id := range joined {
		joinedSet[id] = true
	}

	responses := make([]dto.ProjectResponse, len(projects))
	for i, p := range projects {
		responses[i] = dto.ToProjectResponse(p, counts[p.ID], joinedSet[p.ID])
	}

	return &dto.ProjectListResponse{
		Projects:   responses,
		Pagination: helpers.NewPaginationInfo(total, filter.Page, filter.PageSize),
	}, nil
}

// CreateProject creates a project hosted by the caller. The HOST membership
// row is inserted in the same transaction.
func (s *projectServiceImpl) CreateProject(ctx context.Context, callerID int64, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	status := models.ProjectStatusOpen
	if req.Status != "" {
		status = models.ProjectStatus(req.Status)
	}

	project := &models.Project{
		Title:          req.Title,
		Description:    req.Description,
		RequiredSkills: req.RequiredSkills,
		Status:         status,
		HostID:         callerID,
	}

	err := s.txManager.Run(ctx, func(ctx context.Context, r *repositories.Repositories) error {
		if _, err := r.ProjectRepository.Create(ctx, project); err != nil {
			return err
		}
		_, err := r.ProjectMemberRepository.Add(ctx, project.ID, callerID, models.ProjectRoleHost)
		return err
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("hostID", callerID).Msg("Failed to create project")
		return nil, err
	}

	s.membershipCache.Invalidate(ctx, callerID, cache.KindProject)
	s.logger.Info().Int64("projectID", project.ID).Int64("hostID", callerID).Msg("Project created")

	resp := dto.ToProjectResponse(project, 1, true)
	return &resp, nil
}

// GetProjectByID returns project details with its member list
func (s *projectServiceImpl) GetProjectByID(ctx context.Context, callerID, projectID int64) (*dto.ProjectDetailResponse, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	members, err := s.memberRepo.ListByProjectID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	isMember := false
	memberResponses := make([]dto.ProjectMemberResponse, len(members))
	for i, m := range members {
		if m.UserID == callerID {
			isMember = true
		}
		memberResponses[i] = dto.ProjectMemberResponse{
			UserID:   m.UserID,
			Role:     string(m.Role),
			JoinedAt: m.JoinedAt,
		}
		if m.User != nil {
			memberResponses[i].DisplayName = m.User.FirstName + " " + m.User.LastName
		}
	}

	return &dto.ProjectDetailResponse{
		ProjectResponse: dto.ToProjectResponse(project, len(members), isMember),
		Members:         memberResponses,
	}, nil
}

// UpdateProject updates a project, host only
func (s *projectServiceImpl) UpdateProject(ctx context.Context, callerID, projectID int64, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.authzService.ValidateProjectHost(project, callerID); err != nil {
		return nil, err
	}

	project.Title = req.Title
	project.Description = req.Description
	project.RequiredSkills = req.RequiredSkills
	project.Status = models.ProjectStatus(req.Status)

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}

	counts, err := s.memberRepo.CountsByProjectIDs(ctx, []int64{projectID})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("projectID", projectID).Msg("Project updated")

	resp := dto.ToProjectResponse(project, counts[projectID], true)
	return &resp, nil
}

// JoinProject adds the caller as a PARTICIPANT
func (s *projectServiceImpl) JoinProject(ctx context.Context, callerID, projectID int64) error {
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		return err
	}

	if _, err := s.memberRepo.Add(ctx, projectID, callerID, models.ProjectRoleParticipant); err != nil {
		return err
	}

	s.membershipCache.Invalidate(ctx, callerID, cache.KindProject)
	s.logger.Info().Int64("projectID", projectID).Int64("userID", callerID).Msg("User joined project")
	return nil
}

// LeaveProject removes the caller's own membership row. Hosts cannot leave
// their project.
func (s *projectServiceImpl) LeaveProject(ctx context.Context, callerID, projectID int64) error {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return err
	}

	if project.HostID == callerID {
		return apperrors.ErrHostCannotLeave
	}

	if err := s.memberRepo.Remove(ctx, projectID, callerID); err != nil {
		return err
	}

	s.membershipCache.Invalidate(ctx, callerID, cache.KindProject)
	s.logger.Info().Int64("projectID", projectID).Int64("userID", callerID).Msg("User left project")
	return nil
}
