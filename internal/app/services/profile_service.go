package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/campuslink/backend/internal/app/models"
	"github.com/campuslink/backend/internal/app/models/dto"
)

// userReader looks up user rows for profile assembly.
type userReader interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// profileStore is the profile persistence surface the service needs.
type profileStore interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
}

// ProfileService handles profile reads and owner-only updates
type ProfileService interface {
	GetOwnProfile(ctx context.Context, userID int64) (*dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
	GetPublicProfile(ctx context.Context, targetUserID int64) (*dto.PublicProfileResponse, error)
}

type profileServiceImpl struct {
	userRepo    userReader
	profileRepo profileStore
	logger      zerolog.Logger
}

// NewProfileService creates a new ProfileService
func NewProfileService(userRepo userReader, profileRepo profileStore, logger zerolog.Logger) ProfileService {
	return &profileServiceImpl{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// GetOwnProfile returns the caller's full profile
func (s *profileServiceImpl) GetOwnProfile(ctx context.Context, userID int64) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := dto.ToProfileResponse(user, profile)
	return &resp, nil
}

// UpdateProfile updates the caller's own profile. The user id comes from
// the token claims, so ownership is implicit.
func (s *profileServiceImpl) UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile.DisplayName = req.DisplayName
	profile.ContactEmail = req.ContactEmail
	profile.Branch = req.Branch
	profile.College = req.College
	profile.GraduationYear = req.GraduationYear

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", userID).Msg("Profile updated")

	resp := dto.ToProfileResponse(user, profile)
	return &resp, nil
}

// GetPublicProfile returns the fields any authenticated user may see
func (s *profileServiceImpl) GetPublicProfile(ctx context.Context, targetUserID int64) (*dto.PublicProfileResponse, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, targetUserID)
	if err != nil {
		return nil, err
	}

	resp := dto.ToPublicProfileResponse(profile)
	return &resp, nil
}
