package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/campuslink/backend/internal/app/models"
	"github.com/campuslink/backend/internal/app/models/dto"
	"github.com/campuslink/backend/internal/app/repositories"
	"github.com/campuslink/backend/internal/pkg/apperrors"
	"github.com/campuslink/backend/internal/pkg/auth"
)

// accountStore is the user persistence surface the service needs outside
// the registration transaction.
type accountStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
}

// profileReader loads the profile returned alongside the tokens.
type profileReader interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Profile, error)
}

// refreshTokenStore is the refresh token persistence surface.
type refreshTokenStore interface {
	Save(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	Find(ctx context.Context, token string) (*repositories.RefreshToken, error)
	Revoke(ctx context.Context, token string) error
}

// AuthService handles registration, login and refresh token lifecycle
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}

type authServiceImpl struct {
	userRepo    accountStore
	profileRepo profileReader
	tokenRepo   refreshTokenStore
	txManager   TxManager
	jwtService  *auth.JWTService
	logger      zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo accountStore,
	profileRepo profileReader,
	tokenRepo refreshTokenStore,
	txManager TxManager,
	jwtService *auth.JWTService,
	logger zerolog.Logger,
) AuthService {
	return &authServiceImpl{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		tokenRepo:   tokenRepo,
		txManager:   txManager,
		jwtService:  jwtService,
		logger:      logger,
	}
}

// Register creates the user, their profile and their default-community
// memberships in one transaction, then issues a token pair.
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		return nil, err
	}

	user := &models.User{
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Password:  hashed,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsActive:  true,
	}

	profile := &models.Profile{
		DisplayName:    req.FirstName + " " + req.LastName,
		Branch:         req.Branch,
		College:        req.College,
		GraduationYear: req.GraduationYear,
	}

	err = s.txManager.Run(ctx, func(ctx context.Context, r *repositories.Repositories) error {
		if _, err := r.UserRepository.Create(ctx, user); err != nil {
			return err
		}

		profile.UserID = user.ID
		if err := r.ProfileRepository.Create(ctx, profile); err != nil {
			return err
		}

		// Branch match is case-insensitive; a branch with no default
		// communities is not an error.
		defaults, err := r.CommunityRepository.ListDefaultsByBranch(ctx, req.Branch)
		if err != nil {
			return err
		}
		for _, community := range defaults {
			if _, err := r.CommunityMemberRepository.Add(ctx, community.ID, user.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		s.logger.Error().Err(err).Str("email", user.Email).Msg("Registration transaction failed")
		return nil, err
	}

	s.logger.Info().Int64("userID", user.ID).Str("branch", req.Branch).Msg("User registered")

	return s.buildAuthResponse(ctx, user, profile)
}

// Login verifies credentials and issues a token pair
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, time.Now()); err != nil {
		// Login still succeeds; the timestamp is informational
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to update last login")
	}

	profile, err := s.profileRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return s.buildAuthResponse(ctx, user, profile)
}

// RefreshToken rotates a refresh token and issues a new pair
func (s *authServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	stored, err := s.tokenRepo.Find(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	if stored.Revoked {
		return nil, apperrors.ErrTokenRevoked
	}
	if time.Now().After(stored.ExpiresAt) {
		return nil, apperrors.ErrTokenExpired
	}

	user, err := s.userRepo.FindByID(ctx, stored.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if err := s.tokenRepo.Revoke(ctx, refreshToken); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

// Logout revokes a refresh token
func (s *authServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if err := s.tokenRepo.Revoke(ctx, refreshToken); err != nil {
		return err
	}

	s.logger.Info().Msg("Refresh token revoked")
	return nil
}

func (s *authServiceImpl) issueTokens(ctx context.Context, user *models.User) (*dto.TokenResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		s.logger.Error().Err(err).Int64("userID", user.ID).Msg("Failed to generate token pair")
		return nil, err
	}

	if err := s.tokenRepo.Save(ctx, user.ID, refreshToken, s.jwtService.GetRefreshTokenExpiry()); err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:           accessToken,
		TokenType:             "Bearer",
		ExpiresIn:             expiresIn,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresIn: refreshExpiresIn,
	}, nil
}

func (s *authServiceImpl) buildAuthResponse(ctx context.Context, user *models.User, profile *models.Profile) (*dto.AuthResponse, error) {
	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token: *tokens,
		User:  dto.ToProfileResponse(user, profile),
	}, nil
}
