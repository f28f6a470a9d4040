// Package seed creates the default per-branch communities new users are
// auto-joined into at registration.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/campuslink/backend/internal/app/models"
	appRepos "github.com/campuslink/backend/internal/app/repositories"
	"github.com/campuslink/backend/internal/pkg/apperrors"
	"github.com/campuslink/backend/internal/pkg/auth"
	"github.com/campuslink/backend/internal/pkg/invite"
)

const systemEmail = "system@campuslink.app"

// defaultBranches maps a branch label to the default community seeded for it.
var defaultBranches = map[string]string{
	"Computer Science":       "CS Commons",
	"Electronics":            "Electronics Hub",
	"Mechanical Engineering": "Mech Garage",
	"Civil Engineering":      "Civil Corner",
	"Business":               "Business Lounge",
}

// CreateDefaultData creates the system user and the default branch
// communities if they don't exist yet.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)
	communityRepo := appRepos.NewCommunityRepository(dbPool)
	memberRepo := appRepos.NewCommunityMemberRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data (system user, branch communities)...")

	systemID, err := ensureSystemUser(ctx, userRepo)
	if err != nil {
		return err
	}

	var finalErr error
	for branch, name := range defaultBranches {
		exists, err := communityRepo.ListDefaultsByBranch(ctx, branch)
		if err != nil {
			lgr.Error().Err(err).Str("branch", branch).Msg("Error checking default community")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		if len(exists) > 0 {
			continue
		}

		joinCode, err := invite.NewCode()
		if err != nil {
			lgr.Error().Err(err).Str("branch", branch).Msg("Error generating join code")
			finalErr = errors.Join(finalErr, err)
			continue
		}

		b := branch
		community := &appModels.Community{
			Name:        name,
			Description: fmt.Sprintf("Default community for %s students", branch),
			OwnerID:     systemID,
			IsPrivate:   false,
			IsDefault:   true,
			Branch:      &b,
			JoinCode:    joinCode,
		}

		communityID, err := communityRepo.Create(ctx, community)
		if err != nil {
			lgr.Error().Err(err).Str("branch", branch).Msg("Error creating default community")
			finalErr = errors.Join(finalErr, err)
			continue
		}

		if _, err := memberRepo.Add(ctx, communityID, systemID); err != nil && !errors.Is(err, apperrors.ErrAlreadyMember) {
			lgr.Error().Err(err).Str("branch", branch).Msg("Error adding system user to default community")
			finalErr = errors.Join(finalErr, err)
		}

		lgr.Info().Str("branch", branch).Str("name", name).Msg("Default community created")
	}

	return finalErr
}

// ensureSystemUser returns the id of the inactive system account that owns
// the default communities, creating it on first run.
func ensureSystemUser(ctx context.Context, userRepo *appRepos.UserRepository) (int64, error) {
	existing, err := userRepo.FindByEmail(ctx, systemEmail)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return 0, err
	}

	// The password is random and never revealed, the account stays inactive
	// so it can't be logged into.
	hashed, err := auth.HashPassword(uuid.NewString())
	if err != nil {
		return 0, err
	}

	user := &appModels.User{
		Email:     systemEmail,
		Password:  hashed,
		FirstName: "CampusLink",
		LastName:  "System",
		IsActive:  false,
	}

	id, err := userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			// Raced with another instance starting up
			existing, ferr := userRepo.FindByEmail(ctx, systemEmail)
			if ferr != nil {
				return 0, ferr
			}
			return existing.ID, nil
		}
		return 0, err
	}

	return id, nil
}
