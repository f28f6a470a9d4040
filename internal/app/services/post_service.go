package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/campuslink/backend/internal/app/auth"
	"github.com/campuslink/backend/internal/app/models"
	"github.com/campuslink/backend/internal/app/models/dto"
)

// postStore is the post persistence surface the service needs.
type postStore interface {
	Create(ctx context.Context, post *models.Post) (int64, error)
	ListByCommunity(ctx context.Context, communityID int64, after *time.Time, limit int) ([]*models.Post, error)
}

// contributionCounter bumps a user's contribution counter.
type contributionCounter interface {
	IncrementContributionCount(ctx context.Context, userID int64) error
}

// postBroadcaster pushes created posts to feed subscribers.
type postBroadcaster interface {
	BroadcastPost(post *dto.PostResponse)
}

// PostService handles community feed reads, writes and realtime push
type PostService interface {
	GetPosts(ctx context.Context, callerID, communityID int64, req *dto.GetPostsRequest) (*dto.PostListResponse, error)
	CreatePost(ctx context.Context, callerID, communityID int64, req *dto.CreatePostRequest) (*dto.PostResponse, error)
}

type postServiceImpl struct {
	postRepo     postStore
	userRepo     userReader
	profileRepo  contributionCounter
	authzService *auth.AuthorizationService
	broadcaster  postBroadcaster
	logger       zerolog.Logger
}

// NewPostService creates a new PostService
func NewPostService(
	postRepo postStore,
	userRepo userReader,
	profileRepo contributionCounter,
	authzService *auth.AuthorizationService,
	broadcaster postBroadcaster,
	logger zerolog.Logger,
) PostService {
	return &postServiceImpl{
		postRepo:     postRepo,
		userRepo:     userRepo,
		profileRepo:  profileRepo,
		authzService: authzService,
		broadcaster:  broadcaster,
		logger:       logger,
	}
}

// GetPosts returns a community's posts ascending by creation time.
// Private communities are hidden from non-members.
func (s *postServiceImpl) GetPosts(ctx context.Context, callerID, communityID int64, req *dto.GetPostsRequest) (*dto.PostListResponse, error) {
	if _, err := s.authzService.ResolveViewableCommunity(ctx, communityID, callerID); err != nil {
		return nil, err
	}

	posts, err := s.postRepo.ListByCommunity(ctx, communityID, req.After, req.Limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.PostResponse, len(posts))
	for i, post := range posts {
		responses[i] = dto.ToPostResponse(post)
	}

	return &dto.PostListResponse{Posts: responses}, nil
}

// CreatePost creates a post as the caller, pushes it to the community's
// feed subscribers and bumps the author's contribution counter.
func (s *postServiceImpl) CreatePost(ctx context.Context, callerID, communityID int64, req *dto.CreatePostRequest) (*dto.PostResponse, error) {
	if _, err := s.authzService.ResolveViewableCommunity(ctx, communityID, callerID); err != nil {
		return nil, err
	}
	if err := s.authzService.ValidateCommunityMember(ctx, communityID, callerID); err != nil {
		return nil, err
	}

	author, err := s.userRepo.FindByID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		CommunityID: communityID,
		AuthorID:    callerID,
		Content:     req.Content,
		Author:      author,
	}

	if _, err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	if err := s.profileRepo.IncrementContributionCount(ctx, callerID); err != nil {
		// The post exists either way; the counter is best effort
		s.logger.Warn().Err(err).Int64("userID", callerID).Msg("Failed to bump contribution count")
	}

	resp := dto.ToPostResponse(post)
	s.broadcaster.BroadcastPost(&resp)

	s.logger.Info().Int64("postID", post.ID).Int64("communityID", communityID).Int64("authorID", callerID).Msg("Post created")

	return &resp, nil
}
