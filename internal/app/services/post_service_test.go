package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/campuslink/backend/internal/app/auth"
	"github.com/campuslink/backend/internal/app/models"
	"github.com/campuslink/backend/internal/app/models/dto"
	"github.com/campuslink/backend/internal/pkg/apperrors"
)

type fakePostRepo struct {
	posts  []*models.Post
	nextID int64
}

func (f *fakePostRepo) Create(_ context.Context, post *models.Post) (int64, error) {
	f.nextID++
	post.ID = f.nextID
	post.CreatedAt = time.Now()
	f.posts = append(f.posts, post)
	return post.ID, nil
}

func (f *fakePostRepo) ListByCommunity(_ context.Context, communityID int64, _ *time.Time, _ int) ([]*models.Post, error) {
	var out []*models.Post
	for _, p := range f.posts {
		if p.CommunityID == communityID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[int64]*models.User
}

func (f *fakeUserRepo) FindByID(_ context.Context, id int64) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

type fakeContributionCounter struct {
	bumped []int64
	err    error
}

func (f *fakeContributionCounter) IncrementContributionCount(_ context.Context, userID int64) error {
	if f.err != nil {
		return f.err
	}
	f.bumped = append(f.bumped, userID)
	return nil
}

type fakeBroadcaster struct {
	events []*dto.PostResponse
}

func (f *fakeBroadcaster) BroadcastPost(post *dto.PostResponse) {
	f.events = append(f.events, post)
}

type postFixture struct {
	postRepo    *fakePostRepo
	memberRepo  *fakeCommunityMemberRepo
	counter     *fakeContributionCounter
	broadcaster *fakeBroadcaster
	service     PostService
}

func newPostFixture(community *models.Community) *postFixture {
	communityRepo := &fakeCommunityRepo{communities: map[int64]*models.Community{community.ID: community}}
	memberRepo := newFakeCommunityMemberRepo()
	authz := auth.NewAuthorizationService(communityRepo, memberRepo, nil, nil)

	userRepo := &fakeUserRepo{users: map[int64]*models.User{
		20: {ID: 20, FirstName: "Asha", LastName: "Patel"},
	}}
	postRepo := &fakePostRepo{}
	counter := &fakeContributionCounter{}
	broadcaster := &fakeBroadcaster{}

	return &postFixture{
		postRepo:    postRepo,
		memberRepo:  memberRepo,
		counter:     counter,
		broadcaster: broadcaster,
		service:     NewPostService(postRepo, userRepo, counter, authz, broadcaster, zerolog.Nop()),
	}
}

func TestCreatePost_MemberOnly(t *testing.T) {
	fix := newPostFixture(&models.Community{ID: 1, OwnerID: 10})

	_, err := fix.service.CreatePost(context.Background(), 20, 1, &dto.CreatePostRequest{Content: "hi"})
	if !errors.Is(err, apperrors.ErrNotMember) {
		t.Fatalf("CreatePost() as non-member error = %v, want ErrNotMember", err)
	}
	if len(fix.broadcaster.events) != 0 {
		t.Error("a rejected post was broadcast")
	}
}

func TestCreatePost_BroadcastsAndBumpsCounter(t *testing.T) {
	fix := newPostFixture(&models.Community{ID: 1, OwnerID: 10})
	fix.memberRepo.members[memberKey{1, 20}] = true

	resp, err := fix.service.CreatePost(context.Background(), 20, 1, &dto.CreatePostRequest{Content: "hello feed"})
	if err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}
	if resp.Content != "hello feed" {
		t.Errorf("resp.Content = %q, want %q", resp.Content, "hello feed")
	}
	if resp.AuthorID != 20 {
		t.Errorf("resp.AuthorID = %d, want 20", resp.AuthorID)
	}

	if len(fix.broadcaster.events) != 1 {
		t.Fatalf("broadcast events = %d, want 1", len(fix.broadcaster.events))
	}
	if fix.broadcaster.events[0].ID != resp.ID {
		t.Errorf("broadcast post ID = %d, want %d", fix.broadcaster.events[0].ID, resp.ID)
	}

	if len(fix.counter.bumped) != 1 || fix.counter.bumped[0] != 20 {
		t.Errorf("contribution bumps = %v, want [20]", fix.counter.bumped)
	}
}

func TestCreatePost_CounterFailureIsNotFatal(t *testing.T) {
	fix := newPostFixture(&models.Community{ID: 1, OwnerID: 10})
	fix.memberRepo.members[memberKey{1, 20}] = true
	fix.counter.err = errors.New("profiles table on fire")

	resp, err := fix.service.CreatePost(context.Background(), 20, 1, &dto.CreatePostRequest{Content: "still works"})
	if err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}
	if len(fix.broadcaster.events) != 1 {
		t.Errorf("broadcast events = %d, want 1 despite counter failure", len(fix.broadcaster.events))
	}
	if resp.ID == 0 {
		t.Error("post was not persisted")
	}
}

func TestGetPosts_PrivateHiddenFromNonMembers(t *testing.T) {
	fix := newPostFixture(&models.Community{ID: 1, OwnerID: 10, IsPrivate: true})

	_, err := fix.service.GetPosts(context.Background(), 20, 1, &dto.GetPostsRequest{Limit: 50})
	if !errors.Is(err, apperrors.ErrCommunityNotFound) {
		t.Errorf("GetPosts() error = %v, want ErrCommunityNotFound", err)
	}
}

func TestGetPosts_ReadableByAnyViewerOfPublicCommunity(t *testing.T) {
	fix := newPostFixture(&models.Community{ID: 1, OwnerID: 10})
	fix.memberRepo.members[memberKey{1, 20}] = true

	if _, err := fix.service.CreatePost(context.Background(), 20, 1, &dto.CreatePostRequest{Content: "public read"}); err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}

	// User 99 is not a member but the community is public
	resp, err := fix.service.GetPosts(context.Background(), 99, 1, &dto.GetPostsRequest{Limit: 50})
	if err != nil {
		t.Fatalf("GetPosts() error = %v", err)
	}
	if len(resp.Posts) != 1 {
		t.Errorf("len(resp.Posts) = %d, want 1", len(resp.Posts))
	}
}
