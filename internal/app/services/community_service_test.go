package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/campuslink/backend/internal/app/auth"
	"github.com/campuslink/backend/internal/app/models"
	"github.com/campuslink/backend/internal/app/models/dto"
	"github.com/campuslink/backend/internal/pkg/apperrors"
	"github.com/campuslink/backend/internal/pkg/cache"
)

// fakeCommunityRepo backs both the service and the authorization checks.
type fakeCommunityRepo struct {
	communities map[int64]*models.Community
	updated     *models.Community
}

func (f *fakeCommunityRepo) GetByID(_ context.Context, id int64) (*models.Community, error) {
	if c, ok := f.communities[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, apperrors.ErrCommunityNotFound
}

func (f *fakeCommunityRepo) GetByJoinCode(_ context.Context, joinCode string) (*models.Community, error) {
	for _, c := range f.communities {
		if c.JoinCode == joinCode {
			copied := *c
			return &copied, nil
		}
	}
	return nil, apperrors.ErrInvalidJoinCode
}

func (f *fakeCommunityRepo) Update(_ context.Context, community *models.Community) error {
	f.updated = community
	f.communities[community.ID] = community
	return nil
}

func (f *fakeCommunityRepo) List(_ context.Context, _ int64, _, _ *string, _, _ int) ([]*models.Community, int64, error) {
	var out []*models.Community
	for _, c := range f.communities {
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (f *fakeCommunityRepo) ListJoinedByUser(_ context.Context, _ int64) ([]*models.Community, error) {
	return nil, nil
}

type memberKey struct{ groupID, userID int64 }

type fakeCommunityMemberRepo struct {
	members map[memberKey]bool
}

func newFakeCommunityMemberRepo() *fakeCommunityMemberRepo {
	return &fakeCommunityMemberRepo{members: make(map[memberKey]bool)}
}

func (f *fakeCommunityMemberRepo) Add(_ context.Context, communityID, userID int64) (*models.CommunityMember, error) {
	key := memberKey{communityID, userID}
	if f.members[key] {
		return nil, apperrors.ErrAlreadyMember
	}
	f.members[key] = true
	return &models.CommunityMember{CommunityID: communityID, UserID: userID}, nil
}

func (f *fakeCommunityMemberRepo) Remove(_ context.Context, communityID, userID int64) error {
	key := memberKey{communityID, userID}
	if !f.members[key] {
		return apperrors.ErrNotMember
	}
	delete(f.members, key)
	return nil
}

func (f *fakeCommunityMemberRepo) IsMember(_ context.Context, communityID, userID int64) (bool, error) {
	return f.members[memberKey{communityID, userID}], nil
}

func (f *fakeCommunityMemberRepo) CountByCommunityID(_ context.Context, communityID int64) (int, error) {
	count := 0
	for key := range f.members {
		if key.groupID == communityID {
			count++
		}
	}
	return count, nil
}

func (f *fakeCommunityMemberRepo) CountsByCommunityIDs(_ context.Context, ids []int64) (map[int64]int, error) {
	counts := make(map[int64]int)
	for _, id := range ids {
		n, _ := f.CountByCommunityID(context.Background(), id)
		counts[id] = n
	}
	return counts, nil
}

func (f *fakeCommunityMemberRepo) ListByCommunityID(_ context.Context, communityID int64) ([]*models.CommunityMember, error) {
	var out []*models.CommunityMember
	for key := range f.members {
		if key.groupID == communityID {
			out = append(out, &models.CommunityMember{CommunityID: communityID, UserID: key.userID})
		}
	}
	return out, nil
}

func (f *fakeCommunityMemberRepo) ListCommunityIDsByUser(_ context.Context, userID int64) ([]int64, error) {
	out := []int64{}
	for key := range f.members {
		if key.userID == userID {
			out = append(out, key.groupID)
		}
	}
	return out, nil
}

// fakeMembershipCache records invalidations so tests can assert on them.
type fakeMembershipCache struct {
	store        map[string][]int64
	invalidated  []cache.MembershipKind
	gets, misses int
}

func newFakeMembershipCache() *fakeMembershipCache {
	return &fakeMembershipCache{store: make(map[string][]int64)}
}

func (f *fakeMembershipCache) key(userID int64, kind cache.MembershipKind) string {
	return fmt.Sprintf("%s:%d", kind, userID)
}

func (f *fakeMembershipCache) Get(_ context.Context, userID int64, kind cache.MembershipKind) ([]int64, bool) {
	f.gets++
	ids, ok := f.store[f.key(userID, kind)]
	if !ok {
		f.misses++
	}
	return ids, ok
}

func (f *fakeMembershipCache) Set(_ context.Context, userID int64, kind cache.MembershipKind, ids []int64) {
	f.store[f.key(userID, kind)] = ids
}

func (f *fakeMembershipCache) Invalidate(_ context.Context, userID int64, kind cache.MembershipKind) {
	delete(f.store, f.key(userID, kind))
	f.invalidated = append(f.invalidated, kind)
}

func strPtr(s string) *string { return &s }

type communityFixture struct {
	communityRepo *fakeCommunityRepo
	memberRepo    *fakeCommunityMemberRepo
	cache         *fakeMembershipCache
	service       CommunityService
}

func newCommunityFixture(communities ...*models.Community) *communityFixture {
	communityRepo := &fakeCommunityRepo{communities: make(map[int64]*models.Community)}
	for _, c := range communities {
		communityRepo.communities[c.ID] = c
	}
	memberRepo := newFakeCommunityMemberRepo()
	membershipCache := newFakeMembershipCache()
	authz := auth.NewAuthorizationService(communityRepo, memberRepo, nil, nil)

	return &communityFixture{
		communityRepo: communityRepo,
		memberRepo:    memberRepo,
		cache:         membershipCache,
		service:       NewCommunityService(communityRepo, memberRepo, nil, authz, membershipCache, zerolog.Nop()),
	}
}

func TestGetCommunityByID_PrivateHiddenFromNonMembers(t *testing.T) {
	fix := newCommunityFixture(&models.Community{ID: 1, Name: "Secret Club", OwnerID: 10, IsPrivate: true})

	_, err := fix.service.GetCommunityByID(context.Background(), 99, 1)
	if !errors.Is(err, apperrors.ErrCommunityNotFound) {
		t.Errorf("GetCommunityByID() error = %v, want ErrCommunityNotFound", err)
	}
}

func TestGetCommunityByID_PrivateVisibleToOwnerAndMembers(t *testing.T) {
	fix := newCommunityFixture(&models.Community{ID: 1, Name: "Secret Club", OwnerID: 10, IsPrivate: true})
	fix.memberRepo.members[memberKey{1, 20}] = true

	for _, userID := range []int64{10, 20} {
		if _, err := fix.service.GetCommunityByID(context.Background(), userID, 1); err != nil {
			t.Errorf("GetCommunityByID(user %d) error = %v", userID, err)
		}
	}
}

func TestJoinCommunity_Public(t *testing.T) {
	fix := newCommunityFixture(&models.Community{ID: 1, Name: "Open Club", OwnerID: 10})

	if err := fix.service.JoinCommunity(context.Background(), 20, 1); err != nil {
		t.Fatalf("JoinCommunity() error = %v", err)
	}
	if !fix.memberRepo.members[memberKey{1, 20}] {
		t.Error("membership row was not inserted")
	}
	if len(fix.cache.invalidated) != 1 || fix.cache.invalidated[0] != cache.KindCommunity {
		t.Errorf("cache invalidations = %v, want one community invalidation", fix.cache.invalidated)
	}
}

func TestJoinCommunity_PrivateStaysHidden(t *testing.T) {
	fix := newCommunityFixture(&models.Community{ID: 1, OwnerID: 10, IsPrivate: true})

	// A non-member cannot even discover the community
	err := fix.service.JoinCommunity(context.Background(), 20, 1)
	if !errors.Is(err, apperrors.ErrCommunityNotFound) {
		t.Errorf("JoinCommunity() error = %v, want ErrCommunityNotFound", err)
	}

	// A member sees it but direct join just reports the existing membership
	fix.memberRepo.members[memberKey{1, 30}] = true
	err = fix.service.JoinCommunity(context.Background(), 30, 1)
	if !errors.Is(err, apperrors.ErrAlreadyMember) {
		t.Errorf("JoinCommunity() as member error = %v, want ErrAlreadyMember", err)
	}
}

func TestJoinByCode_AdmitsToPrivateCommunity(t *testing.T) {
	fix := newCommunityFixture(&models.Community{ID: 1, Name: "Secret Club", OwnerID: 10, IsPrivate: true, JoinCode: "ABCD2345"})

	resp, err := fix.service.JoinByCode(context.Background(), 20, "ABCD2345")
	if err != nil {
		t.Fatalf("JoinByCode() error = %v", err)
	}
	if resp.ID != 1 {
		t.Errorf("resp.ID = %d, want 1", resp.ID)
	}
	if !fix.memberRepo.members[memberKey{1, 20}] {
		t.Error("membership row was not inserted")
	}
}

func TestJoinByCode_UnknownCode(t *testing.T) {
	fix := newCommunityFixture()

	_, err := fix.service.JoinByCode(context.Background(), 20, "NOPE2345")
	if !errors.Is(err, apperrors.ErrInvalidJoinCode) {
		t.Errorf("JoinByCode() error = %v, want ErrInvalidJoinCode", err)
	}
}

func TestLeaveCommunity(t *testing.T) {
	fix := newCommunityFixture(&models.Community{ID: 1, OwnerID: 10})
	fix.memberRepo.members[memberKey{1, 20}] = true

	if err := fix.service.LeaveCommunity(context.Background(), 20, 1); err != nil {
		t.Fatalf("LeaveCommunity() error = %v", err)
	}
	if fix.memberRepo.members[memberKey{1, 20}] {
		t.Error("membership row still present after leave")
	}
}

func TestLeaveCommunity_OwnerCannotLeave(t *testing.T) {
	fix := newCommunityFixture(&models.Community{ID: 1, OwnerID: 10})
	fix.memberRepo.members[memberKey{1, 10}] = true

	err := fix.service.LeaveCommunity(context.Background(), 10, 1)
	if !errors.Is(err, apperrors.ErrOwnerCannotLeave) {
		t.Errorf("LeaveCommunity() error = %v, want ErrOwnerCannotLeave", err)
	}
	if !fix.memberRepo.members[memberKey{1, 10}] {
		t.Error("owner membership row was removed")
	}
}

func TestLeaveCommunity_NotAMember(t *testing.T) {
	fix := newCommunityFixture(&models.Community{ID: 1, OwnerID: 10})

	err := fix.service.LeaveCommunity(context.Background(), 20, 1)
	if !errors.Is(err, apperrors.ErrNotMember) {
		t.Errorf("LeaveCommunity() error = %v, want ErrNotMember", err)
	}
}

func TestUpdateCommunity_OwnerOnly(t *testing.T) {
	fix := newCommunityFixture(&models.Community{ID: 1, Name: "Old Name", OwnerID: 10})
	fix.memberRepo.members[memberKey{1, 20}] = true

	req := &dto.UpdateCommunityRequest{Name: "New Name", Description: "updated", Branch: strPtr("Computer Science")}

	_, err := fix.service.UpdateCommunity(context.Background(), 20, 1, req)
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("UpdateCommunity() as member error = %v, want ErrPermissionDenied", err)
	}

	resp, err := fix.service.UpdateCommunity(context.Background(), 10, 1, req)
	if err != nil {
		t.Fatalf("UpdateCommunity() as owner error = %v", err)
	}
	if resp.Name != "New Name" {
		t.Errorf("resp.Name = %q, want %q", resp.Name, "New Name")
	}
	if fix.communityRepo.updated == nil {
		t.Error("Update() was never called on the repository")
	}
}

func TestGetCommunityMembers_PrivateHidden(t *testing.T) {
	fix := newCommunityFixture(&models.Community{ID: 1, OwnerID: 10, IsPrivate: true})

	_, err := fix.service.GetCommunityMembers(context.Background(), 20, 1)
	if !errors.Is(err, apperrors.ErrCommunityNotFound) {
		t.Errorf("GetCommunityMembers() error = %v, want ErrCommunityNotFound", err)
	}
}

func TestCreateCommunity_RetriesCollisionInFreshTransaction(t *testing.T) {
	db := &scriptedDB{joinCodeCollisions: 1}
	txm := &scriptedTxManager{db: db}
	membershipCache := newFakeMembershipCache()
	service := NewCommunityService(nil, nil, txm, nil, membershipCache, zerolog.Nop())

	resp, err := service.CreateCommunity(context.Background(), 10, &dto.CreateCommunityRequest{
		Name:      "Robotics Club",
		IsPrivate: true,
	})
	if err != nil {
		t.Fatalf("CreateCommunity() error = %v", err)
	}

	// A unique violation aborts the whole transaction, so the second
	// attempt must run in a new one rather than re-inserting into the
	// aborted transaction.
	if txm.runs != 2 {
		t.Errorf("transactions run = %d, want 2", txm.runs)
	}
	if got := db.stmtCount("INSERT INTO communities"); got != 2 {
		t.Errorf("community inserts = %d, want 2", got)
	}
	if len(db.codes) != 2 {
		t.Fatalf("join codes attempted = %d, want 2", len(db.codes))
	}
	if len(db.memberRows) != 1 || db.memberRows[0] != [2]int64{resp.ID, 10} {
		t.Errorf("member rows = %v, want one (%d, 10) row", db.memberRows, resp.ID)
	}
	if len(membershipCache.invalidated) != 1 || membershipCache.invalidated[0] != cache.KindCommunity {
		t.Errorf("cache invalidations = %v, want one community invalidation", membershipCache.invalidated)
	}
}

func TestCreateCommunity_GivesUpAfterRepeatedCollisions(t *testing.T) {
	db := &scriptedDB{joinCodeCollisions: maxJoinCodeAttempts + 1}
	txm := &scriptedTxManager{db: db}
	service := NewCommunityService(nil, nil, txm, nil, newFakeMembershipCache(), zerolog.Nop())

	_, err := service.CreateCommunity(context.Background(), 10, &dto.CreateCommunityRequest{Name: "Robotics Club"})
	if err == nil {
		t.Fatal("CreateCommunity() error = nil, want join code exhaustion")
	}
	if txm.runs != maxJoinCodeAttempts {
		t.Errorf("transactions run = %d, want %d", txm.runs, maxJoinCodeAttempts)
	}
	if len(db.memberRows) != 0 {
		t.Errorf("member rows = %v, want none", db.memberRows)
	}
}
