package services

import (
	"context"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/campuslink/backend/internal/pkg/cache"
)

type fakeIDLists struct {
	communityIDs []int64
	projectIDs   []int64
	startupIDs   []int64
	loads        int
}

func (f *fakeIDLists) ListCommunityIDsByUser(_ context.Context, _ int64) ([]int64, error) {
	f.loads++
	return f.communityIDs, nil
}

func (f *fakeIDLists) ListProjectIDsByUser(_ context.Context, _ int64) ([]int64, error) {
	f.loads++
	return f.projectIDs, nil
}

func (f *fakeIDLists) ListStartupIDsByUser(_ context.Context, _ int64) ([]int64, error) {
	f.loads++
	return f.startupIDs, nil
}

func TestGetMyMemberships_LoadsAndCaches(t *testing.T) {
	lists := &fakeIDLists{
		communityIDs: []int64{1, 2},
		projectIDs:   []int64{7},
		startupIDs:   []int64{},
	}
	membershipCache := newFakeMembershipCache()
	svc := NewMembershipService(lists, lists, lists, membershipCache, zerolog.Nop())

	resp, err := svc.GetMyMemberships(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetMyMemberships() error = %v", err)
	}

	if !reflect.DeepEqual(resp.CommunityIDs, []int64{1, 2}) {
		t.Errorf("CommunityIDs = %v, want [1 2]", resp.CommunityIDs)
	}
	if !reflect.DeepEqual(resp.ProjectIDs, []int64{7}) {
		t.Errorf("ProjectIDs = %v, want [7]", resp.ProjectIDs)
	}
	if len(resp.StartupIDs) != 0 {
		t.Errorf("StartupIDs = %v, want empty", resp.StartupIDs)
	}
	if lists.loads != 3 {
		t.Errorf("repository loads = %d, want 3 on a cold cache", lists.loads)
	}

	// Second call is served entirely from the cache
	if _, err := svc.GetMyMemberships(context.Background(), 42); err != nil {
		t.Fatalf("GetMyMemberships() second call error = %v", err)
	}
	if lists.loads != 3 {
		t.Errorf("repository loads = %d after warm call, want still 3", lists.loads)
	}
}

func TestGetMyMemberships_RefreshesAfterInvalidation(t *testing.T) {
	lists := &fakeIDLists{communityIDs: []int64{1}}
	membershipCache := newFakeMembershipCache()
	svc := NewMembershipService(lists, lists, lists, membershipCache, zerolog.Nop())

	if _, err := svc.GetMyMemberships(context.Background(), 42); err != nil {
		t.Fatalf("GetMyMemberships() error = %v", err)
	}
	loadsAfterWarmup := lists.loads

	// A join elsewhere invalidates the community set only
	membershipCache.Invalidate(context.Background(), 42, cache.KindCommunity)
	lists.communityIDs = []int64{1, 5}

	resp, err := svc.GetMyMemberships(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetMyMemberships() error = %v", err)
	}
	if !reflect.DeepEqual(resp.CommunityIDs, []int64{1, 5}) {
		t.Errorf("CommunityIDs = %v, want refreshed [1 5]", resp.CommunityIDs)
	}
	if lists.loads != loadsAfterWarmup+1 {
		t.Errorf("repository loads = %d, want exactly one reload", lists.loads)
	}
}
