package dto

// MyMembershipsResponse carries the caller's membership id sets. Clients use
// these to mark join state in lists and refresh them on demand.
type MyMembershipsResponse struct {
	CommunityIDs []int64 `json:"communityIds"`
	ProjectIDs   []int64 `json:"projectIds"`
	StartupIDs   []int64 `json:"startupIds"`
}
