package helpers

import "testing"

func TestCalculateOffsetLimit(t *testing.T) {
	tests := []struct {
		name       string
		page, size int
		wantOffset uint64
		wantLimit  int
	}{
		{"first page", 1, 10, 0, 10},
		{"third page", 3, 20, 40, 20},
		{"zero page clamps to first", 0, 10, 0, 10},
		{"negative page clamps to first", -5, 10, 0, 10},
		{"zero size uses default", 2, 0, uint64(DefaultPageSize), DefaultPageSize},
		{"oversized page size uses default", 1, MaxPageSize + 1, 0, DefaultPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, limit := CalculateOffsetLimit(tt.page, tt.size)
			if offset != tt.wantOffset || limit != tt.wantLimit {
				t.Errorf("CalculateOffsetLimit(%d, %d) = (%d, %d), want (%d, %d)",
					tt.page, tt.size, offset, limit, tt.wantOffset, tt.wantLimit)
			}
		})
	}
}

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(25, 2, 10)
	if info.CurrentPage != 2 {
		t.Errorf("CurrentPage = %d, want 2", info.CurrentPage)
	}
	if info.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", info.TotalPages)
	}
	if info.TotalItems != 25 {
		t.Errorf("TotalItems = %d, want 25", info.TotalItems)
	}
}

func TestNewPaginationInfo_EmptyResult(t *testing.T) {
	info := NewPaginationInfo(0, 1, 10)
	if info.TotalPages != 1 {
		t.Errorf("TotalPages = %d, want 1 for an empty first page", info.TotalPages)
	}
	if info.TotalItems != 0 {
		t.Errorf("TotalItems = %d, want 0", info.TotalItems)
	}
}

func TestNewPaginationInfo_PageBeyondEnd(t *testing.T) {
	info := NewPaginationInfo(5, 9, 10)
	if info.CurrentPage != 1 {
		t.Errorf("CurrentPage = %d, want clamped to 1", info.CurrentPage)
	}
}
