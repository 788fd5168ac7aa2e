package pagination

import "testing"

func TestPageRequest_Defaults(t *testing.T) {
	tests := []struct {
		name         string
		in           PageRequest
		wantPage     int
		wantPageSize int
	}{
		{"zero_values", PageRequest{}, 1, DefaultPageSize},
		{"explicit", PageRequest{Page: 3, PageSize: 10}, 3, 10},
		{"oversized", PageRequest{Page: 1, PageSize: 500}, 1, MaxPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.in
			req.Defaults()
			if req.Page != tt.wantPage || req.PageSize != tt.wantPageSize {
				t.Errorf("expected page=%d size=%d, got page=%d size=%d",
					tt.wantPage, tt.wantPageSize, req.Page, req.PageSize)
			}
		})
	}
}

func TestNewPageResponse(t *testing.T) {
	resp := NewPageResponse([]int{1, 2}, 1, 2, 5)
	if resp.TotalPages != 3 {
		t.Errorf("expected 3 pages, got %d", resp.TotalPages)
	}
	if !resp.HasMore {
		t.Error("expected more pages")
	}

	empty := NewPageResponse[int](nil, 1, 20, 0)
	if empty.Data == nil {
		t.Error("expected empty slice, got nil")
	}
	if empty.HasMore {
		t.Error("expected no more pages")
	}
}
