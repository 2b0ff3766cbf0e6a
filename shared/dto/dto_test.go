package dto_test

import (
	"net/http/httptest"
	"scheduleright/shared/constant"
	"scheduleright/shared/dto"
	"scheduleright/shared/model"
	"testing"
	"time"
)

func TestMetadata_FromModel(t *testing.T) {
	created := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	modified := time.Date(2026, 1, 6, 15, 30, 0, 0, time.UTC)

	meta := model.Metadata{
		CreatedAt:  created,
		ModifiedAt: modified,
		CreatedBy:  "user-1",
		ModifiedBy: "user-2",
	}

	var res dto.Metadata
	res.FromModel(meta)

	if res.CreatedBy != "user-1" {
		t.Errorf("expected created_by 'user-1', got %s", res.CreatedBy)
	}
	if res.ModifiedBy != "user-2" {
		t.Errorf("expected modified_by 'user-2', got %s", res.ModifiedBy)
	}
	if res.CreatedAt == "" || res.ModifiedAt == "" {
		t.Error("expected formatted timestamps")
	}

	parsed, err := time.Parse(constant.DateFormat, res.CreatedAt)
	if err != nil {
		t.Fatalf("created_at is not %s formatted: %v", constant.DateFormat, err)
	}
	if !parsed.Equal(created) {
		t.Errorf("expected created_at instant %v, got %v", created, parsed)
	}
}

func TestQueryParams_LimitSkip(t *testing.T) {
	tests := []struct {
		name          string
		params        dto.QueryParams
		expectedLimit int
		expectedSkip  int
	}{
		{
			name:          "first page",
			params:        dto.QueryParams{Page: 1, Limit: 10},
			expectedLimit: 10,
			expectedSkip:  0,
		},
		{
			name:          "third page",
			params:        dto.QueryParams{Page: 3, Limit: 25},
			expectedLimit: 25,
			expectedSkip:  50,
		},
		{
			name:          "zero limit disables paging",
			params:        dto.QueryParams{Page: 5, Limit: 0},
			expectedLimit: 0,
			expectedSkip:  0,
		},
		{
			name:          "zero page treated as first",
			params:        dto.QueryParams{Page: 0, Limit: 10},
			expectedLimit: 10,
			expectedSkip:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, skip := tt.params.LimitSkip()
			if limit != tt.expectedLimit {
				t.Errorf("expected limit %d, got %d", tt.expectedLimit, limit)
			}
			if skip != tt.expectedSkip {
				t.Errorf("expected skip %d, got %d", tt.expectedSkip, skip)
			}
		})
	}
}

func TestQueryParams_FromRequest(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		defaultRequest bool
		expected       dto.QueryParams
	}{
		{
			name:           "all params present",
			url:            "/v1/bookings?page=2&limit=50&sort_by=modified_at&sort_dir=asc",
			defaultRequest: false,
			expected:       dto.QueryParams{Page: 2, Limit: 50, SortBy: "modified_at", SortDir: "ASC"},
		},
		{
			name:           "defaults applied when missing",
			url:            "/v1/bookings",
			defaultRequest: true,
			expected: dto.QueryParams{
				Page:  constant.DefaultValuePage,
				Limit: constant.DefaultValueLimit,
			},
		},
		{
			name:           "no defaults when not requested",
			url:            "/v1/bookings",
			defaultRequest: false,
			expected:       dto.QueryParams{},
		},
		{
			name:           "invalid page ignored",
			url:            "/v1/bookings?page=abc&limit=-3",
			defaultRequest: true,
			expected: dto.QueryParams{
				Page:  constant.DefaultValuePage,
				Limit: constant.DefaultValueLimit,
			},
		},
		{
			name:           "invalid sort direction ignored",
			url:            "/v1/bookings?sort_dir=sideways",
			defaultRequest: false,
			expected:       dto.QueryParams{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)

			var q dto.QueryParams
			q.FromRequest(r, tt.defaultRequest)

			if q != tt.expected {
				t.Errorf("expected %+v, got %+v", tt.expected, q)
			}
		})
	}
}

func TestSortDirectionConstants(t *testing.T) {
	if dto.SortDirAsc != "ASC" {
		t.Errorf("expected SortDirAsc to be 'ASC', got %s", dto.SortDirAsc)
	}
	if dto.SortDirDesc != "DESC" {
		t.Errorf("expected SortDirDesc to be 'DESC', got %s", dto.SortDirDesc)
	}
}
