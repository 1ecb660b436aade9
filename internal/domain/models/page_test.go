package models

import (
	"math"
	"net/url"
	"testing"
)

func TestComputePageState_DerivesTotalPages(t *testing.T) {
	got := ComputePageState(Pagination{Page: 1, PageSize: 20}, 45, 0)
	if got.TotalPages != 3 {
		t.Fatalf("expected 3 pages for 45/20, got %d", got.TotalPages)
	}
	if got.TotalCount != 45 || got.Page != 1 || got.PageSize != 20 {
		t.Fatalf("unexpected state %+v", got)
	}
}

func TestComputePageState_KeepsServerValues(t *testing.T) {
	got := ComputePageState(Pagination{Page: 9, PageSize: 10}, 30, 7)
	if got.TotalPages != 7 {
		t.Fatalf("server total_pages must win, got %d", got.TotalPages)
	}
	if got.Page != 9 {
		t.Fatalf("fetch must not clamp the page, got %d", got.Page)
	}
}

func TestComputePageState_Defaults(t *testing.T) {
	got := ComputePageState(Pagination{}, -4, 0)
	if got.Page != 1 || got.PageSize != DefaultPageSize || got.TotalCount != 0 || got.TotalPages != 0 {
		t.Fatalf("unexpected defaults %+v", got)
	}
}

func TestPageState_Clamp(t *testing.T) {
	s := PageState{Page: 2, PageSize: 20, TotalCount: 45, TotalPages: 3}
	tests := map[int]int{-1: 1, 0: 1, 1: 1, 3: 3, 4: 3, 100: 3}
	for in, want := range tests {
		if got := s.Clamp(in); got != want {
			t.Fatalf("Clamp(%d) = %d, want %d", in, got, want)
		}
	}
	if got := (PageState{}).Clamp(5); got != 1 {
		t.Fatalf("empty result set clamps to 1, got %d", got)
	}
}

func TestFilters_EncodeOmitsSentinels(t *testing.T) {
	f := Filters{"status": "all", "search": "ali", "min_rating": "Any", "date": ""}
	q := url.Values{}
	f.Encode(q)
	NewPagination(2, 50).Encode(q, "page", "limit")

	if q.Has("status") || q.Has("min_rating") || q.Has("date") {
		t.Fatalf("sentinel filters leaked into query: %s", q.Encode())
	}
	if q.Get("search") != "ali" || q.Get("page") != "2" || q.Get("limit") != "50" {
		t.Fatalf("unexpected query %s", q.Encode())
	}
}

func TestFilters_WithCopies(t *testing.T) {
	base := Filters{"status": "open"}
	next := base.With("status", "closed")
	if base["status"] != "open" || next["status"] != "closed" {
		t.Fatalf("With must not mutate the receiver")
	}
}

func TestComputePageState_HugeTotal(t *testing.T) {
	got := ComputePageState(Pagination{Page: 1, PageSize: 1}, math.MaxInt, 0)
	if got.TotalPages != math.MaxInt {
		t.Fatalf("expected MaxInt pages, got %d", got.TotalPages)
	}
	got = ComputePageState(Pagination{Page: 1, PageSize: 20}, math.MaxInt, 0)
	if got.TotalPages != math.MaxInt/20+1 {
		t.Fatalf("unexpected pages %d", got.TotalPages)
	}
}
