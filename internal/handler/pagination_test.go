// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestCalculateTotalPages(t *testing.T) {
	tests := []struct {
		name       string
		totalItems int64
		perPage    int
		want       int
	}{
		{"zero items", 0, 20, 1},
		{"less than one page", 5, 20, 1},
		{"exactly one page", 20, 20, 1},
		{"one item over", 21, 20, 2},
		{"multiple pages", 55, 20, 3},
		{"zero per page", 10, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateTotalPages(tt.totalItems, tt.perPage); got != tt.want {
				t.Errorf("CalculateTotalPages(%d, %d) = %d, want %d", tt.totalItems, tt.perPage, got, tt.want)
			}
		})
	}
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		totalPages int
		want       int
	}{
		{"valid page", 3, 5, 3},
		{"below minimum", 0, 5, 1},
		{"negative page", -1, 5, 1},
		{"above maximum", 10, 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampPage(tt.page, tt.totalPages); got != tt.want {
				t.Errorf("ClampPage(%d, %d) = %d, want %d", tt.page, tt.totalPages, got, tt.want)
			}
		})
	}
}

func TestParsePageParam(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"valid page", "page=3", 3},
		{"no param", "", 1},
		{"empty param", "page=", 1},
		{"invalid param", "page=abc", 1},
		{"zero page", "page=0", 1},
		{"negative page", "page=-1", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			if got := ParsePageParam(req); got != tt.want {
				t.Errorf("ParsePageParam() with query %q = %d, want %d", tt.query, got, tt.want)
			}
		})
	}
}

func TestParseIDParam(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		want    int64
		wantErr bool
	}{
		{"valid id", "123", 123, false},
		{"large id", "9999999999", 9999999999, false},
		{"zero id", "0", 0, true},
		{"negative id", "-1", 0, true},
		{"empty id", "", 0, true},
		{"invalid id", "abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			got, err := ParseIDParam(req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseIDParam() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseIDParam() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBuildAdminPagination(t *testing.T) {
	tests := []struct {
		name        string
		currentPage int
		totalItems  int64
		wantPages   int
		wantCurrent int
		wantHasPrev bool
		wantHasNext bool
	}{
		{"first page", 1, 100, 5, 1, false, true},
		{"middle page", 3, 100, 5, 3, true, true},
		{"last page", 5, 100, 5, 5, true, false},
		{"single page", 1, 5, 1, 1, false, false},
		{"empty", 1, 0, 1, 1, false, false},
		{"beyond last page", 9, 100, 5, 5, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := BuildAdminPagination(tt.currentPage, tt.totalItems, 20, "/admin/messages", nil)
			if p.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", p.TotalPages, tt.wantPages)
			}
			if p.CurrentPage != tt.wantCurrent {
				t.Errorf("CurrentPage = %d, want %d", p.CurrentPage, tt.wantCurrent)
			}
			if p.HasPrev != tt.wantHasPrev {
				t.Errorf("HasPrev = %v, want %v", p.HasPrev, tt.wantHasPrev)
			}
			if p.HasNext != tt.wantHasNext {
				t.Errorf("HasNext = %v, want %v", p.HasNext, tt.wantHasNext)
			}
		})
	}
}

func TestBuildAdminPaginationEllipsis(t *testing.T) {
	p := BuildAdminPagination(10, 400, 20, "/admin/chatbot", nil)

	var numbers []int
	ellipses := 0
	for _, pg := range p.Pages {
		if pg.IsEllipsis {
			ellipses++
			continue
		}
		numbers = append(numbers, pg.Number)
	}
	want := []int{1, 8, 9, 10, 11, 12, 20}
	if len(numbers) != len(want) {
		t.Fatalf("page numbers = %v, want %v", numbers, want)
	}
	for i := range want {
		if numbers[i] != want[i] {
			t.Fatalf("page numbers = %v, want %v", numbers, want)
		}
	}
	if ellipses != 2 {
		t.Errorf("ellipses = %d, want 2", ellipses)
	}
}

func TestBuildAdminPaginationKeepsFilters(t *testing.T) {
	params := url.Values{"status": {"pending"}, "page": {"2"}, "empty": {""}}
	p := BuildAdminPagination(2, 60, 20, "/admin/messages", params)

	if p.QueryString != "status=pending" {
		t.Errorf("QueryString = %q, want status=pending", p.QueryString)
	}
	if got := p.NextURL(); got != "/admin/messages?status=pending&page=3" {
		t.Errorf("NextURL() = %q", got)
	}
	if got := p.PrevURL(); got != "/admin/messages?status=pending&page=1" {
		t.Errorf("PrevURL() = %q", got)
	}
}
