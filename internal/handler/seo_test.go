// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/olegiv/aura/internal/testutil"
)

func TestSEORobots(t *testing.T) {
	h := NewSEOHandler("https://aura.example", false, testutil.TestLoggerSilent())

	rec := httptest.NewRecorder()
	h.Robots(rec, httptest.NewRequest(http.MethodGet, "/robots.txt", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Disallow: /admin\n") {
		t.Errorf("robots.txt should disallow /admin:\n%s", body)
	}
	if !strings.Contains(body, "Sitemap: https://aura.example/sitemap.xml") {
		t.Errorf("robots.txt should reference the sitemap:\n%s", body)
	}
}

func TestSEORobots_DisallowAll(t *testing.T) {
	h := NewSEOHandler("", true, testutil.TestLoggerSilent())

	rec := httptest.NewRecorder()
	h.Robots(rec, httptest.NewRequest(http.MethodGet, "/robots.txt", nil))

	if body := rec.Body.String(); body != "User-agent: *\nDisallow: /\n" {
		t.Errorf("robots.txt = %q", body)
	}
}

func TestSEOSitemap(t *testing.T) {
	h := NewSEOHandler("", false, testutil.TestLoggerSilent())

	req := httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil)
	req.Host = "aura.test"
	rec := httptest.NewRecorder()
	h.Sitemap(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, loc := range []string{"http://aura.test/", "http://aura.test/contact", "http://aura.test/webdev", "http://aura.test/ppc"} {
		if !strings.Contains(body, "<loc>"+loc+"</loc>") {
			t.Errorf("sitemap missing %s", loc)
		}
	}
	if strings.Contains(body, "/admin") {
		t.Error("sitemap should not list admin pages")
	}
	if got := strings.Count(body, "<url>"); got != 5+len(ServicePages) {
		t.Errorf("sitemap has %d urls, want %d", got, 5+len(ServicePages))
	}
}
