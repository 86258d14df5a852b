// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/aura/internal/cache"
	"github.com/olegiv/aura/internal/middleware"
	"github.com/olegiv/aura/internal/render"
	"github.com/olegiv/aura/internal/service"
	"github.com/olegiv/aura/internal/store"
	"github.com/olegiv/aura/internal/testutil"
	"github.com/olegiv/aura/web"
)

// testApp wires the real services against a migrated temp database.
type testApp struct {
	db       *sql.DB
	sm       *scs.SessionManager
	renderer *render.Renderer
	logger   *slog.Logger

	users     *service.UserService
	events    *service.EventService
	messages  *service.MessageService
	recorder  *service.ConversationRecorder
	contact   *service.ContactService
	analytics *service.AnalyticsService
	dashboard *service.DashboardService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sm := scs.New()

	templates, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("fs.Sub: %v", err)
	}
	renderer, err := render.New(render.Config{TemplatesFS: templates, SessionManager: sm, SiteName: "Aura"})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	c, _ := cache.New(cache.Config{DefaultTTL: time.Minute}, logger)
	t.Cleanup(func() { _ = c.Close() })
	dashboard := service.NewDashboardService(db, c, time.Minute, logger)

	return &testApp{
		db:        db,
		sm:        sm,
		renderer:  renderer,
		logger:    logger,
		users:     service.NewUserService(db, logger),
		events:    service.NewEventService(db, logger),
		messages:  service.NewMessageService(db, logger, dashboard),
		recorder:  service.NewConversationRecorder(db, logger, dashboard),
		contact:   service.NewContactService(db, nil, logger, dashboard),
		analytics: service.NewAnalyticsService(db, nil, logger),
		dashboard: dashboard,
	}
}

// serve runs req through h inside the session middleware.
func (a *testApp) serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.sm.LoadAndSave(h).ServeHTTP(rec, req)
	return rec
}

// flash renders a page with the session cookies of rec and returns the body,
// which contains any pending flash message.
func (a *testApp) flash(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/flash", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	out := a.serve(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := a.renderer.Render(w, r, "pages/error", render.TemplateData{}); err != nil {
			t.Errorf("Render() error = %v", err)
		}
	}), req)
	return out.Body.String()
}

// asUser attaches user to the request context the way LoadUser does.
func asUser(req *http.Request, user store.User) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), middleware.ContextKeyUser, user))
}

func postForm(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func postJSON(target, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, want string) {
	t.Helper()
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303; body: %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != want {
		t.Errorf("Location = %q, want %q", loc, want)
	}
}

func countRows(t *testing.T, db *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	if err := db.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("count query %q: %v", query, err)
	}
	return n
}
