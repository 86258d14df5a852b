// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/aura/internal/testutil"
)

func newMessagesRouter(app *testApp) chi.Router {
	h := NewMessagesHandler(app.messages, app.renderer, app.logger)
	r := chi.NewRouter()
	r.Get("/admin/messages", h.List)
	r.Get("/admin/messages/export", h.Export)
	r.Post("/admin/messages/mark-all-read", h.MarkAllRead)
	r.Post("/admin/messages/{id}/toggle-status", h.ToggleStatus)
	r.Get("/admin/message/{id}", h.View)
	r.Post("/admin/message/{id}/priority", h.SetPriority)
	r.Post("/admin/message/{id}/archive", h.Archive)
	r.Post("/admin/message/{id}/delete", h.Delete)
	return r
}

func TestMessagesList(t *testing.T) {
	app := newTestApp(t)
	router := newMessagesRouter(app)
	testutil.CreateContactMessage(t, app.db, "Ana", "ana@example.com", time.Now())
	testutil.CreateContactMessage(t, app.db, "Bo", "bo@example.com", time.Now())

	rec := app.serve(router, httptest.NewRequest(http.MethodGet, "/admin/messages?status=bogus", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"ana@example.com", "bo@example.com"} {
		if !strings.Contains(body, want) {
			t.Errorf("list missing %q", want)
		}
	}
}

func TestMessagesToggleStatus(t *testing.T) {
	app := newTestApp(t)
	router := newMessagesRouter(app)
	msg := testutil.CreateContactMessage(t, app.db, "Ana", "ana@example.com", time.Now())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, fmt.Sprintf("/admin/messages/%d/toggle-status", msg.ID), nil))
	resp := assertJSONResponse(t, rec, http.StatusOK, true)
	if resp["status"] != "pending" {
		t.Errorf("status = %v, want pending", resp["status"])
	}
}

func TestMessagesToggleStatus_Errors(t *testing.T) {
	app := newTestApp(t)
	router := newMessagesRouter(app)
	msg := testutil.CreateContactMessage(t, app.db, "Ana", "ana@example.com", time.Now())
	if _, err := app.db.Exec("UPDATE contact_messages SET status = 'escalated' WHERE id = ?", msg.ID); err != nil {
		t.Fatalf("update status: %v", err)
	}

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"missing", "/admin/messages/9999/toggle-status", http.StatusNotFound},
		{"unknown stored status", fmt.Sprintf("/admin/messages/%d/toggle-status", msg.ID), http.StatusConflict},
		{"bad id", "/admin/messages/abc/toggle-status", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, tt.path, nil))
			assertJSONResponse(t, rec, tt.status, false)
		})
	}

	var status string
	if err := app.db.QueryRow("SELECT status FROM contact_messages WHERE id = ?", msg.ID).Scan(&status); err != nil {
		t.Fatalf("query status: %v", err)
	}
	if status != "escalated" {
		t.Errorf("stored status = %q, should be left untouched", status)
	}
}

func TestMessagesView_MarksRead(t *testing.T) {
	app := newTestApp(t)
	router := newMessagesRouter(app)
	msg := testutil.CreateContactMessage(t, app.db, "Ana", "ana@example.com", time.Now())

	rec := app.serve(router, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/admin/message/%d", msg.ID), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Hello from Ana") {
		t.Errorf("message body not rendered")
	}

	got, err := app.messages.Get(context.Background(), msg.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !got.IsRead || !got.ReadAt.Valid {
		t.Errorf("message should be read, got IsRead=%v ReadAt=%v", got.IsRead, got.ReadAt)
	}
}

func TestMessagesView_EscapesVisitorText(t *testing.T) {
	app := newTestApp(t)
	router := newMessagesRouter(app)
	msg := testutil.CreateContactMessage(t, app.db, "Ana", "ana@example.com", time.Now())
	if _, err := app.db.Exec("UPDATE contact_messages SET message = ? WHERE id = ?",
		"Reach me at <ana@work.com> or https://ana.example", msg.ID); err != nil {
		t.Fatalf("update message: %v", err)
	}

	rec := app.serve(router, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/admin/message/%d", msg.ID), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Reach me at &lt;ana@work.com&gt;") {
		t.Errorf("visitor text should be shown escaped:\n%s", body)
	}
	if !strings.Contains(body, `href="https://ana.example"`) {
		t.Errorf("URL in visitor text should be linked")
	}
}

func TestMessagesView_NotFound(t *testing.T) {
	app := newTestApp(t)
	router := newMessagesRouter(app)

	rec := app.serve(router, httptest.NewRequest(http.MethodGet, "/admin/message/9999", nil))
	assertRedirect(t, rec, "/admin/messages")
	if body := app.flash(t, rec); !strings.Contains(body, "Message not found") {
		t.Errorf("flash missing:\n%s", body)
	}
}

func TestMessagesMarkAllRead(t *testing.T) {
	app := newTestApp(t)
	router := newMessagesRouter(app)
	for _, name := range []string{"Ana", "Bo", "Cy"} {
		testutil.CreateContactMessage(t, app.db, name, strings.ToLower(name)+"@example.com", time.Now())
	}

	rec := app.serve(router, httptest.NewRequest(http.MethodPost, "/admin/messages/mark-all-read", nil))
	assertRedirect(t, rec, "/admin/messages")
	if body := app.flash(t, rec); !strings.Contains(body, "3 messages marked as read") {
		t.Errorf("flash missing:\n%s", body)
	}
	if n := countRows(t, app.db, "SELECT COUNT(*) FROM contact_messages WHERE is_read = 0"); n != 0 {
		t.Errorf("unread = %d, want 0", n)
	}
}

func TestMessagesDelete(t *testing.T) {
	app := newTestApp(t)
	router := newMessagesRouter(app)
	msg := testutil.CreateContactMessage(t, app.db, "Ana", "ana@example.com", time.Now())

	rec := app.serve(router, httptest.NewRequest(http.MethodPost, fmt.Sprintf("/admin/message/%d/delete", msg.ID), nil))
	assertRedirect(t, rec, "/admin/messages")
	if n := countRows(t, app.db, "SELECT COUNT(*) FROM contact_messages"); n != 0 {
		t.Errorf("contact_messages = %d, want 0", n)
	}

	rec = app.serve(router, httptest.NewRequest(http.MethodPost, fmt.Sprintf("/admin/message/%d/delete", msg.ID), nil))
	assertRedirect(t, rec, "/admin/messages")
	if body := app.flash(t, rec); !strings.Contains(body, "Message not found") {
		t.Errorf("second delete should flash not found:\n%s", body)
	}
}

func TestMessagesArchive(t *testing.T) {
	app := newTestApp(t)
	router := newMessagesRouter(app)
	msg := testutil.CreateContactMessage(t, app.db, "Ana", "ana@example.com", time.Now())

	rec := app.serve(router, httptest.NewRequest(http.MethodPost, fmt.Sprintf("/admin/message/%d/archive", msg.ID), nil))
	assertRedirect(t, rec, "/admin/messages")

	got, err := app.messages.Get(context.Background(), msg.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !got.IsArchived || got.Status != "new" {
		t.Errorf("archived message = %+v, want archived with status new", got)
	}
}

func TestMessagesSetPriority(t *testing.T) {
	app := newTestApp(t)
	router := newMessagesRouter(app)
	msg := testutil.CreateContactMessage(t, app.db, "Ana", "ana@example.com", time.Now())
	path := fmt.Sprintf("/admin/message/%d/priority", msg.ID)

	rec := app.serve(router, postForm(path, url.Values{"priority": {"high"}}))
	assertRedirect(t, rec, fmt.Sprintf("/admin/message/%d", msg.ID))

	got, err := app.messages.Get(context.Background(), msg.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Priority != "high" {
		t.Errorf("Priority = %q, want high", got.Priority)
	}

	rec = app.serve(router, postForm(path, url.Values{"priority": {"urgent"}}))
	assertRedirect(t, rec, fmt.Sprintf("/admin/message/%d", msg.ID))
	if body := app.flash(t, rec); !strings.Contains(body, "priority must be high, medium or low") {
		t.Errorf("validation flash missing:\n%s", body)
	}
}

func TestMessagesExport(t *testing.T) {
	app := newTestApp(t)
	router := newMessagesRouter(app)
	testutil.CreateContactMessage(t, app.db, "=HYPERLINK(1)", "ana@example.com", time.Now())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/messages/export", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "contact_messages.csv") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	records, err := csv.NewReader(rec.Body).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want header + 1", len(records))
	}
	if strings.Join(records[0], ",") != "name,email,phone,subject,message,status,priority,created_at" {
		t.Errorf("header = %v", records[0])
	}
	if records[1][0] != "'=HYPERLINK(1)" {
		t.Errorf("name cell = %q, want escaped formula", records[1][0])
	}
}
