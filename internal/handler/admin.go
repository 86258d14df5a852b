// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/olegiv/aura/internal/middleware"
	"github.com/olegiv/aura/internal/model"
	"github.com/olegiv/aura/internal/render"
	"github.com/olegiv/aura/internal/service"
	"github.com/olegiv/aura/internal/store"
)

// ProfilePageData is the profile template data.
type ProfilePageData struct {
	Username string
	Email    string
}

// EventsPageData is the event log template data.
type EventsPageData struct {
	Events     []store.Event
	Pagination AdminPagination
}

// AdminHandler handles the admin dashboard, analytics, event log and profile.
type AdminHandler struct {
	dashboard *service.DashboardService
	analytics *service.AnalyticsService
	events    *service.EventService
	users     *service.UserService
	renderer  *render.Renderer
	logger    *slog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	dashboard *service.DashboardService,
	analytics *service.AnalyticsService,
	events *service.EventService,
	users *service.UserService,
	renderer *render.Renderer,
	logger *slog.Logger,
) *AdminHandler {
	return &AdminHandler{
		dashboard: dashboard,
		analytics: analytics,
		events:    events,
		users:     users,
		renderer:  renderer,
		logger:    logger,
	}
}

// Dashboard renders the admin dashboard.
// GET /admin/dashboard
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	data, err := h.dashboard.Get(r.Context())
	if err != nil {
		logAndInternalError(w, h.logger, "failed to load dashboard", "error", err)
		return
	}
	renderPage(w, r, h.renderer, h.logger, http.StatusOK, "admin/dashboard", "Dashboard", data)
}

// Analytics renders the analytics overview.
// GET /admin/analytics
func (h *AdminHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	data, err := h.analytics.Overview(r.Context())
	if err != nil {
		logAndInternalError(w, h.logger, "failed to load analytics", "error", err)
		return
	}
	renderPage(w, r, h.renderer, h.logger, http.StatusOK, "admin/analytics", "Analytics", data)
}

// Events renders the event log.
// GET /admin/events
func (h *AdminHandler) Events(w http.ResponseWriter, r *http.Request) {
	page := ParsePageParam(r)
	events, total, err := h.events.List(r.Context(), page)
	if err != nil {
		logAndInternalError(w, h.logger, "failed to list events", "error", err)
		return
	}
	renderPage(w, r, h.renderer, h.logger, http.StatusOK, "admin/events", "Event Log", EventsPageData{
		Events:     events,
		Pagination: BuildAdminPagination(page, total, service.PageSize, "/admin/events", r.URL.Query()),
	})
}

// Profile renders the profile form for the signed-in admin.
// GET /admin/profile
func (h *AdminHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		http.Redirect(w, r, redirectLogin, http.StatusSeeOther)
		return
	}
	renderPage(w, r, h.renderer, h.logger, http.StatusOK, "admin/profile", "Profile", ProfilePageData{
		Username: user.Username,
		Email:    user.Email,
	})
}

// UpdateProfile saves the profile form.
// POST /admin/profile/update
func (h *AdminHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		http.Redirect(w, r, redirectLogin, http.StatusSeeOther)
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, redirectProfile) {
		return
	}

	_, err := h.users.UpdateProfile(r.Context(), user.ID, service.ProfileUpdate{
		Username:        r.FormValue("username"),
		Email:           r.FormValue("email"),
		CurrentPassword: r.FormValue("current_password"),
		NewPassword:     r.FormValue("new_password"),
		ConfirmPassword: r.FormValue("confirm_password"),
	})
	if err != nil {
		var verr *service.ValidationError
		var cerr *service.ConflictError
		switch {
		case errors.As(err, &verr):
			flashError(w, r, h.renderer, redirectProfile, verr.First())
		case errors.As(err, &cerr):
			flashError(w, r, h.renderer, redirectProfile, conflictMessage(cerr))
		default:
			h.logger.Error("failed to update profile", "user_id", user.ID, "error", err)
			flashError(w, r, h.renderer, redirectProfile, "Failed to update profile")
		}
		return
	}

	userID := user.ID
	if err := h.events.LogUserEvent(r.Context(), model.EventLevelInfo, "Profile updated", &userID, middleware.ClientIP(r), nil); err != nil {
		h.logger.Warn("failed to write user event", "error", err)
	}
	flashSuccess(w, r, h.renderer, redirectProfile, "Profile updated successfully")
}
