// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/aura/internal/middleware"
	"github.com/olegiv/aura/internal/model"
	"github.com/olegiv/aura/internal/render"
	"github.com/olegiv/aura/internal/service"
	"github.com/olegiv/aura/internal/store"
)

// Flash messages shown by the auth handlers.
const (
	msgCredentialsRequired = "Email and password are required"
	msgInvalidCredentials  = "Invalid email or password"
	msgLoginSuccess        = "Login successful!"
	msgLoggedOut           = "You have been logged out successfully."
	msgSetupClosed         = "Admin account already exists. Registration is disabled."
	msgSetupSuccess        = "Admin account created successfully! Welcome to Aura Admin Panel."
)

// LoginPageData is the login template data.
type LoginPageData struct {
	Email string
}

// SetupPageData is the admin setup template data.
type SetupPageData struct {
	Username string
	Email    string
}

// AuthHandler handles authentication routes.
type AuthHandler struct {
	users           *service.UserService
	events          *service.EventService
	renderer        *render.Renderer
	sessionManager  *scs.SessionManager
	loginProtection *middleware.LoginProtection
	logger          *slog.Logger
}

// NewAuthHandler creates a new AuthHandler. loginProtection may be nil.
func NewAuthHandler(users *service.UserService, events *service.EventService, renderer *render.Renderer, sm *scs.SessionManager, lp *middleware.LoginProtection, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		users:           users,
		events:          events,
		renderer:        renderer,
		sessionManager:  sm,
		loginProtection: lp,
		logger:          logger,
	}
}

// LoginForm renders the login page. Signed-in users go to the dashboard and
// a fresh install goes to the admin setup page.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if h.sessionManager.GetInt64(r.Context(), middleware.SessionKeyUserID) > 0 {
		http.Redirect(w, r, redirectDashboard, http.StatusSeeOther)
		return
	}

	open, err := h.users.SetupOpen(r.Context())
	if err != nil {
		logAndInternalError(w, h.logger, "failed to check admin setup state", "error", err)
		return
	}
	if open {
		http.Redirect(w, r, redirectSetup, http.StatusSeeOther)
		return
	}

	renderPage(w, r, h.renderer, h.logger, http.StatusOK, "auth/login", "Admin Login", LoginPageData{})
}

// Login handles the login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectLogin) {
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	if email == "" || password == "" {
		flashError(w, r, h.renderer, redirectLogin, msgCredentialsRequired)
		return
	}

	clientIP := middleware.ClientIP(r)

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
			h.logEvent(r, model.EventLevelWarning, "Login attempt on locked account", nil, clientIP, map[string]any{"email": email})
			flashError(w, r, h.renderer, redirectLogin,
				fmt.Sprintf("Too many failed login attempts. Please try again in %s.", formatDuration(remaining)))
			return
		}
	}

	user, err := h.users.Authenticate(r.Context(), email, password)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			logAndInternalError(w, h.logger, "login failed", "error", err)
			return
		}
		h.logger.Debug("invalid login attempt", "email", email)
		h.logEvent(r, model.EventLevelWarning, "Login failed: invalid credentials", nil, clientIP, map[string]any{"email": email})
		flashError(w, r, h.renderer, redirectLogin, h.failedLoginMessage(r, email, clientIP))
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(email)
	}

	if err := h.signIn(r, user); err != nil {
		logAndInternalError(w, h.logger, "session renewal error", "error", err)
		return
	}

	h.logger.Info("user logged in", "user_id", user.ID)
	h.logEvent(r, model.EventLevelInfo, "User logged in", &user.ID, clientIP, map[string]any{"email": user.Email})
	flashSuccess(w, r, h.renderer, redirectDashboard, msgLoginSuccess)
}

// failedLoginMessage records the failure and returns the message to show.
func (h *AuthHandler) failedLoginMessage(r *http.Request, email, clientIP string) string {
	if h.loginProtection == nil {
		return msgInvalidCredentials
	}
	if locked, lockDuration := h.loginProtection.RecordFailedAttempt(email); locked {
		h.logEvent(r, model.EventLevelWarning, "Account locked due to failed attempts", nil, clientIP,
			map[string]any{"email": email, "duration": lockDuration.String()})
		return fmt.Sprintf("Too many failed login attempts. Please try again in %s.", formatDuration(lockDuration))
	}
	if remaining := h.loginProtection.RemainingAttempts(email); remaining > 0 && remaining <= 3 {
		return fmt.Sprintf("%s. %d attempts remaining.", msgInvalidCredentials, remaining)
	}
	return msgInvalidCredentials
}

// Logout handles user logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := h.sessionManager.GetInt64(r.Context(), middleware.SessionKeyUserID)
	if userID > 0 {
		h.logEvent(r, model.EventLevelInfo, "User logged out", &userID, middleware.ClientIP(r), nil)
	}

	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		h.logger.Error("session destroy error", "error", err)
	}

	h.logger.Info("user logged out", "user_id", userID)
	flashAndRedirect(w, r, h.renderer, redirectLogin, msgLoggedOut, render.FlashInfo)
}

// SetupForm renders the one-time admin registration page.
func (h *AuthHandler) SetupForm(w http.ResponseWriter, r *http.Request) {
	if !h.requireSetupOpen(w, r) {
		return
	}
	renderPage(w, r, h.renderer, h.logger, http.StatusOK, "auth/setup-admin", "Create Admin Account", SetupPageData{})
}

// Setup registers the first administrator and signs them in.
func (h *AuthHandler) Setup(w http.ResponseWriter, r *http.Request) {
	if !h.requireSetupOpen(w, r) {
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, redirectSetup) {
		return
	}

	in := service.AdminSetup{
		Username:        r.FormValue("username"),
		Email:           r.FormValue("email"),
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("confirm_password"),
	}
	form := SetupPageData{Username: in.Username, Email: in.Email}

	user, err := h.users.SetupAdmin(r.Context(), in)
	if err != nil {
		var verr *service.ValidationError
		var cerr *service.ConflictError
		switch {
		case errors.Is(err, service.ErrSetupClosed):
			flashError(w, r, h.renderer, redirectLogin, msgSetupClosed)
		case errors.As(err, &verr):
			h.renderer.SetFlash(r, verr.First(), render.FlashError)
			renderPage(w, r, h.renderer, h.logger, http.StatusBadRequest, "auth/setup-admin", "Create Admin Account", form)
		case errors.As(err, &cerr):
			h.renderer.SetFlash(r, conflictMessage(cerr), render.FlashError)
			renderPage(w, r, h.renderer, h.logger, http.StatusConflict, "auth/setup-admin", "Create Admin Account", form)
		default:
			logAndInternalError(w, h.logger, "admin setup failed", "error", err)
		}
		return
	}

	if err := h.signIn(r, user); err != nil {
		logAndInternalError(w, h.logger, "session renewal error", "error", err)
		return
	}

	h.logEvent(r, model.EventLevelInfo, "Admin account created", &user.ID, middleware.ClientIP(r), map[string]any{"email": user.Email})
	flashSuccess(w, r, h.renderer, redirectDashboard, msgSetupSuccess)
}

// LegacyLogin redirects the old login path.
func (h *AuthHandler) LegacyLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, redirectLogin, http.StatusMovedPermanently)
}

func (h *AuthHandler) requireSetupOpen(w http.ResponseWriter, r *http.Request) bool {
	open, err := h.users.SetupOpen(r.Context())
	if err != nil {
		logAndInternalError(w, h.logger, "failed to check admin setup state", "error", err)
		return false
	}
	if !open {
		flashError(w, r, h.renderer, redirectLogin, msgSetupClosed)
		return false
	}
	return true
}

// signIn renews the session token to prevent fixation and stores the user ID.
func (h *AuthHandler) signIn(r *http.Request, user store.User) error {
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		return err
	}
	h.sessionManager.Put(r.Context(), middleware.SessionKeyUserID, user.ID)
	return nil
}

func (h *AuthHandler) logEvent(r *http.Request, level, message string, userID *int64, ip string, metadata map[string]any) {
	if err := h.events.LogAuthEvent(r.Context(), level, message, userID, ip, metadata); err != nil {
		h.logger.Warn("failed to write auth event", "error", err)
	}
}

// conflictMessage turns a uniqueness conflict into a form message.
func conflictMessage(err *service.ConflictError) string {
	if err.Field == "username" {
		return "Username already exists"
	}
	return "Email already exists"
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
