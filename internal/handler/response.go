// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/olegiv/aura/internal/middleware"
	"github.com/olegiv/aura/internal/render"
	"github.com/olegiv/aura/internal/service"
)

// flashAndRedirect sets a flash message and redirects to the given URL.
// Uses http.StatusSeeOther (303) for POST redirects.
func flashAndRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message, messageType string) {
	renderer.SetFlash(r, message, messageType)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// flashError sets an error flash message and redirects to the given URL.
func flashError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, render.FlashError)
}

// flashSuccess sets a success flash message and redirects to the given URL.
func flashSuccess(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, render.FlashSuccess)
}

// parseFormOrRedirect parses the request form and redirects with an error message on failure.
// Returns true if parsing succeeded, false if it failed (and redirect was performed).
func parseFormOrRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, redirectURL string) bool {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, renderer, redirectURL, "Invalid form data")
		return false
	}
	return true
}

// logAndHTTPError logs an error and writes an HTTP error response.
func logAndHTTPError(w http.ResponseWriter, logger *slog.Logger, message string, statusCode int, logMsg string, args ...any) {
	logger.Error(logMsg, args...)
	http.Error(w, message, statusCode)
}

// logAndInternalError logs an error and writes a 500 Internal Server Error response.
func logAndInternalError(w http.ResponseWriter, logger *slog.Logger, logMsg string, args ...any) {
	logAndHTTPError(w, logger, "Internal Server Error", http.StatusInternalServerError, logMsg, args...)
}

// renderPage renders a template with the signed-in user attached.
// A render failure is logged and answered with a plain 500.
func renderPage(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, logger *slog.Logger, status int, name, title string, data any) {
	err := renderer.RenderStatus(w, r, status, name, render.TemplateData{
		Title: title,
		Data:  data,
		User:  middleware.GetUser(r),
	})
	if err != nil {
		logAndInternalError(w, logger, "failed to render template", "template", name, "error", err)
	}
}

// requireEntityWithRedirect fetches an entity by ID using the provided query function.
// On error, it sets a flash message and redirects. Returns the entity and true if successful,
// or zero value and false if an error occurred (redirect already performed).
func requireEntityWithRedirect[T any](
	w http.ResponseWriter,
	r *http.Request,
	renderer *render.Renderer,
	logger *slog.Logger,
	redirectURL string,
	entityName string,
	id int64,
	queryFn func(id int64) (T, error),
) (T, bool) {
	var zero T
	entity, err := queryFn(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			flashError(w, r, renderer, redirectURL, entityName+" not found")
		} else {
			logger.Error("failed to get "+entityName, "error", err, "id", id)
			flashError(w, r, renderer, redirectURL, "Error loading "+entityName)
		}
		return zero, false
	}
	return entity, true
}

// requireEntityWithJSONError fetches an entity by ID using the provided query function.
// On error, it writes a JSON error response. Returns the entity and true if successful,
// or zero value and false if an error occurred (response already written).
func requireEntityWithJSONError[T any](
	w http.ResponseWriter,
	logger *slog.Logger,
	entityName string,
	id int64,
	queryFn func(id int64) (T, error),
) (T, bool) {
	var zero T
	entity, err := queryFn(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, entityName+" not found")
		} else {
			logger.Error("failed to get "+entityName, "error", err, "id", id)
			writeJSONError(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return zero, false
	}
	return entity, true
}

// mutationResult flashes the outcome of an admin mutation and redirects.
// Not-found errors get a specific message, others are logged.
func mutationResult(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, logger *slog.Logger, redirectURL, entityName, success string, err error) {
	switch {
	case err == nil:
		flashSuccess(w, r, renderer, redirectURL, success)
	case errors.Is(err, service.ErrNotFound):
		flashError(w, r, renderer, redirectURL, entityName+" not found")
	default:
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			flashError(w, r, renderer, redirectURL, verr.First())
			return
		}
		logger.Error("admin mutation failed", "entity", entityName, "path", r.URL.Path, "error", err)
		flashError(w, r, renderer, redirectURL, "Something went wrong. Please try again.")
	}
}
