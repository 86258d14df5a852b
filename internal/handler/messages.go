// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/olegiv/aura/internal/model"
	"github.com/olegiv/aura/internal/render"
	"github.com/olegiv/aura/internal/service"
	"github.com/olegiv/aura/internal/store"
)

// MessagesPageData is the messages list template data.
type MessagesPageData struct {
	Messages   []store.ContactMessage
	Stats      service.MessageStats
	Status     string
	Pagination AdminPagination
}

// MessagesHandler handles the contact message admin routes.
type MessagesHandler struct {
	messages *service.MessageService
	renderer *render.Renderer
	logger   *slog.Logger
}

// NewMessagesHandler creates a new MessagesHandler.
func NewMessagesHandler(messages *service.MessageService, renderer *render.Renderer, logger *slog.Logger) *MessagesHandler {
	return &MessagesHandler{
		messages: messages,
		renderer: renderer,
		logger:   logger,
	}
}

// List renders the message inbox, optionally filtered by status.
// GET /admin/messages?status=&page=
func (h *MessagesHandler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && !model.IsValidMessageStatus(status) {
		status = ""
	}
	page := ParsePageParam(r)

	messages, total, err := h.messages.List(r.Context(), status, page)
	if err != nil {
		logAndInternalError(w, h.logger, "failed to list messages", "error", err)
		return
	}
	stats, err := h.messages.Counts(r.Context())
	if err != nil {
		logAndInternalError(w, h.logger, "failed to count messages", "error", err)
		return
	}

	renderPage(w, r, h.renderer, h.logger, http.StatusOK, "admin/messages", "Contact Messages", MessagesPageData{
		Messages:   messages,
		Stats:      stats,
		Status:     status,
		Pagination: BuildAdminPagination(page, total, service.PageSize, redirectMessages, r.URL.Query()),
	})
}

// View shows one message and marks it read.
// GET /admin/message/{id}
func (h *MessagesHandler) View(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectMessages, "Invalid message ID")
		return
	}

	msg, ok := requireEntityWithRedirect(w, r, h.renderer, h.logger, redirectMessages, "Message", id,
		func(id int64) (store.ContactMessage, error) { return h.messages.MarkRead(r.Context(), id) })
	if !ok {
		return
	}

	renderPage(w, r, h.renderer, h.logger, http.StatusOK, "admin/message", msg.Subject, msg)
}

// Delete removes a message.
// POST /admin/message/{id}/delete
func (h *MessagesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectMessages, "Invalid message ID")
		return
	}
	err = h.messages.Delete(r.Context(), id)
	mutationResult(w, r, h.renderer, h.logger, redirectMessages, "Message", "Message deleted successfully", err)
}

// Archive archives a message.
// POST /admin/message/{id}/archive
func (h *MessagesHandler) Archive(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectMessages, "Invalid message ID")
		return
	}
	err = h.messages.Archive(r.Context(), id)
	mutationResult(w, r, h.renderer, h.logger, redirectMessages, "Message", "Message archived successfully", err)
}

// SetPriority changes a message's priority.
// POST /admin/message/{id}/priority
func (h *MessagesHandler) SetPriority(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectMessages, "Invalid message ID")
		return
	}
	back := fmt.Sprintf("/admin/message/%d", id)
	if !parseFormOrRedirect(w, r, h.renderer, back) {
		return
	}
	err = h.messages.SetPriority(r.Context(), id, r.FormValue("priority"))
	mutationResult(w, r, h.renderer, h.logger, back, "Message", "Priority updated", err)
}

// MarkAllRead marks every unread message as read.
// POST /admin/messages/mark-all-read
func (h *MessagesHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.messages.MarkAllUnreadAsRead(r.Context())
	if err != nil {
		h.logger.Error("failed to mark messages read", "error", err)
		flashError(w, r, h.renderer, redirectMessages, "Failed to mark messages as read")
		return
	}
	flashSuccess(w, r, h.renderer, redirectMessages, fmt.Sprintf("%d messages marked as read", n))
}

// ToggleStatus advances a message to the next workflow status.
// POST /admin/messages/{id}/toggle-status
func (h *MessagesHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid message ID")
		return
	}

	status, err := h.messages.AdvanceStatus(r.Context(), id)
	switch {
	case err == nil:
		writeJSONSuccess(w, map[string]any{"status": status})
	case errors.Is(err, service.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, "Message not found")
	case errors.Is(err, service.ErrInvalidState):
		h.logger.Warn("message has unknown status", "message_id", id, "error", err)
		writeJSONError(w, http.StatusConflict, "Message has an unknown status")
	case errors.Is(err, service.ErrConflict):
		writeJSONError(w, http.StatusConflict, "Message status was changed by someone else, please retry")
	default:
		h.logger.Error("failed to advance message status", "message_id", id, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to update status")
	}
}

// Export downloads every message as CSV.
// GET /admin/messages/export
func (h *MessagesHandler) Export(w http.ResponseWriter, r *http.Request) {
	rows, err := h.messages.ExportAll(r.Context())
	if err != nil {
		logAndInternalError(w, h.logger, "failed to export messages", "error", err)
		return
	}
	writeCSV(w, h.logger, "contact_messages.csv", service.ExportColumns, rows)
}
