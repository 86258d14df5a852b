// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/olegiv/aura/internal/model"
	"github.com/olegiv/aura/internal/render"
	"github.com/olegiv/aura/internal/service"
	"github.com/olegiv/aura/internal/store"
)

// conversationExportColumns is the header row of a conversation export.
var conversationExportColumns = []string{
	"id", "session_id", "name", "email", "phone", "service", "status", "message_count", "created_at",
}

// ChatbotPageData is the chatbot conversations template data.
type ChatbotPageData struct {
	Conversations []store.ChatbotConversation
	Stats         service.ConversationStats
	Status        string
	Pagination    AdminPagination
}

// ConversationsHandler handles the chatbot conversation admin routes.
type ConversationsHandler struct {
	recorder *service.ConversationRecorder
	renderer *render.Renderer
	logger   *slog.Logger
}

// NewConversationsHandler creates a new ConversationsHandler.
func NewConversationsHandler(recorder *service.ConversationRecorder, renderer *render.Renderer, logger *slog.Logger) *ConversationsHandler {
	return &ConversationsHandler{
		recorder: recorder,
		renderer: renderer,
		logger:   logger,
	}
}

// List renders the conversation list, optionally filtered by status.
// GET /admin/chatbot?status=&page=
func (h *ConversationsHandler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && !model.IsValidConversationStatus(status) {
		status = ""
	}
	page := ParsePageParam(r)

	conversations, total, err := h.recorder.List(r.Context(), status, page)
	if err != nil {
		logAndInternalError(w, h.logger, "failed to list conversations", "error", err)
		return
	}
	stats, err := h.recorder.Counts(r.Context())
	if err != nil {
		logAndInternalError(w, h.logger, "failed to count conversations", "error", err)
		return
	}

	renderPage(w, r, h.renderer, h.logger, http.StatusOK, "admin/chatbot", "Chatbot Conversations", ChatbotPageData{
		Conversations: conversations,
		Stats:         stats,
		Status:        status,
		Pagination:    BuildAdminPagination(page, total, service.PageSize, redirectChatbot, r.URL.Query()),
	})
}

// View returns a conversation and its transcript as JSON.
// GET /admin/chat/{id}
func (h *ConversationsHandler) View(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid conversation ID")
		return
	}

	detail, ok := requireEntityWithJSONError(w, h.logger, "Conversation", id,
		func(id int64) (service.ConversationDetail, error) { return h.recorder.Get(r.Context(), id) })
	if !ok {
		return
	}

	writeJSONSuccess(w, map[string]any{
		"conversation": detail.Conversation,
		"messages":     detail.Messages,
	})
}

// Delete removes a conversation and its transcript.
// POST /admin/chat/{id}/delete
func (h *ConversationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectChatbot, "Invalid conversation ID")
		return
	}
	err = h.recorder.Delete(r.Context(), id)
	mutationResult(w, r, h.renderer, h.logger, redirectChatbot, "Conversation", "Conversation deleted successfully", err)
}

// Archive archives a conversation.
// POST /admin/chat/{id}/archive
func (h *ConversationsHandler) Archive(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectChatbot, "Invalid conversation ID")
		return
	}
	err = h.recorder.Archive(r.Context(), id)
	mutationResult(w, r, h.renderer, h.logger, redirectChatbot, "Conversation", "Conversation archived successfully", err)
}

// SetStatus changes a conversation's status.
// POST /admin/chat/{id}/status
func (h *ConversationsHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectChatbot, "Invalid conversation ID")
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, redirectChatbot) {
		return
	}
	err = h.recorder.SetStatus(r.Context(), id, r.FormValue("status"))
	mutationResult(w, r, h.renderer, h.logger, redirectChatbot, "Conversation", "Conversation status updated", err)
}

// Export downloads every conversation as CSV.
// GET /admin/chats/export
func (h *ConversationsHandler) Export(w http.ResponseWriter, r *http.Request) {
	convs, err := h.recorder.ExportAll(r.Context())
	if err != nil {
		logAndInternalError(w, h.logger, "failed to export conversations", "error", err)
		return
	}

	rows := make([][]string, 0, len(convs))
	for _, c := range convs {
		rows = append(rows, []string{
			strconv.FormatInt(c.ID, 10),
			c.SessionID,
			c.UserName,
			c.UserEmail,
			c.UserPhone,
			c.ServiceRequested,
			c.Status,
			strconv.FormatInt(c.MessageCount, 10),
			c.CreatedAt.UTC().Format(time.DateTime),
		})
	}
	writeCSV(w, h.logger, "chatbot_conversations.csv", conversationExportColumns, rows)
}
