// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/olegiv/aura/internal/middleware"
	"github.com/olegiv/aura/internal/service"
)

// APIHandler serves the JSON endpoints used by the public site scripts.
type APIHandler struct {
	recorder  *service.ConversationRecorder
	responder *service.Responder
	analytics *service.AnalyticsService
	logger    *slog.Logger
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(recorder *service.ConversationRecorder, responder *service.Responder, analytics *service.AnalyticsService, logger *slog.Logger) *APIHandler {
	return &APIHandler{
		recorder:  recorder,
		responder: responder,
		analytics: analytics,
		logger:    logger,
	}
}

// SaveChatbot records a completed lead-capture chat.
// POST /api/chatbot/save
func (h *APIHandler) SaveChatbot(w http.ResponseWriter, r *http.Request) {
	var lead service.LeadCapture
	if err := decodeJSON(w, r, &lead); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id, err := h.recorder.RecordConversation(r.Context(), lead)
	if err != nil {
		h.logger.Error("failed to save chatbot conversation", "error", err, "ip", middleware.ClientIP(r))
		writeJSONError(w, http.StatusInternalServerError, "Failed to save conversation")
		return
	}

	writeJSONSuccess(w, map[string]any{
		"conversation_id": id,
		"message":         "Conversation saved successfully",
	})
}

type chatRequest struct {
	Message string `json:"message"`
}

// AIChat answers a chat message from the keyword table.
// POST /ai-chat
func (h *APIHandler) AIChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"response": h.responder.Reply(req.Message),
	})
}

type pageViewRequest struct {
	SessionID string `json:"session_id"`
	PageURL   string `json:"page_url"`
	PageTitle string `json:"page_title"`
	Referrer  string `json:"referrer"`
	UserAgent string `json:"user_agent"`
}

// TrackPageView records a page view reported by the tracking script.
// POST /api/track/pageview
func (h *APIHandler) TrackPageView(w http.ResponseWriter, r *http.Request) {
	var req pageViewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ua := req.UserAgent
	if ua == "" {
		ua = r.UserAgent()
	}

	recorded, err := h.analytics.TrackPageView(r.Context(), service.PageViewInput{
		SessionID: req.SessionID,
		PageURL:   req.PageURL,
		PageTitle: req.PageTitle,
		Referrer:  req.Referrer,
		UserAgent: ua,
		IP:        middleware.ClientIP(r),
		UserID:    middleware.GetUserID(r),
	})
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			writeJSONError(w, http.StatusBadRequest, verr.First())
			return
		}
		h.logger.Error("failed to track page view", "error", err, "page_url", req.PageURL)
		writeJSONError(w, http.StatusInternalServerError, "Failed to track page view")
		return
	}

	writeJSONSuccess(w, map[string]any{"recorded": recorded})
}

type trackEventRequest struct {
	EventType string         `json:"event_type"`
	SessionID string         `json:"session_id"`
	PageURL   string         `json:"page_url"`
	Data      map[string]any `json:"data"`
}

// TrackEvent accepts a client-side interaction event. Events are logged at
// debug level and not stored.
// POST /api/track/event
func (h *APIHandler) TrackEvent(w http.ResponseWriter, r *http.Request) {
	var req trackEventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	h.logger.Debug("client event", "event_type", req.EventType, "session_id", req.SessionID, "page_url", req.PageURL)
	writeJSONSuccess(w, nil)
}

// Realtime returns the live visitor counters for the admin analytics page.
// GET /api/analytics/realtime
func (h *APIHandler) Realtime(w http.ResponseWriter, r *http.Request) {
	stats, err := h.analytics.Realtime(r.Context())
	if err != nil {
		h.logger.Error("failed to load realtime stats", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to load statistics")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
