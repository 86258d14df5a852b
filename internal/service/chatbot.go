// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/aura/internal/model"
	"github.com/olegiv/aura/internal/store"
)

// LeadCapture is a chatbot lead-capture submission. All fields are optional.
type LeadCapture struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Service string `json:"service"`
}

// Turn is one scripted transcript line.
type Turn struct {
	Sender string
	Text   string
}

// Transcript expands a lead into the fixed 13-turn chat script.
func Transcript(lead LeadCapture) []Turn {
	return []Turn{
		{model.SenderBot, "👋 Hello! I'm Aura Assistant, your friendly AI helper! What's your name?"},
		{model.SenderUser, lead.Name},
		{model.SenderBot, fmt.Sprintf("Nice to meet you, %s! 🎉 What's your email address?", lead.Name)},
		{model.SenderUser, lead.Email},
		{model.SenderBot, "Thank you! 📧"},
		{model.SenderBot, "What's your contact number?"},
		{model.SenderUser, lead.Phone},
		{model.SenderBot, "Thank you! 📞"},
		{model.SenderBot, "What service do you need?"},
		{model.SenderBot, "We offer Web Development, Software Development, Digital Marketing, SEO and Social Media Marketing."},
		{model.SenderUser, lead.Service},
		{model.SenderBot, fmt.Sprintf("Perfect! I've noted that you need %s. ✅", lead.Service)},
		{model.SenderBot, "Thank you for providing your information! Our team will contact you soon. 🚀"},
	}
}

// MessageWriter persists one transcript row.
type MessageWriter interface {
	CreateChatbotMessage(ctx context.Context, arg store.CreateChatbotMessageParams) (store.ChatbotMessage, error)
}

// ConversationStats holds conversation counts per status.
type ConversationStats struct {
	Total     int64 `json:"total"`
	Active    int64 `json:"active"`
	Completed int64 `json:"completed"`
	FollowUp  int64 `json:"follow_up"`
	Archived  int64 `json:"archived"`
}

// ConversationDetail is a conversation with its ordered transcript.
type ConversationDetail struct {
	Conversation store.ChatbotConversation `json:"conversation"`
	Messages     []store.ChatbotMessage    `json:"messages"`
}

// ConversationRecorder records chatbot lead captures and manages stored
// conversations.
type ConversationRecorder struct {
	db          *sql.DB
	queries     *store.Queries
	logger      *slog.Logger
	invalidator Invalidator
	now         func() time.Time
	writer      func(q *store.Queries) MessageWriter
}

// RecorderOption configures a ConversationRecorder.
type RecorderOption func(*ConversationRecorder)

// WithMessageWriter replaces the transcript writer. The factory receives the
// transaction-bound queries.
func WithMessageWriter(fn func(q *store.Queries) MessageWriter) RecorderOption {
	return func(r *ConversationRecorder) { r.writer = fn }
}

// WithRecorderClock sets the time source.
func WithRecorderClock(now func() time.Time) RecorderOption {
	return func(r *ConversationRecorder) { r.now = now }
}

// NewConversationRecorder creates a ConversationRecorder.
func NewConversationRecorder(db *sql.DB, logger *slog.Logger, inv Invalidator, opts ...RecorderOption) *ConversationRecorder {
	r := &ConversationRecorder{
		db:          db,
		queries:     store.New(db),
		logger:      logger,
		invalidator: orNop(inv),
		now:         time.Now,
		writer:      func(q *store.Queries) MessageWriter { return q },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RecordConversation stores the conversation and its full transcript in one
// transaction and returns the conversation ID.
func (r *ConversationRecorder) RecordConversation(ctx context.Context, lead LeadCapture) (int64, error) {
	lead = LeadCapture{
		Name:    strings.TrimSpace(lead.Name),
		Email:   strings.TrimSpace(lead.Email),
		Phone:   strings.TrimSpace(lead.Phone),
		Service: strings.TrimSpace(lead.Service),
	}
	base := r.now().UTC()

	var id int64
	err := store.InTx(ctx, r.db, func(q *store.Queries) error {
		conv, err := q.CreateConversation(ctx, store.CreateConversationParams{
			SessionID:        uuid.NewString(),
			UserName:         lead.Name,
			UserPhone:        lead.Phone,
			UserEmail:        lead.Email,
			ServiceRequested: lead.Service,
			Status:           model.ConversationStatusActive,
			CreatedAt:        base,
			UpdatedAt:        base,
			LastActivity:     base,
		})
		if err != nil {
			return fmt.Errorf("creating conversation: %w", err)
		}

		w := r.writer(q)
		for i, turn := range Transcript(lead) {
			pos := int64(i + 1)
			_, err := w.CreateChatbotMessage(ctx, store.CreateChatbotMessageParams{
				ConversationID: conv.ID,
				Sender:         turn.Sender,
				MessageText:    turn.Text,
				Position:       pos,
				CreatedAt:      base.Add(time.Duration(pos) * time.Microsecond),
			})
			if err != nil {
				return fmt.Errorf("creating message %d: %w", pos, err)
			}
		}
		id = conv.ID
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("recording conversation: %w", err)
	}

	r.invalidator.Invalidate(ctx)
	r.logger.Info("chatbot conversation recorded",
		"category", model.EventCategoryChatbot, "conversation_id", id, "service", lead.Service)
	return id, nil
}

// List returns one page of conversations, newest first. An empty status or
// "all" lists every conversation.
func (r *ConversationRecorder) List(ctx context.Context, status string, page int) ([]store.ChatbotConversation, int64, error) {
	offset := pageOffset(page)
	if status == "" || status == "all" {
		total, err := r.queries.CountConversations(ctx)
		if err != nil {
			return nil, 0, fmt.Errorf("counting conversations: %w", err)
		}
		items, err := r.queries.ListConversations(ctx, store.ListConversationsParams{Limit: PageSize, Offset: offset})
		if err != nil {
			return nil, 0, fmt.Errorf("listing conversations: %w", err)
		}
		return items, total, nil
	}

	if !model.IsValidConversationStatus(status) {
		return nil, 0, &ValidationError{Fields: map[string]string{"status": "unknown conversation status"}}
	}
	total, err := r.queries.CountConversationsByStatus(ctx, status)
	if err != nil {
		return nil, 0, fmt.Errorf("counting conversations: %w", err)
	}
	items, err := r.queries.ListConversationsByStatus(ctx, store.ListConversationsByStatusParams{
		Status: status, Limit: PageSize, Offset: offset,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("listing conversations: %w", err)
	}
	return items, total, nil
}

// Get returns a conversation with its transcript ordered by position.
func (r *ConversationRecorder) Get(ctx context.Context, id int64) (ConversationDetail, error) {
	conv, err := r.queries.GetConversation(ctx, id)
	if err != nil {
		return ConversationDetail{}, translate(err, "getting conversation")
	}
	msgs, err := r.queries.ListChatbotMessages(ctx, id)
	if err != nil {
		return ConversationDetail{}, fmt.Errorf("listing messages: %w", err)
	}
	return ConversationDetail{Conversation: conv, Messages: msgs}, nil
}

// Counts returns conversation totals per status.
func (r *ConversationRecorder) Counts(ctx context.Context) (ConversationStats, error) {
	var s ConversationStats
	var err error
	if s.Total, err = r.queries.CountConversations(ctx); err != nil {
		return s, fmt.Errorf("counting conversations: %w", err)
	}
	for status, dst := range map[string]*int64{
		model.ConversationStatusActive:    &s.Active,
		model.ConversationStatusCompleted: &s.Completed,
		model.ConversationStatusFollowUp:  &s.FollowUp,
		model.ConversationStatusArchived:  &s.Archived,
	} {
		if *dst, err = r.queries.CountConversationsByStatus(ctx, status); err != nil {
			return s, fmt.Errorf("counting %s conversations: %w", status, err)
		}
	}
	return s, nil
}

// Archive moves a conversation to the archived status.
func (r *ConversationRecorder) Archive(ctx context.Context, id int64) error {
	return r.SetStatus(ctx, id, model.ConversationStatusArchived)
}

// SetStatus changes a conversation's status.
func (r *ConversationRecorder) SetStatus(ctx context.Context, id int64, status string) error {
	if !model.IsValidConversationStatus(status) {
		return &ValidationError{Fields: map[string]string{"status": "unknown conversation status"}}
	}
	n, err := r.queries.UpdateConversationStatus(ctx, store.UpdateConversationStatusParams{
		Status:    status,
		UpdatedAt: r.now().UTC(),
		ID:        id,
	})
	if err != nil {
		return fmt.Errorf("updating conversation status: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("conversation %d: %w", id, ErrNotFound)
	}
	r.invalidator.Invalidate(ctx)
	return nil
}

// Delete removes a conversation and its messages in one transaction.
func (r *ConversationRecorder) Delete(ctx context.Context, id int64) error {
	err := store.InTx(ctx, r.db, func(q *store.Queries) error {
		if _, err := q.DeleteChatbotMessages(ctx, id); err != nil {
			return fmt.Errorf("deleting messages: %w", err)
		}
		n, err := q.DeleteConversation(ctx, id)
		if err != nil {
			return fmt.Errorf("deleting conversation: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("conversation %d: %w", id, ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return err
	}
	r.invalidator.Invalidate(ctx)
	return nil
}

// ExportAll returns every conversation with its message count, newest first.
func (r *ConversationRecorder) ExportAll(ctx context.Context) ([]store.ListConversationsForExportRow, error) {
	rows, err := r.queries.ListConversationsForExport(ctx)
	if err != nil {
		return nil, fmt.Errorf("exporting conversations: %w", err)
	}
	return rows, nil
}
