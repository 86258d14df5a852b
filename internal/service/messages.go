// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/aura/internal/model"
	"github.com/olegiv/aura/internal/store"
)

// MessageStats holds contact message counts.
type MessageStats struct {
	Total     int64 `json:"total"`
	New       int64 `json:"new"`
	Pending   int64 `json:"pending"`
	Responded int64 `json:"responded"`
	Closed    int64 `json:"closed"`
	Unread    int64 `json:"unread"`
}

// MessageService manages the lifecycle of contact messages.
type MessageService struct {
	queries     *store.Queries
	logger      *slog.Logger
	invalidator Invalidator
	now         func() time.Time
}

// NewMessageService creates a MessageService.
func NewMessageService(db *sql.DB, logger *slog.Logger, inv Invalidator) *MessageService {
	return &MessageService{
		queries:     store.New(db),
		logger:      logger,
		invalidator: orNop(inv),
		now:         time.Now,
	}
}

// Get returns a contact message.
func (s *MessageService) Get(ctx context.Context, id int64) (store.ContactMessage, error) {
	msg, err := s.queries.GetContactMessage(ctx, id)
	if err != nil {
		return store.ContactMessage{}, translate(err, "getting message")
	}
	return msg, nil
}

// List returns one page of messages, newest first, and the matching total.
// An empty status or "all" disables filtering.
func (s *MessageService) List(ctx context.Context, status string, page int) ([]store.ContactMessage, int64, error) {
	offset := pageOffset(page)
	if status == "" || status == "all" {
		total, err := s.queries.CountContactMessages(ctx)
		if err != nil {
			return nil, 0, fmt.Errorf("counting messages: %w", err)
		}
		items, err := s.queries.ListContactMessages(ctx, store.ListContactMessagesParams{Limit: PageSize, Offset: offset})
		if err != nil {
			return nil, 0, fmt.Errorf("listing messages: %w", err)
		}
		return items, total, nil
	}

	if !model.IsValidMessageStatus(status) {
		return nil, 0, &ValidationError{Fields: map[string]string{"status": "unknown message status"}}
	}
	total, err := s.queries.CountContactMessagesByStatus(ctx, status)
	if err != nil {
		return nil, 0, fmt.Errorf("counting messages: %w", err)
	}
	items, err := s.queries.ListContactMessagesByStatus(ctx, store.ListContactMessagesByStatusParams{
		Status: status, Limit: PageSize, Offset: offset,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("listing messages: %w", err)
	}
	return items, total, nil
}

// Counts returns message totals per status and the unread count.
func (s *MessageService) Counts(ctx context.Context) (MessageStats, error) {
	var st MessageStats
	var err error
	if st.Total, err = s.queries.CountContactMessages(ctx); err != nil {
		return st, fmt.Errorf("counting messages: %w", err)
	}
	if st.Unread, err = s.queries.CountUnreadContactMessages(ctx); err != nil {
		return st, fmt.Errorf("counting unread messages: %w", err)
	}
	for status, dst := range map[string]*int64{
		model.MessageStatusNew:       &st.New,
		model.MessageStatusPending:   &st.Pending,
		model.MessageStatusResponded: &st.Responded,
		model.MessageStatusClosed:    &st.Closed,
	} {
		if *dst, err = s.queries.CountContactMessagesByStatus(ctx, status); err != nil {
			return st, fmt.Errorf("counting %s messages: %w", status, err)
		}
	}
	return st, nil
}

// advanceAttempts bounds how often AdvanceStatus retries after losing a race
// with a concurrent status change.
const advanceAttempts = 5

// AdvanceStatus moves a message one step along the status cycle and returns
// the new status. A stored status outside the cycle yields ErrInvalidState.
// The write only applies if the status is still the one read, so concurrent
// calls each advance the message by one step.
func (s *MessageService) AdvanceStatus(ctx context.Context, id int64) (string, error) {
	for range advanceAttempts {
		current, err := s.queries.GetContactMessageStatus(ctx, id)
		if err != nil {
			return "", translate(err, "getting message status")
		}

		next, ok := model.NextMessageStatus(current)
		if !ok {
			return "", fmt.Errorf("message %d status %q: %w", id, current, ErrInvalidState)
		}

		n, err := s.queries.AdvanceContactMessageStatus(ctx, store.AdvanceContactMessageStatusParams{
			Status:     next,
			UpdatedAt:  s.now().UTC(),
			ID:         id,
			FromStatus: current,
		})
		if err != nil {
			return "", fmt.Errorf("updating message status: %w", err)
		}
		if n == 1 {
			s.invalidator.Invalidate(ctx)
			return next, nil
		}
		// Status changed or the row was deleted since the read; read again.
	}
	return "", fmt.Errorf("message %d status changed concurrently: %w", id, ErrConflict)
}

// MarkRead marks a message read. Only the first call stamps read_at.
func (s *MessageService) MarkRead(ctx context.Context, id int64) (store.ContactMessage, error) {
	n, err := s.queries.MarkContactMessageRead(ctx, store.MarkContactMessageReadParams{
		ReadAt: sql.NullTime{Time: s.now().UTC(), Valid: true},
		ID:     id,
	})
	if err != nil {
		return store.ContactMessage{}, fmt.Errorf("marking message read: %w", err)
	}
	msg, err := s.Get(ctx, id)
	if err != nil {
		return store.ContactMessage{}, err
	}
	if n > 0 {
		s.invalidator.Invalidate(ctx)
	}
	return msg, nil
}

// MarkAllUnreadAsRead marks every unread message read with one shared
// timestamp and returns the number of messages changed.
func (s *MessageService) MarkAllUnreadAsRead(ctx context.Context) (int64, error) {
	n, err := s.queries.MarkAllContactMessagesRead(ctx, sql.NullTime{Time: s.now().UTC(), Valid: true})
	if err != nil {
		return 0, fmt.Errorf("marking messages read: %w", err)
	}
	if n > 0 {
		s.invalidator.Invalidate(ctx)
	}
	return n, nil
}

// Archive flags a message as archived without touching its status.
func (s *MessageService) Archive(ctx context.Context, id int64) error {
	n, err := s.queries.ArchiveContactMessage(ctx, s.now().UTC(), id)
	if err != nil {
		return fmt.Errorf("archiving message: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("message %d: %w", id, ErrNotFound)
	}
	s.invalidator.Invalidate(ctx)
	return nil
}

// SetPriority changes a message's priority.
func (s *MessageService) SetPriority(ctx context.Context, id int64, priority string) error {
	if !model.IsValidPriority(priority) {
		return &ValidationError{Fields: map[string]string{"priority": "priority must be high, medium or low"}}
	}
	n, err := s.queries.UpdateContactMessagePriority(ctx, store.UpdateContactMessagePriorityParams{
		Priority:  priority,
		UpdatedAt: s.now().UTC(),
		ID:        id,
	})
	if err != nil {
		return fmt.Errorf("updating message priority: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("message %d: %w", id, ErrNotFound)
	}
	return nil
}

// Delete permanently removes a message.
func (s *MessageService) Delete(ctx context.Context, id int64) error {
	n, err := s.queries.DeleteContactMessage(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting message: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("message %d: %w", id, ErrNotFound)
	}
	s.invalidator.Invalidate(ctx)
	return nil
}

// ExportColumns is the header row of a message export.
var ExportColumns = []string{"name", "email", "phone", "subject", "message", "status", "priority", "created_at"}

// ExportAll returns every message as rows matching ExportColumns, newest first.
func (s *MessageService) ExportAll(ctx context.Context) ([][]string, error) {
	msgs, err := s.queries.ListContactMessagesForExport(ctx)
	if err != nil {
		return nil, fmt.Errorf("exporting messages: %w", err)
	}
	rows := make([][]string, 0, len(msgs))
	for _, m := range msgs {
		rows = append(rows, []string{
			m.Name, m.Email, m.Phone, m.Subject, m.Message, m.Status, m.Priority,
			m.CreatedAt.UTC().Format(time.DateTime),
		})
	}
	return rows, nil
}
