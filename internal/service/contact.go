// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/olegiv/aura/internal/model"
	"github.com/olegiv/aura/internal/notify"
	"github.com/olegiv/aura/internal/store"
)

// ContactSubmission is a contact form post.
type ContactSubmission struct {
	Name        string
	Email       string
	Phone       string
	InquiryType string
	Message     string
}

// ContactNotifier sends the owner notification for a stored message.
type ContactNotifier interface {
	NotifyContact(ctx context.Context, s notify.ContactSubmission) error
}

// ContactService stores contact form submissions.
type ContactService struct {
	queries     *store.Queries
	notifier    ContactNotifier
	logger      *slog.Logger
	invalidator Invalidator
	now         func() time.Time
}

// NewContactService creates a ContactService. A nil notifier disables
// notifications.
func NewContactService(db *sql.DB, notifier ContactNotifier, logger *slog.Logger, inv Invalidator) *ContactService {
	return &ContactService{
		queries:     store.New(db),
		notifier:    notifier,
		logger:      logger,
		invalidator: orNop(inv),
		now:         time.Now,
	}
}

// Validate checks the required fields of a submission.
func (sub ContactSubmission) Validate() error {
	v := validation{}
	if strings.TrimSpace(sub.Name) == "" {
		v.add("name", "Name is required")
	}
	if sub.Email == "" {
		v.add("email", "Email is required")
	} else if _, err := mail.ParseAddress(sub.Email); err != nil {
		v.add("email", "Please enter a valid email address")
	}
	if strings.TrimSpace(sub.Message) == "" {
		v.add("message", "Message is required")
	}
	return v.err()
}

// Submit validates and stores a submission, then notifies the site owner.
// A failed notification is logged and does not fail the call.
func (s *ContactService) Submit(ctx context.Context, sub ContactSubmission) (store.ContactMessage, error) {
	if err := sub.Validate(); err != nil {
		return store.ContactMessage{}, err
	}

	addr, _ := mail.ParseAddress(sub.Email)
	now := s.now().UTC()
	msg, err := s.queries.CreateContactMessage(ctx, store.CreateContactMessageParams{
		Name:      strings.TrimSpace(sub.Name),
		Email:     addr.Address,
		Phone:     strings.TrimSpace(sub.Phone),
		Subject:   model.InquirySubject(sub.InquiryType),
		Message:   strings.TrimSpace(sub.Message),
		Status:    model.MessageStatusNew,
		Priority:  model.PriorityMedium,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return store.ContactMessage{}, translate(err, "creating contact message")
	}
	s.invalidator.Invalidate(ctx)

	s.logger.Info("contact message received",
		"category", model.EventCategoryContact, "message_id", msg.ID, "subject", msg.Subject)

	if s.notifier != nil {
		err := s.notifier.NotifyContact(ctx, notify.ContactSubmission{
			Name:    msg.Name,
			Email:   msg.Email,
			Phone:   msg.Phone,
			Subject: msg.Subject,
			Message: msg.Message,
		})
		if err != nil {
			s.logger.Warn("contact notification failed",
				"category", model.EventCategoryContact, "message_id", msg.ID, "error", err)
		}
	}

	return msg, nil
}
