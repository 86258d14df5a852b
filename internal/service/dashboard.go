// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/aura/internal/cache"
	"github.com/olegiv/aura/internal/model"
	"github.com/olegiv/aura/internal/store"
)

const (
	dashboardCountersKey = "dashboard:counters"
	dashboardRecentLimit = 5

	// DefaultDashboardTTL bounds how stale cached counters can be.
	DefaultDashboardTTL = 60 * time.Second
)

// DashboardCounters is the cached block of dashboard aggregates.
type DashboardCounters struct {
	Messages            MessageStats `json:"messages"`
	Conversations       int64        `json:"conversations"`
	ActiveConversations int64        `json:"active_conversations"`
	PageViews           int64        `json:"page_views"`
	Visitors            int64        `json:"visitors"`
}

// Dashboard is the admin dashboard data.
type Dashboard struct {
	Counters            DashboardCounters
	RecentMessages      []store.ContactMessage
	RecentConversations []store.ChatbotConversation
}

// DashboardService aggregates dashboard data and caches the counters.
type DashboardService struct {
	queries  *store.Queries
	messages *MessageService
	counters *cache.TypedCache[DashboardCounters]
	logger   *slog.Logger
}

// NewDashboardService creates a DashboardService caching counters in c.
func NewDashboardService(db *sql.DB, c cache.Cache, ttl time.Duration, logger *slog.Logger) *DashboardService {
	if ttl <= 0 {
		ttl = DefaultDashboardTTL
	}
	return &DashboardService{
		queries:  store.New(db),
		messages: NewMessageService(db, logger, nil),
		counters: cache.NewTypedCache[DashboardCounters](c, ttl),
		logger:   logger,
	}
}

// Invalidate drops the cached counters.
func (s *DashboardService) Invalidate(ctx context.Context) {
	if err := s.counters.Delete(ctx, dashboardCountersKey); err != nil {
		s.logger.Warn("failed to invalidate dashboard counters",
			"category", model.EventCategoryCache, "error", err)
	}
}

// Counters returns the cached counters, recomputing them on a miss.
func (s *DashboardService) Counters(ctx context.Context) (DashboardCounters, error) {
	return s.counters.GetOrLoad(ctx, dashboardCountersKey, s.loadCounters)
}

// Get returns the full dashboard.
func (s *DashboardService) Get(ctx context.Context) (Dashboard, error) {
	counters, err := s.Counters(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	d := Dashboard{Counters: counters}
	if d.RecentMessages, err = s.queries.ListRecentContactMessages(ctx, dashboardRecentLimit); err != nil {
		return d, fmt.Errorf("listing recent messages: %w", err)
	}
	if d.RecentConversations, err = s.queries.ListRecentConversations(ctx, dashboardRecentLimit); err != nil {
		return d, fmt.Errorf("listing recent conversations: %w", err)
	}
	return d, nil
}

func (s *DashboardService) loadCounters(ctx context.Context) (DashboardCounters, error) {
	var c DashboardCounters
	var err error
	if c.Messages, err = s.messages.Counts(ctx); err != nil {
		return c, err
	}
	if c.Conversations, err = s.queries.CountConversations(ctx); err != nil {
		return c, fmt.Errorf("counting conversations: %w", err)
	}
	if c.ActiveConversations, err = s.queries.CountConversationsByStatus(ctx, model.ConversationStatusActive); err != nil {
		return c, fmt.Errorf("counting active conversations: %w", err)
	}
	if c.PageViews, err = s.queries.CountPageViews(ctx); err != nil {
		return c, fmt.Errorf("counting page views: %w", err)
	}
	if c.Visitors, err = s.queries.CountVisitorSessions(ctx); err != nil {
		return c, fmt.Errorf("counting visitors: %w", err)
	}
	return c, nil
}

var _ Invalidator = (*DashboardService)(nil)
