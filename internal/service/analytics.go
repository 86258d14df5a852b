// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/mileusna/useragent"

	"github.com/olegiv/aura/internal/model"
	"github.com/olegiv/aura/internal/store"
)

const (
	// ActiveWindow is how recently a visitor session must have been active
	// to count as active.
	ActiveWindow = 30 * time.Minute

	topPagesLimit    = 10
	recentViewsLimit = 100
	finalizeBatch    = 500
)

// CountryLookup resolves an IP address to an ISO country code.
type CountryLookup interface {
	Country(ip string) string
}

// PageViewInput is one page view reported by the tracking script.
type PageViewInput struct {
	SessionID string
	PageURL   string
	PageTitle string
	Referrer  string
	UserAgent string
	IP        string
	UserID    int64
}

// ParsedUA holds the fields extracted from a user agent string.
type ParsedUA struct {
	Browser    string
	OS         string
	DeviceType string
	Bot        bool
}

// ParseUserAgent extracts browser, OS and device type from a user agent.
func ParseUserAgent(s string) ParsedUA {
	ua := useragent.Parse(s)

	p := ParsedUA{Browser: ua.Name, OS: ua.OS, Bot: ua.Bot}
	if p.Browser == "" {
		p.Browser = "Unknown"
	}
	if p.OS == "" {
		p.OS = "Unknown"
	}

	switch {
	case ua.Mobile:
		p.DeviceType = "mobile"
	case ua.Tablet:
		p.DeviceType = "tablet"
	case ua.Bot:
		p.DeviceType = "bot"
	default:
		p.DeviceType = "desktop"
	}
	return p
}

// RealtimeStats is the payload of the realtime analytics endpoint.
type RealtimeStats struct {
	TotalVisitors  int64     `json:"total_visitors"`
	TotalPageViews int64     `json:"total_page_views"`
	ActiveSessions int64     `json:"active_sessions"`
	Timestamp      time.Time `json:"timestamp"`
}

// AnalyticsOverview is the admin analytics page data.
type AnalyticsOverview struct {
	TotalVisitors  int64
	TotalPageViews int64
	ActiveSessions int64
	TopPages       []store.TopPagesRow
	RecentViews    []store.PageView
}

// AnalyticsService records page views and visitor sessions.
type AnalyticsService struct {
	db      *sql.DB
	queries *store.Queries
	geo     CountryLookup
	logger  *slog.Logger
	now     func() time.Time
}

// NewAnalyticsService creates an AnalyticsService. geo may be nil.
func NewAnalyticsService(db *sql.DB, geo CountryLookup, logger *slog.Logger) *AnalyticsService {
	return &AnalyticsService{
		db:      db,
		queries: store.New(db),
		geo:     geo,
		logger:  logger,
		now:     time.Now,
	}
}

// TrackPageView upserts the visitor session and stores the page view in one
// transaction. Views from bots are ignored and reported as not recorded.
func (s *AnalyticsService) TrackPageView(ctx context.Context, in PageViewInput) (bool, error) {
	v := validation{}
	if in.SessionID == "" {
		v.add("session_id", "session_id is required")
	}
	if in.PageURL == "" {
		v.add("page_url", "page_url is required")
	}
	if err := v.err(); err != nil {
		return false, err
	}

	ua := ParseUserAgent(in.UserAgent)
	if ua.Bot {
		return false, nil
	}

	var country string
	if s.geo != nil {
		country = s.geo.Country(in.IP)
	}
	var userID sql.NullInt64
	if in.UserID > 0 {
		userID = sql.NullInt64{Int64: in.UserID, Valid: true}
	}

	now := s.now().UTC()
	err := store.InTx(ctx, s.db, func(q *store.Queries) error {
		if _, err := q.UpsertVisitorSession(ctx, store.UpsertVisitorSessionParams{
			SessionID:    in.SessionID,
			IpAddress:    in.IP,
			UserAgent:    in.UserAgent,
			StartTime:    now,
			LastActivity: now,
			UserID:       userID,
		}); err != nil {
			return fmt.Errorf("upserting visitor session: %w", err)
		}
		if _, err := q.CreatePageView(ctx, store.CreatePageViewParams{
			PageUrl:     in.PageURL,
			PageTitle:   in.PageTitle,
			IpAddress:   in.IP,
			UserAgent:   in.UserAgent,
			Referrer:    in.Referrer,
			SessionID:   in.SessionID,
			UserID:      userID,
			Browser:     ua.Browser,
			Os:          ua.OS,
			DeviceType:  ua.DeviceType,
			CountryCode: country,
			CreatedAt:   now,
		}); err != nil {
			return fmt.Errorf("creating page view: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// Realtime returns visitor and page view totals and the number of sessions
// active within ActiveWindow.
func (s *AnalyticsService) Realtime(ctx context.Context) (RealtimeStats, error) {
	now := s.now().UTC()
	st := RealtimeStats{Timestamp: now}
	var err error
	if st.TotalVisitors, err = s.queries.CountVisitorSessions(ctx); err != nil {
		return st, fmt.Errorf("counting visitors: %w", err)
	}
	if st.TotalPageViews, err = s.queries.CountPageViews(ctx); err != nil {
		return st, fmt.Errorf("counting page views: %w", err)
	}
	if st.ActiveSessions, err = s.queries.CountActiveVisitorSessions(ctx, now.Add(-ActiveWindow)); err != nil {
		return st, fmt.Errorf("counting active sessions: %w", err)
	}
	return st, nil
}

// Overview returns totals, the most viewed pages and the latest views.
func (s *AnalyticsService) Overview(ctx context.Context) (AnalyticsOverview, error) {
	rt, err := s.Realtime(ctx)
	if err != nil {
		return AnalyticsOverview{}, err
	}
	o := AnalyticsOverview{
		TotalVisitors:  rt.TotalVisitors,
		TotalPageViews: rt.TotalPageViews,
		ActiveSessions: rt.ActiveSessions,
	}
	if o.TopPages, err = s.queries.TopPages(ctx, topPagesLimit); err != nil {
		return o, fmt.Errorf("listing top pages: %w", err)
	}
	if o.RecentViews, err = s.queries.ListRecentPageViews(ctx, recentViewsLimit); err != nil {
		return o, fmt.Errorf("listing recent views: %w", err)
	}
	return o, nil
}

// FinalizeSessions computes duration and bounce for sessions idle longer
// than idle and returns the number finalized.
func (s *AnalyticsService) FinalizeSessions(ctx context.Context, idle time.Duration) (int, error) {
	cutoff := s.now().UTC().Add(-idle)
	total := 0
	for {
		sessions, err := s.queries.ListIdleVisitorSessions(ctx, store.ListIdleVisitorSessionsParams{
			Before: cutoff,
			Limit:  finalizeBatch,
		})
		if err != nil {
			return total, fmt.Errorf("listing idle sessions: %w", err)
		}
		if len(sessions) == 0 {
			break
		}
		for _, vs := range sessions {
			duration := vs.LastActivity.Sub(vs.StartTime)
			if duration < 0 {
				duration = 0
			}
			if err := s.queries.FinalizeVisitorSession(ctx, store.FinalizeVisitorSessionParams{
				DurationSeconds: int64(duration / time.Second),
				IsBounce:        vs.PageViewsCount <= 1,
				ID:              vs.ID,
			}); err != nil {
				return total, fmt.Errorf("finalizing session %d: %w", vs.ID, err)
			}
			total++
		}
		if len(sessions) < finalizeBatch {
			break
		}
	}
	if total > 0 {
		s.logger.Info("visitor sessions finalized", "category", model.EventCategoryAnalytics, "count", total)
	}
	return total, nil
}
