// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/aura/internal/store"
	"github.com/olegiv/aura/internal/testutil"
)

const (
	chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	iphoneUA = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	botUA    = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"
)

type fixedCountry string

func (f fixedCountry) Country(string) string { return string(f) }

func TestParseUserAgent(t *testing.T) {
	tests := []struct {
		name       string
		ua         string
		browser    string
		deviceType string
		bot        bool
	}{
		{"chrome desktop", chromeUA, "Chrome", "desktop", false},
		{"iphone", iphoneUA, "Safari", "mobile", false},
		{"googlebot", botUA, "", "bot", true},
		{"empty", "", "Unknown", "desktop", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ParseUserAgent(tt.ua)
			if tt.browser != "" {
				assert.Equal(t, tt.browser, p.Browser)
			}
			assert.Equal(t, tt.deviceType, p.DeviceType)
			assert.Equal(t, tt.bot, p.Bot)
		})
	}
}

func TestTrackPageView(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	svc := NewAnalyticsService(db, fixedCountry("DE"), testutil.TestLogger())
	ctx := context.Background()

	for _, page := range []string{"/", "/services", "/"} {
		recorded, err := svc.TrackPageView(ctx, PageViewInput{
			SessionID: "sess-1",
			PageURL:   page,
			UserAgent: chromeUA,
			IP:        "203.0.113.9",
		})
		require.NoError(t, err)
		assert.True(t, recorded)
	}

	vs, err := store.New(db).GetVisitorSession(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), vs.PageViewsCount)

	overview, err := svc.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), overview.TotalVisitors)
	assert.Equal(t, int64(3), overview.TotalPageViews)
	assert.Equal(t, int64(1), overview.ActiveSessions)
	require.NotEmpty(t, overview.TopPages)
	assert.Equal(t, "/", overview.TopPages[0].PageUrl)
	assert.Equal(t, int64(2), overview.TopPages[0].Views)
	require.Len(t, overview.RecentViews, 3)
	assert.Equal(t, "DE", overview.RecentViews[0].CountryCode)
	assert.Equal(t, "desktop", overview.RecentViews[0].DeviceType)
}

func TestTrackPageView_SkipsBots(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	svc := NewAnalyticsService(db, nil, testutil.TestLogger())
	recorded, err := svc.TrackPageView(context.Background(), PageViewInput{
		SessionID: "bot", PageURL: "/", UserAgent: botUA,
	})
	require.NoError(t, err)
	assert.False(t, recorded)
	assert.Equal(t, 0, countRows(t, db, "page_views"))
}

func TestTrackPageView_Validation(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	svc := NewAnalyticsService(db, nil, testutil.TestLogger())
	_, err := svc.TrackPageView(context.Background(), PageViewInput{UserAgent: chromeUA})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "session_id")
	assert.Contains(t, verr.Fields, "page_url")
}

func TestRealtime_ActiveWindow(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	svc := NewAnalyticsService(db, nil, testutil.TestLogger())
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	svc.now = func() time.Time { return now.Add(-time.Hour) }
	_, err := svc.TrackPageView(ctx, PageViewInput{SessionID: "old", PageURL: "/", UserAgent: chromeUA})
	require.NoError(t, err)

	svc.now = func() time.Time { return now.Add(-5 * time.Minute) }
	_, err = svc.TrackPageView(ctx, PageViewInput{SessionID: "fresh", PageURL: "/", UserAgent: chromeUA})
	require.NoError(t, err)

	svc.now = func() time.Time { return now }
	rt, err := svc.Realtime(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), rt.TotalVisitors)
	assert.Equal(t, int64(2), rt.TotalPageViews)
	assert.Equal(t, int64(1), rt.ActiveSessions)
	assert.True(t, rt.Timestamp.Equal(now))
}

func TestFinalizeSessions(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	svc := NewAnalyticsService(db, nil, testutil.TestLogger())
	ctx := context.Background()
	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	svc.now = func() time.Time { return start }
	_, err := svc.TrackPageView(ctx, PageViewInput{SessionID: "multi", PageURL: "/", UserAgent: chromeUA})
	require.NoError(t, err)
	_, err = svc.TrackPageView(ctx, PageViewInput{SessionID: "single", PageURL: "/", UserAgent: chromeUA})
	require.NoError(t, err)

	svc.now = func() time.Time { return start.Add(90 * time.Second) }
	_, err = svc.TrackPageView(ctx, PageViewInput{SessionID: "multi", PageURL: "/contact", UserAgent: chromeUA})
	require.NoError(t, err)

	svc.now = func() time.Time { return start.Add(2 * time.Hour) }
	n, err := svc.FinalizeSessions(ctx, 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	q := store.New(db)
	multi, err := q.GetVisitorSession(ctx, "multi")
	require.NoError(t, err)
	assert.Equal(t, int64(90), multi.DurationSeconds)
	assert.False(t, multi.IsBounce)
	assert.True(t, multi.Finalized)

	single, err := q.GetVisitorSession(ctx, "single")
	require.NoError(t, err)
	assert.Equal(t, int64(0), single.DurationSeconds)
	assert.True(t, single.IsBounce)

	n, err = svc.FinalizeSessions(ctx, 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
