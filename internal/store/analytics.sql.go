// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const visitorSessionColumns = `id, session_id, ip_address, user_agent, start_time, last_activity, page_views_count, duration_seconds, user_id, is_bounce, finalized`

func scanVisitorSession(row interface{ Scan(...any) error }) (VisitorSession, error) {
	var i VisitorSession
	err := row.Scan(
		&i.ID,
		&i.SessionID,
		&i.IpAddress,
		&i.UserAgent,
		&i.StartTime,
		&i.LastActivity,
		&i.PageViewsCount,
		&i.DurationSeconds,
		&i.UserID,
		&i.IsBounce,
		&i.Finalized,
	)
	return i, err
}

const upsertVisitorSession = `-- name: UpsertVisitorSession :one
INSERT INTO visitor_sessions (session_id, ip_address, user_agent, start_time, last_activity, page_views_count, user_id)
VALUES (?, ?, ?, ?, ?, 1, ?)
ON CONFLICT(session_id) DO UPDATE SET
    page_views_count = visitor_sessions.page_views_count + 1,
    last_activity = excluded.last_activity,
    user_id = COALESCE(excluded.user_id, visitor_sessions.user_id),
    finalized = 0
RETURNING ` + visitorSessionColumns

type UpsertVisitorSessionParams struct {
	SessionID    string        `json:"session_id"`
	IpAddress    string        `json:"ip_address"`
	UserAgent    string        `json:"user_agent"`
	StartTime    time.Time     `json:"start_time"`
	LastActivity time.Time     `json:"last_activity"`
	UserID       sql.NullInt64 `json:"user_id"`
}

// UpsertVisitorSession creates the session on its first page view and bumps
// the view counter on every later one.
func (q *Queries) UpsertVisitorSession(ctx context.Context, arg UpsertVisitorSessionParams) (VisitorSession, error) {
	row := q.db.QueryRowContext(ctx, upsertVisitorSession,
		arg.SessionID,
		arg.IpAddress,
		arg.UserAgent,
		arg.StartTime,
		arg.LastActivity,
		arg.UserID,
	)
	return scanVisitorSession(row)
}

const getVisitorSession = `-- name: GetVisitorSession :one
SELECT ` + visitorSessionColumns + ` FROM visitor_sessions WHERE session_id = ?`

func (q *Queries) GetVisitorSession(ctx context.Context, sessionID string) (VisitorSession, error) {
	return scanVisitorSession(q.db.QueryRowContext(ctx, getVisitorSession, sessionID))
}

const listIdleVisitorSessions = `-- name: ListIdleVisitorSessions :many
SELECT ` + visitorSessionColumns + ` FROM visitor_sessions
WHERE finalized = 0 AND last_activity < ?
ORDER BY id LIMIT ?`

type ListIdleVisitorSessionsParams struct {
	Before time.Time `json:"before"`
	Limit  int64     `json:"limit"`
}

func (q *Queries) ListIdleVisitorSessions(ctx context.Context, arg ListIdleVisitorSessionsParams) ([]VisitorSession, error) {
	rows, err := q.db.QueryContext(ctx, listIdleVisitorSessions, arg.Before, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []VisitorSession
	for rows.Next() {
		i, err := scanVisitorSession(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const finalizeVisitorSession = `-- name: FinalizeVisitorSession :exec
UPDATE visitor_sessions SET duration_seconds = ?, is_bounce = ?, finalized = 1 WHERE id = ?`

type FinalizeVisitorSessionParams struct {
	DurationSeconds int64 `json:"duration_seconds"`
	IsBounce        bool  `json:"is_bounce"`
	ID              int64 `json:"id"`
}

func (q *Queries) FinalizeVisitorSession(ctx context.Context, arg FinalizeVisitorSessionParams) error {
	_, err := q.db.ExecContext(ctx, finalizeVisitorSession, arg.DurationSeconds, arg.IsBounce, arg.ID)
	return err
}

const countVisitorSessions = `-- name: CountVisitorSessions :one
SELECT COUNT(*) FROM visitor_sessions`

func (q *Queries) CountVisitorSessions(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countVisitorSessions).Scan(&count)
	return count, err
}

const countActiveVisitorSessions = `-- name: CountActiveVisitorSessions :one
SELECT COUNT(*) FROM visitor_sessions WHERE last_activity >= ?`

func (q *Queries) CountActiveVisitorSessions(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countActiveVisitorSessions, since).Scan(&count)
	return count, err
}

const createPageView = `-- name: CreatePageView :one
INSERT INTO page_views (page_url, page_title, ip_address, user_agent, referrer, session_id, user_id, browser, os, device_type, country_code, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id, page_url, page_title, ip_address, user_agent, referrer, session_id, user_id, browser, os, device_type, country_code, created_at`

type CreatePageViewParams struct {
	PageUrl     string        `json:"page_url"`
	PageTitle   string        `json:"page_title"`
	IpAddress   string        `json:"ip_address"`
	UserAgent   string        `json:"user_agent"`
	Referrer    string        `json:"referrer"`
	SessionID   string        `json:"session_id"`
	UserID      sql.NullInt64 `json:"user_id"`
	Browser     string        `json:"browser"`
	Os          string        `json:"os"`
	DeviceType  string        `json:"device_type"`
	CountryCode string        `json:"country_code"`
	CreatedAt   time.Time     `json:"created_at"`
}

func scanPageView(row interface{ Scan(...any) error }) (PageView, error) {
	var i PageView
	err := row.Scan(
		&i.ID,
		&i.PageUrl,
		&i.PageTitle,
		&i.IpAddress,
		&i.UserAgent,
		&i.Referrer,
		&i.SessionID,
		&i.UserID,
		&i.Browser,
		&i.Os,
		&i.DeviceType,
		&i.CountryCode,
		&i.CreatedAt,
	)
	return i, err
}

func (q *Queries) CreatePageView(ctx context.Context, arg CreatePageViewParams) (PageView, error) {
	row := q.db.QueryRowContext(ctx, createPageView,
		arg.PageUrl,
		arg.PageTitle,
		arg.IpAddress,
		arg.UserAgent,
		arg.Referrer,
		arg.SessionID,
		arg.UserID,
		arg.Browser,
		arg.Os,
		arg.DeviceType,
		arg.CountryCode,
		arg.CreatedAt,
	)
	return scanPageView(row)
}

const countPageViews = `-- name: CountPageViews :one
SELECT COUNT(*) FROM page_views`

func (q *Queries) CountPageViews(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countPageViews).Scan(&count)
	return count, err
}

const listRecentPageViews = `-- name: ListRecentPageViews :many
SELECT id, page_url, page_title, ip_address, user_agent, referrer, session_id, user_id, browser, os, device_type, country_code, created_at
FROM page_views ORDER BY created_at DESC, id DESC LIMIT ?`

func (q *Queries) ListRecentPageViews(ctx context.Context, limit int64) ([]PageView, error) {
	rows, err := q.db.QueryContext(ctx, listRecentPageViews, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []PageView
	for rows.Next() {
		i, err := scanPageView(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const topPages = `-- name: TopPages :many
SELECT page_url, COUNT(*) AS views FROM page_views
GROUP BY page_url ORDER BY views DESC, page_url LIMIT ?`

type TopPagesRow struct {
	PageUrl string `json:"page_url"`
	Views   int64  `json:"views"`
}

func (q *Queries) TopPages(ctx context.Context, limit int64) ([]TopPagesRow, error) {
	rows, err := q.db.QueryContext(ctx, topPages, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []TopPagesRow
	for rows.Next() {
		var i TopPagesRow
		if err := rows.Scan(&i.PageUrl, &i.Views); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
