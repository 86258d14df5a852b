// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"time"
)

// SessionFinalizer closes idle visitor sessions.
type SessionFinalizer interface {
	FinalizeSessions(ctx context.Context, idle time.Duration) (int, error)
}

// EventPruner deletes old event log entries.
type EventPruner interface {
	DeleteOldEvents(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Reloader reloads a file-backed resource.
type Reloader interface {
	Reload() error
}

// FinalizeSessionsJob finalizes visitor sessions idle longer than idle.
func FinalizeSessionsJob(f SessionFinalizer, idle time.Duration) Job {
	return Job{
		Name:        "finalize_sessions",
		Description: "Compute duration and bounce for idle visitor sessions",
		Schedule:    "*/5 * * * *",
		Run: func(ctx context.Context) error {
			_, err := f.FinalizeSessions(ctx, idle)
			return err
		},
	}
}

// PruneEventsJob removes event log entries older than retention.
func PruneEventsJob(p EventPruner, retention time.Duration) Job {
	return Job{
		Name:        "prune_events",
		Description: "Delete event log entries past the retention period",
		Schedule:    "30 3 * * *",
		Run: func(ctx context.Context) error {
			_, err := p.DeleteOldEvents(ctx, retention)
			return err
		},
	}
}

// ReloadGeoIPJob reloads the GeoIP database when the file has changed.
func ReloadGeoIPJob(r Reloader) Job {
	return Job{
		Name:        "reload_geoip",
		Description: "Reload the GeoIP country database",
		Schedule:    "0 4 * * *",
		Run:         func(context.Context) error { return r.Reload() },
	}
}
