// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures the admin session manager.
package session

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

const (
	// Lifetime is the absolute lifetime of an admin session.
	Lifetime = 24 * time.Hour
	// IdleTimeout ends sessions that saw no requests for this long.
	IdleTimeout = 2 * time.Hour

	cookieName       = "aura_session"
	secureCookieName = "__Host-aura_session"
)

// New creates a session manager backed by the sessions table in db.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)

	sm.Lifetime = Lifetime
	sm.IdleTimeout = IdleTimeout
	sm.Cookie.Name = cookieName
	sm.Cookie.Path = "/"
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode

	// __Host- cookies must be Secure, so the prefix is only used over HTTPS.
	if !isDev {
		sm.Cookie.Secure = true
		sm.Cookie.Name = secureCookieName
	}

	return sm
}
