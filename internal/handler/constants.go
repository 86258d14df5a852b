// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Redirect targets used by the handlers.
const (
	redirectContact   = "/contact"
	redirectLogin     = "/auth/login"
	redirectSetup     = "/setup-admin"
	redirectDashboard = "/admin/dashboard"
	redirectMessages  = "/admin/messages"
	redirectChatbot   = "/admin/chatbot"
	redirectProfile   = "/admin/profile"
)

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteParamID is the ID parameter pattern.
	RouteParamID = "/{id}"
	// RouteLogin is the login path under /auth and the legacy top-level path.
	RouteLogin = "/login"
)

// contentDispositionCSV is the header value pattern for CSV downloads.
const contentDispositionCSV = "attachment; filename=%q"
