// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import "strings"

const uniqueFailedMarker = "UNIQUE constraint failed: "

// IsUniqueViolation checks if an error is a SQLite UNIQUE constraint violation.
func IsUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), uniqueFailedMarker)
}

// UniqueViolationColumn returns the "table.column" named in a UNIQUE
// constraint failure, or "" when err is not one.
func UniqueViolationColumn(err error) string {
	if !IsUniqueViolation(err) {
		return ""
	}
	msg := err.Error()
	rest := msg[strings.Index(msg, uniqueFailedMarker)+len(uniqueFailedMarker):]
	if j := strings.IndexAny(rest, " ,)"); j >= 0 {
		rest = rest[:j]
	}
	return rest
}
