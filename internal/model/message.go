// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Contact message workflow statuses.
const (
	MessageStatusNew       = "new"
	MessageStatusPending   = "pending"
	MessageStatusResponded = "responded"
	MessageStatusClosed    = "closed"
)

// Contact message priorities.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// MessageStatusCycle is the order in which admins advance a message.
// The status after the last entry wraps around to the first.
var MessageStatusCycle = []string{
	MessageStatusNew,
	MessageStatusPending,
	MessageStatusResponded,
	MessageStatusClosed,
}

// Priorities lists the accepted priority values.
var Priorities = []string{PriorityHigh, PriorityMedium, PriorityLow}

// NextMessageStatus returns the status that follows current in the cycle.
// ok is false when current is not a known status.
func NextMessageStatus(current string) (next string, ok bool) {
	i := slices.Index(MessageStatusCycle, current)
	if i < 0 {
		return "", false
	}
	return MessageStatusCycle[(i+1)%len(MessageStatusCycle)], true
}

// IsValidMessageStatus reports whether s is one of the workflow statuses.
func IsValidMessageStatus(s string) bool {
	return slices.Contains(MessageStatusCycle, s)
}

// IsValidPriority reports whether p is an accepted priority.
func IsValidPriority(p string) bool {
	return slices.Contains(Priorities, p)
}

var titleCaser = cases.Title(language.English)

// StatusLabel turns a stored status such as "follow_up" into "Follow Up".
func StatusLabel(s string) string {
	return titleCaser.String(strings.ReplaceAll(s, "_", " "))
}
