// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "slices"

// Chatbot conversation statuses.
const (
	ConversationStatusActive    = "active"
	ConversationStatusCompleted = "completed"
	ConversationStatusFollowUp  = "follow_up"
	ConversationStatusArchived  = "archived"
)

// ConversationStatuses lists every accepted conversation status.
var ConversationStatuses = []string{
	ConversationStatusActive,
	ConversationStatusCompleted,
	ConversationStatusFollowUp,
	ConversationStatusArchived,
}

// IsValidConversationStatus reports whether s is an accepted conversation status.
func IsValidConversationStatus(s string) bool {
	return slices.Contains(ConversationStatuses, s)
}

// Chatbot message senders.
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// DefaultInquirySubject is used for unknown or missing inquiry types.
const DefaultInquirySubject = "General Inquiry"

// inquirySubjects maps contact form inquiry types to message subjects.
var inquirySubjects = map[string]string{
	"general":     "General Inquiry",
	"web":         "Web Development Inquiry",
	"software":    "Software Development Inquiry",
	"marketing":   "Digital Marketing Inquiry",
	"support":     "Technical Support",
	"partnership": "Partnership Opportunity",
}

// InquirySubject returns the subject line for an inquiry type.
func InquirySubject(inquiryType string) string {
	if s, ok := inquirySubjects[inquiryType]; ok {
		return s
	}
	return DefaultInquirySubject
}
