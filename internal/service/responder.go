// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import "strings"

type keywordReply struct {
	keyword string
	reply   string
}

// DefaultReply is returned when no keyword matches.
const DefaultReply = "Thank you for your message! Our team will get back to you shortly. For urgent inquiries, please use the contact form."

// Responder answers chat messages from a fixed keyword table.
type Responder struct {
	table    []keywordReply
	fallback string
}

// NewResponder returns the site's keyword responder.
func NewResponder() *Responder {
	return &Responder{
		table: []keywordReply{
			{"hi", "Hello! How can I help you today?"},
			{"hello", "Hi there! Welcome to Aura. How can we assist you?"},
			{"services", "We offer web development, software development, and digital marketing services. Which interests you?"},
			{"price", "Please contact us for customized pricing based on your requirements."},
		},
		fallback: DefaultReply,
	}
}

// Reply returns the reply for the first keyword contained in message,
// compared case-insensitively, or the default reply.
func (r *Responder) Reply(message string) string {
	lower := strings.ToLower(message)
	for _, kr := range r.table {
		if strings.Contains(lower, kr.keyword) {
			return kr.reply
		}
	}
	return r.fallback
}
