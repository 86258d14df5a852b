// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import "testing"

func TestResponder_Reply(t *testing.T) {
	r := NewResponder()

	tests := []struct {
		in   string
		want string
	}{
		{"Hi!", "Hello! How can I help you today?"},
		{"HELLO there", "Hi there! Welcome to Aura. How can we assist you?"},
		{"which one", "Hello! How can I help you today?"},
		{"What services do you offer?", "We offer web development, software development, and digital marketing services. Which interests you?"},
		{"price?", "Please contact us for customized pricing based on your requirements."},
		{"", DefaultReply},
		{"good morning", DefaultReply},
	}
	for _, tt := range tests {
		if got := r.Reply(tt.in); got != tt.want {
			t.Errorf("Reply(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
