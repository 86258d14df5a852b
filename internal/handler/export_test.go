// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import "testing"

func TestEscapeCSVCell(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Ana", "Ana"},
		{"a=b", "a=b"},
		{"=SUM(A1)", "'=SUM(A1)"},
		{"+1 555", "'+1 555"},
		{"-2", "'-2"},
		{"@cmd", "'@cmd"},
		{"\tx", "'\tx"},
	}
	for _, tt := range tests {
		if got := escapeCSVCell(tt.in); got != tt.want {
			t.Errorf("escapeCSVCell(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
