// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package geoip

import (
	"path/filepath"
	"testing"
)

func TestOpen_EmptyPathDisabled(t *testing.T) {
	l, err := Open("")
	if err != nil {
		t.Fatalf("Open(\"\") error: %v", err)
	}
	if l.Enabled() {
		t.Error("Enabled() = true without a database")
	}
	if err := l.Reload(); err != nil {
		t.Errorf("Reload() error: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}

func TestOpen_MissingFile(t *testing.T) {
	l, err := Open(filepath.Join(t.TempDir(), "missing.mmdb"))
	if err == nil {
		t.Fatal("Open() expected error for missing file")
	}
	if l == nil || l.Enabled() {
		t.Error("Open() should return a disabled Lookup on error")
	}
}

func TestCountry_WithoutDatabase(t *testing.T) {
	var l Lookup

	tests := []struct {
		ip   string
		want string
	}{
		{"127.0.0.1", LocalCountry},
		{"::1", LocalCountry},
		{"10.1.2.3", LocalCountry},
		{"192.168.0.10", LocalCountry},
		{"172.20.0.1", LocalCountry},
		{"fd00::1", LocalCountry},
		{"::ffff:192.168.1.1", LocalCountry},
		{"8.8.8.8", ""},
		{"not-an-ip", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := l.Country(tt.ip); got != tt.want {
			t.Errorf("Country(%q) = %q, want %q", tt.ip, got, tt.want)
		}
	}
}
