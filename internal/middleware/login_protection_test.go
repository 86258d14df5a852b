// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func silentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testClock is a manually advanced clock.
type testClock struct{ t time.Time }

func (c *testClock) now() time.Time          { return c.t }
func (c *testClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// newTestLoginProtection returns a LoginProtection driven by a manual clock.
func newTestLoginProtection(t *testing.T, maxAttempts int, lockoutDuration, attemptWindow time.Duration) (*LoginProtection, *testClock) {
	t.Helper()
	lp := NewLoginProtection(LoginProtectionConfig{
		IPRateLimit:       10,
		IPBurst:           100,
		MaxFailedAttempts: maxAttempts,
		LockoutDuration:   lockoutDuration,
		AttemptWindow:     attemptWindow,
	}, silentLogger())
	t.Cleanup(lp.Stop)

	clock := &testClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	lp.now = clock.now
	return lp, clock
}

func TestDefaultLoginProtectionConfig(t *testing.T) {
	cfg := DefaultLoginProtectionConfig()

	if cfg.IPRateLimit != 0.5 {
		t.Errorf("IPRateLimit = %v, want 0.5", cfg.IPRateLimit)
	}
	if cfg.IPBurst != 5 {
		t.Errorf("IPBurst = %d, want 5", cfg.IPBurst)
	}
	if cfg.MaxFailedAttempts != 5 {
		t.Errorf("MaxFailedAttempts = %d, want 5", cfg.MaxFailedAttempts)
	}
	if cfg.LockoutDuration != 15*time.Minute {
		t.Errorf("LockoutDuration = %v, want 15m", cfg.LockoutDuration)
	}
	if cfg.AttemptWindow != 15*time.Minute {
		t.Errorf("AttemptWindow = %v, want 15m", cfg.AttemptWindow)
	}
}

func TestNewLoginProtectionDefaultValues(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{}, silentLogger())
	defer lp.Stop()

	if lp.maxFailedAttempts != 5 {
		t.Errorf("maxFailedAttempts = %d, want 5 (default)", lp.maxFailedAttempts)
	}
	if lp.lockoutDuration != 15*time.Minute {
		t.Errorf("lockoutDuration = %v, want 15m (default)", lp.lockoutDuration)
	}
	if lp.attemptWindow != 15*time.Minute {
		t.Errorf("attemptWindow = %v, want 15m (default)", lp.attemptWindow)
	}
}

func TestLoginProtectionStopIsIdempotent(t *testing.T) {
	lp := NewLoginProtection(DefaultLoginProtectionConfig(), silentLogger())
	lp.Stop()
	lp.Stop()
}

func TestLoginProtectionIsAccountLocked(t *testing.T) {
	lp, clock := newTestLoginProtection(t, 3, time.Minute, 10*time.Minute)
	email := "admin@aura.test"

	if locked, _ := lp.IsAccountLocked(email); locked {
		t.Error("Account should not be locked initially")
	}

	for range 3 {
		lp.RecordFailedAttempt(email)
	}

	locked, remaining := lp.IsAccountLocked(email)
	if !locked {
		t.Fatal("Account should be locked after max failed attempts")
	}
	if remaining != time.Minute {
		t.Errorf("remaining = %v, want 1m", remaining)
	}

	clock.advance(time.Minute + time.Second)
	if locked, _ := lp.IsAccountLocked(email); locked {
		t.Error("Account should be unlocked after lockout expires")
	}
}

func TestLoginProtectionEmailIsCaseInsensitive(t *testing.T) {
	lp, _ := newTestLoginProtection(t, 2, time.Minute, 10*time.Minute)

	lp.RecordFailedAttempt("Admin@Aura.test")
	locked, _ := lp.RecordFailedAttempt(" admin@aura.test ")
	if !locked {
		t.Error("differently cased emails should count against the same account")
	}
	if locked, _ := lp.IsAccountLocked("ADMIN@AURA.TEST"); !locked {
		t.Error("lookup should ignore case")
	}
}

func TestLoginProtectionRecordFailedAttempt(t *testing.T) {
	lp, _ := newTestLoginProtection(t, 3, time.Minute, 10*time.Minute)
	email := "admin@aura.test"

	if locked, _ := lp.RecordFailedAttempt(email); locked {
		t.Error("First attempt should not lock account")
	}
	if locked, _ := lp.RecordFailedAttempt(email); locked {
		t.Error("Second attempt should not lock account")
	}
	locked, duration := lp.RecordFailedAttempt(email)
	if !locked {
		t.Error("Third attempt should lock account")
	}
	if duration != time.Minute {
		t.Errorf("Lock duration = %v, want 1m", duration)
	}
}

func TestLoginProtectionRecordSuccessfulLogin(t *testing.T) {
	lp, _ := newTestLoginProtection(t, 3, time.Minute, 10*time.Minute)
	email := "admin@aura.test"

	lp.RecordFailedAttempt(email)
	lp.RecordFailedAttempt(email)
	lp.RecordSuccessfulLogin(email)

	if remaining := lp.RemainingAttempts(email); remaining != 3 {
		t.Errorf("RemainingAttempts() = %d, want 3", remaining)
	}
}

func TestLoginProtectionRemainingAttempts(t *testing.T) {
	lp, clock := newTestLoginProtection(t, 5, time.Minute, 10*time.Minute)
	email := "admin@aura.test"

	if remaining := lp.RemainingAttempts(email); remaining != 5 {
		t.Errorf("RemainingAttempts() = %d, want 5", remaining)
	}

	lp.RecordFailedAttempt(email)
	if remaining := lp.RemainingAttempts(email); remaining != 4 {
		t.Errorf("RemainingAttempts() = %d, want 4", remaining)
	}

	lp.RecordFailedAttempt(email)
	lp.RecordFailedAttempt(email)
	if remaining := lp.RemainingAttempts(email); remaining != 2 {
		t.Errorf("RemainingAttempts() = %d, want 2", remaining)
	}

	clock.advance(11 * time.Minute)
	if remaining := lp.RemainingAttempts(email); remaining != 5 {
		t.Errorf("RemainingAttempts() after window = %d, want 5", remaining)
	}
}

func TestLoginProtectionExponentialBackoff(t *testing.T) {
	lp, clock := newTestLoginProtection(t, 2, time.Minute, time.Hour)
	email := "admin@aura.test"

	lp.RecordFailedAttempt(email)
	_, first := lp.RecordFailedAttempt(email)
	clock.advance(first + time.Second)

	lp.RecordFailedAttempt(email)
	_, second := lp.RecordFailedAttempt(email)

	if first != time.Minute || second != 2*time.Minute {
		t.Errorf("lockouts = %v, %v; want 1m, 2m", first, second)
	}
}

func TestLoginProtectionBackoffIsCapped(t *testing.T) {
	lp, clock := newTestLoginProtection(t, 1, 10*time.Hour, 1000*time.Hour)
	email := "admin@aura.test"

	var last time.Duration
	for range 4 {
		_, last = lp.RecordFailedAttempt(email)
		clock.advance(last + time.Second)
	}
	if last != maxLockout {
		t.Errorf("lockout = %v, want %v", last, maxLockout)
	}
}

func TestLoginProtectionCleanupStaleEntries(t *testing.T) {
	lp, clock := newTestLoginProtection(t, 5, time.Minute, 10*time.Minute)

	lp.RecordFailedAttempt("old@aura.test")
	clock.advance(11 * time.Minute)
	lp.RecordFailedAttempt("fresh@aura.test")

	lp.cleanupStaleEntries()

	lp.attemptsMu.RLock()
	defer lp.attemptsMu.RUnlock()
	if _, ok := lp.failedAttempts["old@aura.test"]; ok {
		t.Error("stale entry should be removed")
	}
	if _, ok := lp.failedAttempts["fresh@aura.test"]; !ok {
		t.Error("fresh entry should be kept")
	}
}

func TestLoginProtectionMiddleware(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{IPRateLimit: 0.001, IPBurst: 2}, silentLogger())
	defer lp.Stop()

	wrapped := lp.Middleware()(okHandler())

	post := func() int {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "203.0.113.9:4000"
		rr := httptest.NewRecorder()
		wrapped.ServeHTTP(rr, req)
		return rr.Code
	}

	for i := range 5 {
		req := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
		req.RemoteAddr = "203.0.113.9:4000"
		rr := httptest.NewRecorder()
		wrapped.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("GET %d status = %d, want 200", i, rr.Code)
		}
	}

	if code := post(); code != http.StatusOK {
		t.Errorf("first POST status = %d, want 200", code)
	}
	if code := post(); code != http.StatusOK {
		t.Errorf("second POST status = %d, want 200", code)
	}
	if code := post(); code != http.StatusTooManyRequests {
		t.Errorf("third POST status = %d, want 429", code)
	}
}
