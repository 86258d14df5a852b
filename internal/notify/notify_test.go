// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package notify

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type recordingMailer struct {
	sent []Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg Message) error {
	m.sent = append(m.sent, msg)
	return m.err
}

func TestContactSubject(t *testing.T) {
	got := ContactSubject("SEO Services Inquiry")
	want := "New Contact Form Submission: SEO Services Inquiry"
	if got != want {
		t.Errorf("ContactSubject() = %q, want %q", got, want)
	}
}

func TestContactNotifier_NotifyContact(t *testing.T) {
	m := &recordingMailer{}
	n, err := NewContactNotifier(m, "owner@example.com, sales@example.com", "Aura")
	if err != nil {
		t.Fatalf("NewContactNotifier: %v", err)
	}

	err = n.NotifyContact(context.Background(), ContactSubmission{
		Name:    "Ana <script>",
		Email:   "ana@example.com",
		Subject: "General Inquiry",
		Message: "Need a new website",
	})
	if err != nil {
		t.Fatalf("NotifyContact: %v", err)
	}
	if len(m.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(m.sent))
	}

	msg := m.sent[0]
	if len(msg.To) != 2 || msg.To[0] != "owner@example.com" || msg.To[1] != "sales@example.com" {
		t.Errorf("To = %v, want both recipients", msg.To)
	}
	if msg.ReplyTo != "ana@example.com" {
		t.Errorf("ReplyTo = %q, want %q", msg.ReplyTo, "ana@example.com")
	}
	if msg.Subject != "New Contact Form Submission: General Inquiry" {
		t.Errorf("Subject = %q", msg.Subject)
	}
	if strings.Contains(msg.HTMLBody, "<script>") {
		t.Error("HTML body contains unescaped markup")
	}
	if !strings.Contains(msg.HTMLBody, "mailto:ana@example.com") {
		t.Error("HTML body missing mailto link")
	}
	if !strings.Contains(msg.TextBody, "Need a new website") {
		t.Error("text body missing message")
	}
	if !strings.Contains(msg.TextBody, "automated message from Aura Contact System") {
		t.Error("text body missing footer")
	}
	if strings.Contains(msg.TextBody, "Phone:") {
		t.Error("text body should omit empty phone")
	}
}

func TestContactNotifier_MailerError(t *testing.T) {
	m := &recordingMailer{err: errors.New("relay down")}
	n, err := NewContactNotifier(m, "owner@example.com", "")
	if err != nil {
		t.Fatalf("NewContactNotifier: %v", err)
	}

	err = n.NotifyContact(context.Background(), ContactSubmission{Name: "Bo", Email: "bo@example.com", Subject: "x"})
	if err == nil {
		t.Fatal("expected error from mailer")
	}
}

func TestNewContactNotifier_InvalidRecipients(t *testing.T) {
	for _, to := range []string{"", "owner@example.com; sales", "not an address"} {
		if n, err := NewContactNotifier(&recordingMailer{}, to, "Aura"); err == nil {
			t.Errorf("NewContactNotifier(%q) = %v, want error", to, n)
		}
	}
}

func TestBuildMsg(t *testing.T) {
	mm, err := buildMsg("Aura <noreply@aura.example>", Message{
		To:       []string{"owner@example.com"},
		ReplyTo:  "ana@example.com",
		Subject:  "Hello",
		TextBody: "plain text",
		HTMLBody: "<p>html</p>",
	})
	if err != nil {
		t.Fatalf("buildMsg: %v", err)
	}

	rcpts, err := mm.GetRecipients()
	if err != nil {
		t.Fatalf("GetRecipients: %v", err)
	}
	if len(rcpts) != 1 || rcpts[0] != "owner@example.com" {
		t.Errorf("recipients = %v", rcpts)
	}

	var buf bytes.Buffer
	if _, err := mm.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	s := buf.String()
	for _, want := range []string{
		"noreply@aura.example",
		"owner@example.com",
		"Reply-To: <ana@example.com>",
		"Subject: Hello",
		"Message-ID: <",
		"multipart/alternative",
		"text/plain",
		"text/html",
		"plain text",
		"<p>html</p>",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("message missing %q:\n%s", want, s)
		}
	}
}

func TestBuildMsg_InvalidSender(t *testing.T) {
	if _, err := buildMsg("not an address", Message{To: []string{"owner@example.com"}}); err == nil {
		t.Error("buildMsg() expected error for invalid sender")
	}
}

func TestNewSMTPMailer_Defaults(t *testing.T) {
	tests := []struct {
		tls      string
		wantPort int
		wantTLS  string
	}{
		{"", 587, TLSStartTLS},
		{TLSMandatory, 587, TLSMandatory},
		{TLSImplicit, 465, TLSImplicit},
	}
	for _, tt := range tests {
		m := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com", TLS: tt.tls})
		if m.cfg.Port != tt.wantPort || m.cfg.TLS != tt.wantTLS {
			t.Errorf("TLS %q: port %d mode %q, want %d %q", tt.tls, m.cfg.Port, m.cfg.TLS, tt.wantPort, tt.wantTLS)
		}
		if m.cfg.Timeout != 10*time.Second {
			t.Errorf("Timeout = %v, want 10s", m.cfg.Timeout)
		}
	}
}

func TestSMTPMailer_NoRecipients(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "127.0.0.1", From: "a@example.com"})
	if err := m.Send(context.Background(), Message{Subject: "x"}); !errors.Is(err, ErrNoRecipients) {
		t.Errorf("Send() error = %v, want ErrNoRecipients", err)
	}
}

func TestSMTPMailer_DialFailure(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "127.0.0.1", Port: 1, From: "a@example.com", TLS: TLSMandatory, Timeout: time.Second})
	if err := m.Send(context.Background(), Message{To: []string{"b@example.com"}, Subject: "x"}); err == nil {
		t.Error("expected dial error")
	}
}

func TestNopMailer(t *testing.T) {
	if err := NewNopMailer(nil).Send(context.Background(), Message{Subject: "x"}); err != nil {
		t.Errorf("NopMailer.Send() = %v", err)
	}
}
