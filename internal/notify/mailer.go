// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package notify delivers outgoing email notifications.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/wneessen/go-mail"
)

// ErrNoRecipients is returned when a message has no To addresses.
var ErrNoRecipients = errors.New("notify: message has no recipients")

// Message is a single outgoing email.
type Message struct {
	To       []string
	ReplyTo  string
	Subject  string
	TextBody string
	HTMLBody string
}

// Mailer sends email messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// TLS modes for SMTPConfig.TLS.
const (
	TLSStartTLS  = "starttls"  // STARTTLS when the server offers it
	TLSMandatory = "mandatory" // STARTTLS required
	TLSImplicit  = "ssl"       // TLS from the first byte (port 465)
	TLSNone      = "none"
)

// SMTPConfig configures an SMTPMailer.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	TLS      string
	Timeout  time.Duration
}

// SMTPMailer sends mail through an SMTP relay.
type SMTPMailer struct {
	cfg SMTPConfig
}

// NewSMTPMailer creates an SMTP mailer. A zero Timeout defaults to 10 seconds
// and a zero Port to 465 for implicit TLS, 587 otherwise.
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.TLS == "" {
		cfg.TLS = TLSStartTLS
	}
	if cfg.Port == 0 {
		cfg.Port = 587
		if cfg.TLS == TLSImplicit {
			cfg.Port = 465
		}
	}
	return &SMTPMailer{cfg: cfg}
}

// Send delivers msg. The SMTP exchange is bounded by the configured timeout
// or the context deadline, whichever comes first.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}

	mm, err := buildMsg(m.cfg.From, msg)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(m.cfg.Host, m.clientOptions()...)
	if err != nil {
		return fmt.Errorf("creating smtp client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	if err := client.DialAndSendWithContext(ctx, mm); err != nil {
		return fmt.Errorf("sending mail via %s:%d: %w", m.cfg.Host, m.cfg.Port, err)
	}
	return nil
}

func (m *SMTPMailer) clientOptions() []mail.Option {
	// Port policies pick a default port, so the configured port is applied last.
	var opts []mail.Option
	switch m.cfg.TLS {
	case TLSImplicit:
		opts = append(opts, mail.WithSSL())
	case TLSMandatory:
		opts = append(opts, mail.WithTLSPortPolicy(mail.TLSMandatory))
	case TLSNone:
		opts = append(opts, mail.WithTLSPortPolicy(mail.NoTLS))
	default:
		opts = append(opts, mail.WithTLSPortPolicy(mail.TLSOpportunistic))
	}
	opts = append(opts,
		mail.WithPort(m.cfg.Port),
		mail.WithTimeout(m.cfg.Timeout),
	)

	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}
	return opts
}

// buildMsg converts msg into a multipart/alternative mail message.
func buildMsg(from string, msg Message) (*mail.Msg, error) {
	mm := mail.NewMsg()
	if err := mm.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", from, err)
	}
	if err := mm.To(msg.To...); err != nil {
		return nil, fmt.Errorf("invalid recipients: %w", err)
	}
	if msg.ReplyTo != "" {
		if err := mm.ReplyTo(msg.ReplyTo); err != nil {
			return nil, fmt.Errorf("invalid reply-to %q: %w", msg.ReplyTo, err)
		}
	}
	mm.Subject(msg.Subject)
	mm.SetDate()
	mm.SetMessageID()

	switch {
	case msg.TextBody != "" && msg.HTMLBody != "":
		mm.SetBodyString(mail.TypeTextPlain, msg.TextBody)
		mm.AddAlternativeString(mail.TypeTextHTML, msg.HTMLBody)
	case msg.HTMLBody != "":
		mm.SetBodyString(mail.TypeTextHTML, msg.HTMLBody)
	default:
		mm.SetBodyString(mail.TypeTextPlain, msg.TextBody)
	}
	return mm, nil
}

// NopMailer logs messages instead of sending them. It is used when SMTP is
// not configured.
type NopMailer struct {
	logger *slog.Logger
}

// NewNopMailer creates a NopMailer.
func NewNopMailer(logger *slog.Logger) *NopMailer {
	return &NopMailer{logger: logger}
}

// Send logs the subject and recipients.
func (m *NopMailer) Send(_ context.Context, msg Message) error {
	if m.logger != nil {
		m.logger.Debug("mail delivery disabled, skipping notification",
			"subject", msg.Subject, "to", strings.Join(msg.To, ","))
	}
	return nil
}

var (
	_ Mailer = (*SMTPMailer)(nil)
	_ Mailer = (*NopMailer)(nil)
)
