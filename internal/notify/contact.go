// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package notify

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	"net/mail"
	"strings"
	texttemplate "text/template"
)

// ContactSubmission is the data carried by a contact form notification.
type ContactSubmission struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

const contactHTML = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #4a3aff;">New Contact Form Submission</h2>
    <table style="width: 100%; border-collapse: collapse;">
      <tr><td style="padding: 8px; font-weight: bold;">Name:</td><td style="padding: 8px;">{{.Name}}</td></tr>
      <tr><td style="padding: 8px; font-weight: bold;">Email:</td><td style="padding: 8px;"><a href="mailto:{{.Email}}">{{.Email}}</a></td></tr>
      {{- if .Phone}}
      <tr><td style="padding: 8px; font-weight: bold;">Phone:</td><td style="padding: 8px;">{{.Phone}}</td></tr>
      {{- end}}
      <tr><td style="padding: 8px; font-weight: bold;">Subject:</td><td style="padding: 8px;">{{.Subject}}</td></tr>
    </table>
    <h3>Message:</h3>
    <div style="background: #f5f5f5; padding: 15px; border-radius: 5px; white-space: pre-wrap;">{{.Message}}</div>
    <div style="margin-top: 20px; padding: 15px; background: #eef; border-left: 4px solid #4a3aff;">
      <strong>Next Steps:</strong> respond to <a href="mailto:{{.Email}}">{{.Email}}</a>
    </div>
    <p style="font-size: 12px; color: #888; margin-top: 30px;">This is an automated message from {{.Site}} Contact System</p>
  </div>
</body>
</html>
`

const contactText = `New Contact Form Submission

Name: {{.Name}}
Email: {{.Email}}
{{- if .Phone}}
Phone: {{.Phone}}
{{- end}}
Subject: {{.Subject}}

Message:
{{.Message}}

Next Steps: respond to {{.Email}}

This is an automated message from {{.Site}} Contact System
`

var (
	contactHTMLTmpl = htmltemplate.Must(htmltemplate.New("contact_html").Parse(contactHTML))
	contactTextTmpl = texttemplate.Must(texttemplate.New("contact_text").Parse(contactText))
)

// ContactNotifier emails the site owner about new contact form submissions.
type ContactNotifier struct {
	mailer Mailer
	to     []string
	site   string
}

// NewContactNotifier creates a notifier sending to the comma-separated
// address list in to. An unparsable or empty list is an error.
func NewContactNotifier(mailer Mailer, to, site string) (*ContactNotifier, error) {
	list, err := mail.ParseAddressList(to)
	if err != nil {
		return nil, fmt.Errorf("parsing notification recipients %q: %w", to, err)
	}
	recipients := make([]string, 0, len(list))
	for _, a := range list {
		recipients = append(recipients, a.Address)
	}
	if site == "" {
		site = "Aura"
	}
	return &ContactNotifier{mailer: mailer, to: recipients, site: site}, nil
}

// ContactSubject returns the notification subject for a submission subject.
func ContactSubject(subject string) string {
	return "New Contact Form Submission: " + subject
}

// NotifyContact renders and sends the notification for s.
func (n *ContactNotifier) NotifyContact(ctx context.Context, s ContactSubmission) error {
	msg, err := n.render(s)
	if err != nil {
		return err
	}
	return n.mailer.Send(ctx, msg)
}

func (n *ContactNotifier) render(s ContactSubmission) (Message, error) {
	data := struct {
		ContactSubmission
		Site string
	}{s, n.site}

	var htmlBuf, textBuf bytes.Buffer
	if err := contactHTMLTmpl.Execute(&htmlBuf, data); err != nil {
		return Message{}, fmt.Errorf("rendering html body: %w", err)
	}
	if err := contactTextTmpl.Execute(&textBuf, data); err != nil {
		return Message{}, fmt.Errorf("rendering text body: %w", err)
	}

	return Message{
		To:       n.to,
		ReplyTo:  s.Email,
		Subject:  ContactSubject(strings.TrimSpace(s.Subject)),
		TextBody: textBuf.String(),
		HTMLBody: htmlBuf.String(),
	}, nil
}
