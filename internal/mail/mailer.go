// Package mail implements the outbound email transport used for
// two-factor codes and password-reset links.
package mail

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"sustainwear.org/internal/obs"
)

// SMTPMailer sends plain-text mail through an authenticated SMTP relay.
type SMTPMailer struct {
	addr string // host:port
	host string
	from string
	auth smtp.Auth
}

// NewSMTPMailer configures the relay. addr is host:port; user/pass are
// the relay credentials; from is the sender identity shown to users.
func NewSMTPMailer(addr, user, pass, from string) (*SMTPMailer, error) {
	host, _, ok := strings.Cut(addr, ":")
	if !ok || host == "" {
		return nil, errors.New("mail: addr must be host:port")
	}
	if from == "" {
		from = user
	}
	return &SMTPMailer{
		addr: addr,
		host: host,
		from: from,
		auth: smtp.PlainAuth("", user, pass, host),
	}, nil
}

func (m *SMTPMailer) Send(_ context.Context, to, subject, body string) error {
	msg := buildMessage(m.from, to, subject, body)
	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("mail: send to %s: %w", to, err)
	}
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: SustainWear <%s>\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return []byte(b.String())
}

// LogMailer writes messages to the operational log instead of sending
// them. Used in development when no SMTP relay is configured.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, to, subject, _ string) error {
	obs.LogRequest(map[string]any{
		"type":    "mail",
		"msg":     "mail_suppressed",
		"to":      to,
		"subject": subject,
	})
	return nil
}
