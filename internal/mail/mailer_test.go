package mail

import (
	"strings"
	"testing"
)

func TestNewSMTPMailerValidatesAddr(t *testing.T) {
	if _, err := NewSMTPMailer("smtp.example.com", "u", "p", "no-reply@example.com"); err == nil {
		t.Fatal("addr without port should be rejected")
	}
	if _, err := NewSMTPMailer(":587", "u", "p", "no-reply@example.com"); err == nil {
		t.Fatal("addr without host should be rejected")
	}
	m, err := NewSMTPMailer("smtp.example.com:587", "relay-user", "p", "")
	if err != nil {
		t.Fatalf("valid addr: %v", err)
	}
	if m.from != "relay-user" {
		t.Fatalf("from should fall back to the relay user, got %q", m.from)
	}
}

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("no-reply@sustainwear.org", "donor@example.com", "Your 2FA Verification Code", "Your verification code is 123456."))

	for _, want := range []string{
		"From: SustainWear <no-reply@sustainwear.org>\r\n",
		"To: donor@example.com\r\n",
		"Subject: Your 2FA Verification Code\r\n",
		"Content-Type: text/plain; charset=utf-8\r\n",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("missing %q in message:\n%s", want, msg)
		}
	}
	headers, body, ok := strings.Cut(msg, "\r\n\r\n")
	if !ok {
		t.Fatal("no header/body separator")
	}
	if strings.Contains(headers, "123456") {
		t.Fatal("code leaked into headers")
	}
	if !strings.Contains(body, "123456") {
		t.Fatal("body missing the code")
	}
}
