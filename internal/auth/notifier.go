package auth

import "context"

// Notifier delivers messages to an email address. Delivery is awaited by
// callers so failures are observable; implementations live in
// internal/mail.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}
