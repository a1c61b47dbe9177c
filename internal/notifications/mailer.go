package notifications

import (
	"context"
	"log/slog"
	"time"
)

// Mailer delivers account e-mails.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, name, token string, expires time.Time) error
}

// LogMailer writes e-mails to the structured log instead of sending them.
// The raw token is only logged when RevealTokens is set (development).
type LogMailer struct {
	Logger       *slog.Logger
	RevealTokens bool
}

// SendPasswordReset logs the reset request for the recipient.
func (m LogMailer) SendPasswordReset(ctx context.Context, to, name, token string, expires time.Time) error {
	attrs := []any{
		slog.String("to", to),
		slog.String("name", name),
		slog.Time("expires", expires),
	}
	if m.RevealTokens {
		attrs = append(attrs, slog.String("token", token))
	}
	m.Logger.InfoContext(ctx, "password reset e-mail", attrs...)
	return nil
}
