// AngelaMos | 2026
// mailer.go

package auth

import (
	"context"
	"log/slog"
)

type ResetMailer interface {
	SendPasswordReset(ctx context.Context, email, link string) error
}

// LogMailer writes reset links to the log. It stands in until a real mail
// transport is configured.
type LogMailer struct {
	Logger *slog.Logger
}

func (m LogMailer) SendPasswordReset(ctx context.Context, email, link string) error {
	logger := m.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "password reset requested",
		"email", email,
		"link", link,
	)
	return nil
}
