// Package email renders and delivers the application's transactional
// emails: the welcome message for new accounts and course day reminders.
package email

import (
	"context"

	"attendance_backend/platform/config"
)

// Sender delivers transactional emails.
type Sender interface {
	SendWelcomeEmail(ctx context.Context, toEmail, firstName string) error
	SendCourseDayReminderEmail(ctx context.Context, toEmail, title, startsAt, location string) error
}

// NoopSender is used when email delivery is disabled. Every send succeeds
// without doing anything.
type NoopSender struct{}

func (NoopSender) SendWelcomeEmail(_ context.Context, _, _ string) error {
	return nil
}

func (NoopSender) SendCourseDayReminderEmail(_ context.Context, _, _, _, _ string) error {
	return nil
}

// Compile-time checks.
var (
	_ Sender = NoopSender{}
	_ Sender = (*SMTPSender)(nil)
)

// NewSenderFromConfig returns an SMTP sender when email is enabled and
// configured, and a NoopSender otherwise.
func NewSenderFromConfig(cfg config.EmailConfig) Sender {
	if !cfg.GetEmailEnabled() || cfg.GetSMTPHost() == "" {
		return NoopSender{}
	}

	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	)
}
