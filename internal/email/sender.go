// Package email provides outbound email delivery for lead notifications.
package email

import (
	"context"

	"adiabatic_site_backend/platform/config"
)

// Sender delivers plaintext notification email to a recipient list.
type Sender interface {
	Send(ctx context.Context, recipients []string, subject, textBody string) error
}

// NoopSender is used when no SMTP transport is configured. Sends succeed
// silently so the rest of the pipeline behaves identically in development.
type NoopSender struct{}

// Send discards the message.
func (NoopSender) Send(context.Context, []string, string, string) error {
	return nil
}

// NewSender returns an SMTP-backed sender when a host is configured and a
// noop sender otherwise.
func NewSender(cfg config.EmailConfig) Sender {
	if cfg.GetSMTPHost() == "" {
		return NoopSender{}
	}
	return NewSMTPSender(cfg)
}
