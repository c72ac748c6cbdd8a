// Package email delivers operational notifications over SMTP.
package email

import (
	"context"

	"assistec_backend/platform/config"
	"assistec_backend/platform/logger"
)

// Sender delivers the notification emails the engine produces.
type Sender interface {
	// SendUrgentUnassignedTicketEmail alerts operations that an urgent
	// maintenance ticket was generated with no technician available.
	SendUrgentUnassignedTicketEmail(ctx context.Context, toEmail, ticketID, contractID, dueDate string) error
}

// NewSenderFromConfig returns an SMTP sender, or a no-op sender when email
// delivery is disabled.
func NewSenderFromConfig(cfg config.EmailConfig, log *logger.Logger) Sender {
	if !cfg.GetEmailEnabled() || cfg.GetSMTPHost() == "" {
		return &NoopSender{log: log}
	}

	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		"AssisTec",
	)
}

// NoopSender logs instead of sending. Used in development and tests.
type NoopSender struct {
	log *logger.Logger
}

func (s *NoopSender) SendUrgentUnassignedTicketEmail(ctx context.Context, toEmail, ticketID, contractID, dueDate string) error {
	if s.log != nil {
		s.log.Info("email disabled, skipping urgent ticket notification",
			"to", toEmail, "ticket_id", ticketID, "contract_id", contractID)
	}
	return nil
}

var (
	_ Sender = (*NoopSender)(nil)
	_ Sender = (*SMTPSender)(nil)
)
