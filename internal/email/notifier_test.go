package email

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"assistec_backend/internal/events"
	"assistec_backend/internal/shared/domain"
	"assistec_backend/platform/logger"
)

type captureSender struct {
	sent []string
}

func (s *captureSender) SendUrgentUnassignedTicketEmail(ctx context.Context, toEmail, ticketID, contractID, dueDate string) error {
	s.sent = append(s.sent, toEmail)
	return nil
}

type notifierTestConfig struct {
	opsAddress string
}

func (c notifierTestConfig) GetEmailEnabled() bool       { return true }
func (c notifierTestConfig) GetSMTPHost() string         { return "smtp.test" }
func (c notifierTestConfig) GetSMTPPort() int            { return 587 }
func (c notifierTestConfig) GetSMTPUsername() string     { return "" }
func (c notifierTestConfig) GetSMTPPassword() string     { return "" }
func (c notifierTestConfig) GetEmailFromAddress() string { return "no-reply@test" }
func (c notifierTestConfig) GetOpsNotifyAddress() string { return c.opsAddress }

func createdEvent(priority domain.TicketPriority, technicianID *uuid.UUID) events.MaintenanceTicketCreated {
	return events.MaintenanceTicketCreated{
		BaseEvent:    events.NewBaseEvent(),
		TicketID:     uuid.New(),
		ContractID:   uuid.New(),
		TechnicianID: technicianID,
		Priority:     priority,
		DueDate:      time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestNotifierSendsForUrgentUnassigned(t *testing.T) {
	sender := &captureSender{}
	notifier := NewNotifier(sender, notifierTestConfig{opsAddress: "ops@test"}, logger.New("development"))

	err := notifier.handleTicketCreated(context.Background(), createdEvent(domain.PriorityUrgente, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.sent) != 1 || sender.sent[0] != "ops@test" {
		t.Fatalf("expected 1 email to ops, got %v", sender.sent)
	}
}

func TestNotifierIgnoresAssignedAndNonUrgent(t *testing.T) {
	sender := &captureSender{}
	notifier := NewNotifier(sender, notifierTestConfig{opsAddress: "ops@test"}, logger.New("development"))

	techID := uuid.New()
	cases := []events.MaintenanceTicketCreated{
		createdEvent(domain.PriorityUrgente, &techID),
		createdEvent(domain.PriorityMedia, nil),
	}
	for _, evt := range cases {
		if err := notifier.handleTicketCreated(context.Background(), evt); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if len(sender.sent) != 0 {
		t.Fatalf("expected no emails, got %v", sender.sent)
	}
}

func TestNotifierToleratesMissingOpsAddress(t *testing.T) {
	sender := &captureSender{}
	notifier := NewNotifier(sender, notifierTestConfig{}, logger.New("development"))

	err := notifier.handleTicketCreated(context.Background(), createdEvent(domain.PriorityUrgente, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("expected no emails, got %v", sender.sent)
	}
}
