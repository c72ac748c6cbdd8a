package email

import (
	"context"
	"fmt"

	"assistec_backend/internal/events"
	"assistec_backend/internal/shared/domain"
	"assistec_backend/platform/config"
	"assistec_backend/platform/logger"
)

// Notifier turns engine events into operational emails. Today it covers one
// case: an urgent maintenance ticket generated with nobody to assign, which
// needs a human dispatcher.
type Notifier struct {
	sender     Sender
	opsAddress string
	log        *logger.Logger
}

// NewNotifier creates a notifier delivering to the configured ops address.
func NewNotifier(sender Sender, cfg config.EmailConfig, log *logger.Logger) *Notifier {
	return &Notifier{
		sender:     sender,
		opsAddress: cfg.GetOpsNotifyAddress(),
		log:        log,
	}
}

// Register subscribes the notifier to the event bus.
func (n *Notifier) Register(bus events.Bus) {
	bus.Subscribe(events.MaintenanceTicketCreated{}.EventName(), events.HandlerFunc(n.handleTicketCreated))
}

func (n *Notifier) handleTicketCreated(ctx context.Context, evt events.Event) error {
	created, ok := evt.(events.MaintenanceTicketCreated)
	if !ok {
		return fmt.Errorf("unexpected event type %T", evt)
	}

	if created.Priority != domain.PriorityUrgente || created.TechnicianID != nil {
		return nil
	}
	if n.opsAddress == "" {
		n.log.Warn("urgent unassigned ticket but no ops address configured",
			"ticket_id", created.TicketID)
		return nil
	}

	return n.sender.SendUrgentUnassignedTicketEmail(ctx,
		n.opsAddress,
		created.TicketID.String(),
		created.ContractID.String(),
		created.DueDate.Format("2006-01-02"),
	)
}
