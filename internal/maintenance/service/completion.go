package service

import (
	"context"
	"fmt"

	"assistec_backend/internal/events"
	"assistec_backend/internal/maintenance/repository"
	"assistec_backend/internal/shared/domain"
	"assistec_backend/platform/apperr"
)

// HandleTicketFinished reacts to a completed maintenance ticket: it records
// the visit in the maintenance history and stamps last_performed_at on the
// contract's schedule. Re-triggering completion on an already finished ticket
// re-delivers this event, so every step is write-once: history insertion is
// guarded both by a pre-check and by the unique constraint on ticket_id.
func (e *Engine) HandleTicketFinished(ctx context.Context, evt events.TicketFinished) error {
	if evt.Tipo != domain.TipoManutencao {
		return nil
	}

	exists, err := e.repo.HistoryExists(ctx, evt.TicketID)
	if err != nil {
		return fmt.Errorf("handle ticket finished: %w", err)
	}
	if exists {
		return nil
	}

	scheduledDate, err := e.repo.GetTicketScheduledDate(ctx, evt.TicketID)
	if err != nil {
		if apperr.GetKind(err) != apperr.KindNotFound {
			return fmt.Errorf("handle ticket finished: %w", err)
		}
		scheduledDate = evt.FinishedAt
	}

	err = e.repo.InsertHistory(ctx, repository.InsertHistoryParams{
		TicketID:      evt.TicketID,
		ContractID:    evt.ContractID,
		ScheduledDate: scheduledDate,
		PerformedAt:   evt.FinishedAt,
	})
	if err != nil {
		return fmt.Errorf("handle ticket finished: %w", err)
	}

	// The schedule may have been removed while the ticket was in progress;
	// the update is then a no-op and the history row stands on its own.
	if err := e.repo.SetScheduleLastPerformed(ctx, evt.ContractID, evt.FinishedAt); err != nil {
		return fmt.Errorf("handle ticket finished: %w", err)
	}

	return nil
}
