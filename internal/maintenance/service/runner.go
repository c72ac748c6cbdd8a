package service

import (
	"context"

	"assistec_backend/internal/maintenance/transport"
)

// RunConsistencyCheck executes the full maintenance pass: generate tickets
// for overdue schedules, reconcile technician availability, then repair
// duplicate open tickets. The scheduler runs this periodically; admins can
// also trigger it on demand.
func (e *Engine) RunConsistencyCheck(ctx context.Context) (transport.ConsistencySummary, error) {
	var summary transport.ConsistencySummary

	generated, err := e.GenerateDueTickets(ctx)
	if err != nil {
		return summary, err
	}
	summary.TicketsCriados = generated.Created
	summary.TicketsAtribuidos = generated.Assigned
	summary.Erros = generated.Errors

	reconciled, err := e.ReconcileTechnicianAvailability(ctx)
	if err != nil {
		return summary, err
	}
	summary.TecnicosAtualizados = reconciled.Reconciled

	removed, err := e.RepairDuplicateTickets(ctx)
	if err != nil {
		return summary, err
	}
	summary.DuplicatasRemovidas = removed

	e.log.EngineRun("consistency",
		summary.TicketsCriados, summary.TicketsAtribuidos,
		summary.TecnicosAtualizados, len(summary.Erros))

	return summary, nil
}
