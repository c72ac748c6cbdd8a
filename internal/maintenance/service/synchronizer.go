package service

import (
	"context"
	"fmt"

	"assistec_backend/internal/maintenance/transport"
)

// ReconcileTechnicianAvailability repairs the cached available flag on every
// technician. Stale heartbeats are swept first, then each technician's flag
// is recomputed from online + disponibilidade + current workload and written
// only when it drifted. Running twice in a row performs zero writes on the
// second pass.
func (e *Engine) ReconcileTechnicianAvailability(ctx context.Context) (transport.ReconcileSummary, error) {
	var summary transport.ReconcileSummary

	cutoff := e.now().Add(-e.staleAfter)
	markedOffline, err := e.repo.MarkStaleTechniciansOffline(ctx, cutoff)
	if err != nil {
		return summary, fmt.Errorf("reconcile availability: %w", err)
	}
	summary.MarkedOffline = markedOffline

	technicians, err := e.repo.ListTechnicians(ctx)
	if err != nil {
		return summary, fmt.Errorf("reconcile availability: %w", err)
	}
	busy, err := e.repo.ListBusyTechnicianIDs(ctx)
	if err != nil {
		return summary, fmt.Errorf("reconcile availability: %w", err)
	}

	for _, tech := range technicians {
		effective := tech.Online && tech.Disponibilidade && !busy[tech.ID]
		if tech.Available == effective {
			continue
		}
		// A failed write on one technician leaves their flag drifted until
		// the next pass; it must not stop the rest of the reconciliation.
		if err := e.repo.UpdateTechnicianAvailable(ctx, tech.ID, effective); err != nil {
			e.log.Error("reconcile availability: update technician", "technician_id", tech.ID, "error", err)
			summary.Failed++
			continue
		}
		summary.Reconciled++
	}

	return summary, nil
}
