package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"assistec_backend/internal/maintenance/repository"
	"assistec_backend/internal/shared/domain"
)

// RepairDuplicateTickets deletes surplus open maintenance tickets so each
// contract has at most one. The partial unique index prevents new duplicates;
// this pass cleans up rows that predate it or slipped in through manual
// intervention.
//
// Survivor choice: a ticket em_andamento always survives, because work is
// underway on it. Otherwise the most recently created pendente survives.
// Only pendente tickets are ever deleted, and the delete itself re-checks the
// status so a ticket started mid-pass is spared.
func (e *Engine) RepairDuplicateTickets(ctx context.Context) (int, error) {
	open, err := e.repo.ListOpenMaintenanceTickets(ctx)
	if err != nil {
		return 0, fmt.Errorf("repair duplicates: %w", err)
	}

	byContract := make(map[uuid.UUID][]repository.OpenTicket)
	for _, tk := range open {
		byContract[tk.ContractID] = append(byContract[tk.ContractID], tk)
	}

	var doomed []uuid.UUID
	for _, tickets := range byContract {
		if len(tickets) < 2 {
			continue
		}
		doomed = append(doomed, surplusPending(tickets)...)
	}

	removed, err := e.repo.DeletePendingTickets(ctx, doomed)
	if err != nil {
		return 0, fmt.Errorf("repair duplicates: %w", err)
	}

	return removed, nil
}

func surplusPending(tickets []repository.OpenTicket) []uuid.UUID {
	hasInProgress := false
	for _, tk := range tickets {
		if tk.Status == domain.StatusEmAndamento {
			hasInProgress = true
			break
		}
	}

	var survivor uuid.UUID
	if !hasInProgress {
		// Most recent pendente survives.
		newest := tickets[0]
		for _, tk := range tickets[1:] {
			if tk.CreatedAt.After(newest.CreatedAt) {
				newest = tk
			}
		}
		survivor = newest.ID
	}

	var doomed []uuid.UUID
	for _, tk := range tickets {
		if tk.Status != domain.StatusPendente {
			continue
		}
		if tk.ID == survivor {
			continue
		}
		doomed = append(doomed, tk.ID)
	}
	return doomed
}
