package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"assistec_backend/internal/events"
	"assistec_backend/internal/maintenance/assignment"
	"assistec_backend/internal/maintenance/repository"
	"assistec_backend/internal/maintenance/scheduling"
	"assistec_backend/internal/maintenance/transport"
	"assistec_backend/internal/shared/domain"
	"assistec_backend/platform/apperr"
)

// GenerateDueTickets walks every active schedule and creates a maintenance
// ticket for each one that is overdue and has no open maintenance ticket yet.
// The ticket is assigned to the best available technician, or left unassigned
// when nobody qualifies.
//
// Schedules are processed concurrently; a failure on one schedule is recorded
// in the summary and does not stop the others. Only a failure to list
// schedules or technicians aborts the run.
func (e *Engine) GenerateDueTickets(ctx context.Context) (transport.GenerationSummary, error) {
	now := e.now()
	summary := transport.GenerationSummary{Errors: []transport.ScheduleError{}}

	schedules, err := e.repo.ListActiveSchedules(ctx)
	if err != nil {
		return summary, fmt.Errorf("generate due tickets: %w", err)
	}

	technicians, err := e.repo.ListTechnicians(ctx)
	if err != nil {
		return summary, fmt.Errorf("generate due tickets: %w", err)
	}
	busy, err := e.repo.ListBusyTechnicianIDs(ctx)
	if err != nil {
		return summary, fmt.Errorf("generate due tickets: %w", err)
	}

	// One snapshot per run. A technician assigned during this run stays
	// eligible for further tickets: only an em_andamento job excludes them,
	// and freshly generated tickets start as pendente.
	available := assignment.EffectiveAvailable(toAssignment(technicians), busy)

	var mu sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(e.concurrency)

	for _, sched := range schedules {
		sched := sched
		group.Go(func() error {
			outcome := e.generateForSchedule(groupCtx, sched, available, now)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case outcome.err != nil:
				summary.Errors = append(summary.Errors, transport.ScheduleError{
					ScheduleID: sched.ScheduleID,
					ContractID: sched.ContractID,
					Message:    outcome.err.Error(),
				})
			case outcome.skipped:
				summary.Skipped++
			case outcome.created:
				summary.Created++
				if outcome.assigned {
					summary.Assigned++
				}
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return summary, fmt.Errorf("generate due tickets: %w", err)
	}

	// Deterministic error order regardless of goroutine interleaving.
	sort.Slice(summary.Errors, func(i, j int) bool {
		return summary.Errors[i].ScheduleID.String() < summary.Errors[j].ScheduleID.String()
	})

	return summary, nil
}

type scheduleOutcome struct {
	created  bool
	assigned bool
	skipped  bool
	err      error
}

func (e *Engine) generateForSchedule(ctx context.Context, sched repository.DueSchedule, available []assignment.Technician, now time.Time) scheduleOutcome {
	// Malformed rows (imported data, manual edits) are reported and skipped;
	// they must never take the rest of the batch down with them.
	kind, err := domain.ParseMaintenanceKind(sched.Kind)
	if err != nil {
		return scheduleOutcome{err: err}
	}
	freq, err := domain.ParseFrequency(sched.Frequency)
	if err != nil {
		return scheduleOutcome{err: err}
	}

	if scheduling.Classify(sched.NextDueAt, now, e.dueSoonWindow) != scheduling.Overdue {
		return scheduleOutcome{}
	}

	exists, err := e.repo.HasOpenMaintenanceTicket(ctx, sched.ContractID)
	if err != nil {
		return scheduleOutcome{err: err}
	}
	if exists {
		return scheduleOutcome{skipped: true}
	}

	params := repository.InsertTicketParams{
		ContractID:    sched.ContractID,
		ClientID:      sched.ClientID,
		Priority:      priorityFor(sched.NextDueAt, freq, now),
		Description:   fmt.Sprintf("Manutencao %s gerada automaticamente (plano %s)", kind, freq),
		ScheduledDate: sched.NextDueAt,
	}

	techID, ok := assignment.Select(sched.ProductType, available)
	if ok {
		params.TechnicianID = &techID
	}

	ticketID, err := e.repo.InsertMaintenanceTicket(ctx, params)
	if err != nil {
		// A concurrent run won the insert race. The schedule is covered,
		// which is the state the run exists to reach.
		if apperr.GetKind(err) == apperr.KindConflict {
			return scheduleOutcome{skipped: true}
		}
		return scheduleOutcome{err: err}
	}

	// Re-anchor from now rather than the missed date, so a long-overdue
	// schedule does not immediately come due again after this visit.
	if err := e.repo.UpdateScheduleNextDue(ctx, sched.ScheduleID, scheduling.NextDue(now, freq)); err != nil {
		return scheduleOutcome{err: err}
	}

	e.bus.Publish(ctx, events.MaintenanceTicketCreated{
		BaseEvent:    events.NewBaseEvent(),
		TicketID:     ticketID,
		ContractID:   sched.ContractID,
		TechnicianID: params.TechnicianID,
		Priority:     params.Priority,
		DueDate:      sched.NextDueAt,
	})

	return scheduleOutcome{created: true, assigned: ok}
}

// priorityFor escalates to urgente once a schedule has been overdue for more
// than one full frequency interval, meaning an entire visit was skipped.
func priorityFor(nextDueAt time.Time, freq domain.Frequency, now time.Time) domain.TicketPriority {
	missedNext := scheduling.NextDue(nextDueAt, freq)
	if !missedNext.After(now) {
		return domain.PriorityUrgente
	}
	return domain.PriorityMedia
}

func toAssignment(technicians []repository.Technician) []assignment.Technician {
	out := make([]assignment.Technician, 0, len(technicians))
	for _, tech := range technicians {
		out = append(out, assignment.Technician{
			ID:              tech.ID,
			Specialty:       tech.Specialty,
			Rating:          tech.Rating,
			Online:          tech.Online,
			Disponibilidade: tech.Disponibilidade,
		})
	}
	return out
}
