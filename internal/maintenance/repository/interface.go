package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"assistec_backend/internal/shared/domain"
)

// DueSchedule is a maintenance schedule joined with the contract fields the
// engine needs to generate and assign a ticket. Kind and Frequency carry the
// stored values as-is; the generator validates them so a malformed row is
// reported as a per-schedule failure instead of aborting the whole listing.
type DueSchedule struct {
	ScheduleID      uuid.UUID
	ContractID      uuid.UUID
	ClientID        uuid.UUID
	ProductType     string
	Kind            string
	Frequency       string
	LastPerformedAt *time.Time
	NextDueAt       time.Time
}

// OpenTicket is the slice of an open maintenance ticket the duplicate repair
// pass inspects.
type OpenTicket struct {
	ID         uuid.UUID
	ContractID uuid.UUID
	Status     domain.TicketStatus
	CreatedAt  time.Time
}

// Technician carries the stored availability state of a technician alongside
// the cached available flag the synchronizer reconciles.
type Technician struct {
	ID              uuid.UUID
	Specialty       string
	Rating          float64
	Online          bool
	Disponibilidade bool
	Available       bool
	LastSeenAt      *time.Time
}

// InsertTicketParams describes a maintenance ticket the generator creates.
type InsertTicketParams struct {
	ContractID    uuid.UUID
	ClientID      uuid.UUID
	TechnicianID  *uuid.UUID
	Priority      domain.TicketPriority
	Description   string
	ScheduledDate time.Time
}

// InsertHistoryParams records a completed maintenance visit.
type InsertHistoryParams struct {
	TicketID      uuid.UUID
	ContractID    uuid.UUID
	ScheduledDate time.Time
	PerformedAt   time.Time
}

// Repository is the engine's persistence port. All methods operate on current
// database state; the engine holds no state of its own between runs.
type Repository interface {
	// ListActiveSchedules returns every active maintenance schedule whose
	// contract is ativo, joined with the contract's product type and client.
	ListActiveSchedules(ctx context.Context) ([]DueSchedule, error)

	// HasOpenMaintenanceTicket reports whether the contract already has a
	// maintenance ticket in pendente or em_andamento.
	HasOpenMaintenanceTicket(ctx context.Context, contractID uuid.UUID) (bool, error)

	// InsertMaintenanceTicket creates a maintenance ticket with status
	// pendente. A concurrent duplicate surfaces as apperr.Conflict via the
	// partial unique index on open maintenance tickets per contract.
	InsertMaintenanceTicket(ctx context.Context, params InsertTicketParams) (uuid.UUID, error)

	// UpdateScheduleNextDue advances a schedule's next_due_at.
	UpdateScheduleNextDue(ctx context.Context, scheduleID uuid.UUID, nextDueAt time.Time) error

	// GetScheduleByContract returns the active schedule for a contract.
	GetScheduleByContract(ctx context.Context, contractID uuid.UUID) (DueSchedule, error)

	// SetScheduleLastPerformed records when maintenance was last performed
	// on the contract's active schedule.
	SetScheduleLastPerformed(ctx context.Context, contractID uuid.UUID, performedAt time.Time) error

	// ListTechnicians returns every active technician.
	ListTechnicians(ctx context.Context) ([]Technician, error)

	// ListBusyTechnicianIDs returns the IDs of technicians with a ticket
	// currently em_andamento.
	ListBusyTechnicianIDs(ctx context.Context) (map[uuid.UUID]bool, error)

	// UpdateTechnicianAvailable writes the cached available flag.
	UpdateTechnicianAvailable(ctx context.Context, technicianID uuid.UUID, available bool) error

	// MarkStaleTechniciansOffline flips online to false for technicians
	// whose last heartbeat is older than the cutoff. Returns the number of
	// technicians updated.
	MarkStaleTechniciansOffline(ctx context.Context, cutoff time.Time) (int, error)

	// ListOpenMaintenanceTickets returns all maintenance tickets in pendente
	// or em_andamento, for the duplicate repair pass.
	ListOpenMaintenanceTickets(ctx context.Context) ([]OpenTicket, error)

	// DeletePendingTickets removes the given tickets, but only those still
	// pendente. Returns the number actually deleted.
	DeletePendingTickets(ctx context.Context, ids []uuid.UUID) (int, error)

	// GetTicketScheduledDate returns the scheduled date of a ticket.
	GetTicketScheduledDate(ctx context.Context, ticketID uuid.UUID) (time.Time, error)

	// HistoryExists reports whether a maintenance history row already
	// references the ticket.
	HistoryExists(ctx context.Context, ticketID uuid.UUID) (bool, error)

	// InsertHistory records a completed maintenance. Inserting twice for the
	// same ticket is a no-op thanks to the unique constraint on ticket_id.
	InsertHistory(ctx context.Context, params InsertHistoryParams) error
}
