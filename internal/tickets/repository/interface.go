package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"assistec_backend/internal/shared/domain"
)

// Ticket is a unit of field work for a contract.
type Ticket struct {
	ID            uuid.UUID
	ContractID    uuid.UUID
	ClientID      uuid.UUID
	TechnicianID  *uuid.UUID
	Tipo          domain.TicketTipo
	Priority      domain.TicketPriority
	Status        domain.TicketStatus
	Description   *string
	CancelReason  *string
	ScheduledDate *time.Time
	StartedAt     *time.Time
	FinishedAt    *time.Time
	CancelledAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CreateParams contains parameters for creating a ticket.
type CreateParams struct {
	ContractID    uuid.UUID
	ClientID      uuid.UUID
	TechnicianID  *uuid.UUID
	Tipo          domain.TicketTipo
	Priority      domain.TicketPriority
	Description   *string
	ScheduledDate *time.Time
}

// ListFilters narrows ticket listing.
type ListFilters struct {
	ContractID   *uuid.UUID
	TechnicianID *uuid.UUID
	Status       *domain.TicketStatus
}

// Repository provides persistence for tickets.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (Ticket, error)
	GetByID(ctx context.Context, id uuid.UUID) (Ticket, error)
	List(ctx context.Context, filters ListFilters) ([]Ticket, error)
	Assign(ctx context.Context, id, technicianID uuid.UUID) error
	Start(ctx context.Context, id uuid.UUID) (Ticket, error)
	Finish(ctx context.Context, id uuid.UUID) (Ticket, error)
	Cancel(ctx context.Context, id uuid.UUID, reason string) (Ticket, error)
}
