package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateTicketRequest contains data for manually opening a ticket.
// The engine creates maintenance tickets itself; this endpoint covers
// installation work and ad-hoc maintenance opened by an admin.
type CreateTicketRequest struct {
	ContractID    uuid.UUID  `json:"contractId" validate:"required"`
	Tipo          string     `json:"tipo" validate:"required"`
	Priority      string     `json:"priority" validate:"required"`
	Description   *string    `json:"description,omitempty" validate:"omitempty,max=1000"`
	ScheduledDate *time.Time `json:"scheduledDate,omitempty"`
}

// AssignTicketRequest sets the technician of an open ticket.
type AssignTicketRequest struct {
	TechnicianID uuid.UUID `json:"technicianId" validate:"required"`
}

// CancelTicketRequest closes a ticket with a reason.
type CancelTicketRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

// ListTicketsRequest narrows ticket listing.
type ListTicketsRequest struct {
	ContractID   *uuid.UUID `form:"contractId"`
	TechnicianID *uuid.UUID `form:"technicianId"`
	Status       *string    `form:"status"`
}

// TicketResponse represents a ticket in API responses.
type TicketResponse struct {
	ID            uuid.UUID  `json:"id"`
	ContractID    uuid.UUID  `json:"contractId"`
	ClientID      uuid.UUID  `json:"clientId"`
	TechnicianID  *uuid.UUID `json:"technicianId,omitempty"`
	Tipo          string     `json:"tipo"`
	Priority      string     `json:"priority"`
	Status        string     `json:"status"`
	Description   *string    `json:"description,omitempty"`
	CancelReason  *string    `json:"cancelReason,omitempty"`
	ScheduledDate *string    `json:"scheduledDate,omitempty"`
	StartedAt     *string    `json:"startedAt,omitempty"`
	FinishedAt    *string    `json:"finishedAt,omitempty"`
	CancelledAt   *string    `json:"cancelledAt,omitempty"`
	CreatedAt     string     `json:"createdAt"`
	UpdatedAt     string     `json:"updatedAt"`
}

// TicketListResponse wraps a list of tickets.
type TicketListResponse struct {
	Items []TicketResponse `json:"items"`
	Total int              `json:"total"`
}
