// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"assistec_backend/internal/shared/domain"
	"assistec_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Ticket Domain Events
// =============================================================================

// MaintenanceTicketCreated is published when the engine generates a
// maintenance ticket for an overdue schedule.
type MaintenanceTicketCreated struct {
	BaseEvent
	TicketID     uuid.UUID             `json:"ticketId"`
	ContractID   uuid.UUID             `json:"contractId"`
	TechnicianID *uuid.UUID            `json:"technicianId,omitempty"`
	Priority     domain.TicketPriority `json:"priority"`
	DueDate      time.Time             `json:"dueDate"`
}

func (e MaintenanceTicketCreated) EventName() string { return "tickets.maintenance.created" }

// TicketFinished is published when a ticket transitions to concluida.
type TicketFinished struct {
	BaseEvent
	TicketID     uuid.UUID         `json:"ticketId"`
	ContractID   uuid.UUID         `json:"contractId"`
	TechnicianID *uuid.UUID        `json:"technicianId,omitempty"`
	Tipo         domain.TicketTipo `json:"tipo"`
	FinishedAt   time.Time         `json:"finishedAt"`
}

func (e TicketFinished) EventName() string { return "tickets.finished" }

// TicketCancelled is published when a ticket transitions to cancelada.
type TicketCancelled struct {
	BaseEvent
	TicketID   uuid.UUID `json:"ticketId"`
	ContractID uuid.UUID `json:"contractId"`
	Reason     string    `json:"reason"`
}

func (e TicketCancelled) EventName() string { return "tickets.cancelled" }
