// Package transport defines the request/response shapes of the maintenance
// engine endpoints.
package transport

import "github.com/google/uuid"

// ScheduleError reports a schedule the generator could not process. The run
// keeps going past individual failures; only listing errors abort it.
type ScheduleError struct {
	ScheduleID uuid.UUID `json:"scheduleId"`
	ContractID uuid.UUID `json:"contractId"`
	Message    string    `json:"message"`
}

// GenerationSummary is the outcome of a generation pass.
type GenerationSummary struct {
	Created  int             `json:"created"`
	Assigned int             `json:"assigned"`
	Skipped  int             `json:"skipped"`
	Errors   []ScheduleError `json:"errors"`
}

// ReconcileSummary is the outcome of an availability reconciliation pass.
// Failed counts technicians whose cached flag could not be written; the pass
// continues past them.
type ReconcileSummary struct {
	Reconciled    int `json:"reconciled"`
	MarkedOffline int `json:"markedOffline"`
	Failed        int `json:"failed"`
}

// ConsistencySummary is the outcome of a full consistency run.
type ConsistencySummary struct {
	TicketsCriados      int             `json:"ticketsCriados"`
	TicketsAtribuidos   int             `json:"ticketsAtribuidos"`
	TecnicosAtualizados int             `json:"tecnicosAtualizados"`
	DuplicatasRemovidas int             `json:"duplicatasRemovidas"`
	Erros               []ScheduleError `json:"erros,omitempty"`
}
