// Package domain provides the closed value types shared by the contracts,
// tickets, technicians and maintenance bounded contexts. Raw strings coming
// from HTTP or the database are parsed into these types at the boundary so
// unknown values are rejected instead of flowing through the pipeline.
package domain

import "assistec_backend/platform/apperr"

// Frequency is the recurrence of a maintenance plan.
type Frequency string

const (
	FrequencyMensal     Frequency = "mensal"
	FrequencyTrimestral Frequency = "trimestral"
	FrequencySemestral  Frequency = "semestral"
	FrequencyAnual      Frequency = "anual"
)

// Months returns the calendar-month interval of the frequency.
func (f Frequency) Months() int {
	switch f {
	case FrequencyMensal:
		return 1
	case FrequencyTrimestral:
		return 3
	case FrequencySemestral:
		return 6
	case FrequencyAnual:
		return 12
	}
	return 0
}

// ParseFrequency validates a raw frequency value.
func ParseFrequency(raw string) (Frequency, error) {
	f := Frequency(raw)
	if f.Months() == 0 {
		return "", apperr.Validation("unknown frequency: " + raw)
	}
	return f, nil
}

// MaintenanceKind classifies a maintenance plan. It is advisory and does not
// affect scheduling behavior.
type MaintenanceKind string

const (
	KindPreventiva MaintenanceKind = "preventiva"
	KindCorretiva  MaintenanceKind = "corretiva"
	KindPreditiva  MaintenanceKind = "preditiva"
)

// ParseMaintenanceKind validates a raw maintenance kind value.
func ParseMaintenanceKind(raw string) (MaintenanceKind, error) {
	switch MaintenanceKind(raw) {
	case KindPreventiva, KindCorretiva, KindPreditiva:
		return MaintenanceKind(raw), nil
	}
	return "", apperr.Validation("unknown maintenance kind: " + raw)
}

// TicketTipo distinguishes installation tickets from maintenance tickets.
type TicketTipo string

const (
	TipoInstalacao TicketTipo = "instalacao"
	TipoManutencao TicketTipo = "manutencao"
)

// ParseTicketTipo validates a raw ticket tipo value.
func ParseTicketTipo(raw string) (TicketTipo, error) {
	switch TicketTipo(raw) {
	case TipoInstalacao, TipoManutencao:
		return TicketTipo(raw), nil
	}
	return "", apperr.Validation("unknown ticket tipo: " + raw)
}

// TicketStatus is the lifecycle state of a ticket.
type TicketStatus string

const (
	StatusPendente    TicketStatus = "pendente"
	StatusEmAndamento TicketStatus = "em_andamento"
	StatusConcluida   TicketStatus = "concluida"
	StatusCancelada   TicketStatus = "cancelada"
)

// IsOpen reports whether the status counts against the
// one-open-maintenance-ticket-per-contract invariant.
func (s TicketStatus) IsOpen() bool {
	return s == StatusPendente || s == StatusEmAndamento
}

// IsTerminal reports whether the status admits no further transitions.
func (s TicketStatus) IsTerminal() bool {
	return s == StatusConcluida || s == StatusCancelada
}

// ParseTicketStatus validates a raw ticket status value.
func ParseTicketStatus(raw string) (TicketStatus, error) {
	switch TicketStatus(raw) {
	case StatusPendente, StatusEmAndamento, StatusConcluida, StatusCancelada:
		return TicketStatus(raw), nil
	}
	return "", apperr.Validation("unknown ticket status: " + raw)
}

// TicketPriority orders tickets for dispatching.
type TicketPriority string

const (
	PriorityBaixa   TicketPriority = "baixa"
	PriorityMedia   TicketPriority = "media"
	PriorityAlta    TicketPriority = "alta"
	PriorityUrgente TicketPriority = "urgente"
)

// ParseTicketPriority validates a raw priority value.
func ParseTicketPriority(raw string) (TicketPriority, error) {
	switch TicketPriority(raw) {
	case PriorityBaixa, PriorityMedia, PriorityAlta, PriorityUrgente:
		return TicketPriority(raw), nil
	}
	return "", apperr.Validation("unknown ticket priority: " + raw)
}

// ContractStatus is the lifecycle state of a service contract.
type ContractStatus string

const (
	ContractAtivo    ContractStatus = "ativo"
	ContractInativo  ContractStatus = "inativo"
	ContractExpirado ContractStatus = "expirado"
)

// ParseContractStatus validates a raw contract status value.
func ParseContractStatus(raw string) (ContractStatus, error) {
	switch ContractStatus(raw) {
	case ContractAtivo, ContractInativo, ContractExpirado:
		return ContractStatus(raw), nil
	}
	return "", apperr.Validation("unknown contract status: " + raw)
}
