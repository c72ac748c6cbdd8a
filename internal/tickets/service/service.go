package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"assistec_backend/internal/events"
	"assistec_backend/internal/shared/domain"
	"assistec_backend/internal/tickets/repository"
	"assistec_backend/internal/tickets/transport"
	"assistec_backend/platform/apperr"
	"assistec_backend/platform/logger"
)

// ContractReader resolves the client behind a contract when a ticket is
// opened manually.
type ContractReader interface {
	GetClientID(ctx context.Context, contractID uuid.UUID) (uuid.UUID, error)
}

// Service provides business logic for the ticket lifecycle.
type Service struct {
	repo      repository.Repository
	contracts ContractReader
	bus       events.Bus
	log       *logger.Logger
}

// New creates a new tickets service.
func New(repo repository.Repository, contracts ContractReader, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, contracts: contracts, bus: bus, log: log}
}

// Create opens a ticket manually (installation work or ad-hoc maintenance).
func (s *Service) Create(ctx context.Context, req transport.CreateTicketRequest) (transport.TicketResponse, error) {
	tipo, err := domain.ParseTicketTipo(req.Tipo)
	if err != nil {
		return transport.TicketResponse{}, err
	}
	priority, err := domain.ParseTicketPriority(req.Priority)
	if err != nil {
		return transport.TicketResponse{}, err
	}

	clientID, err := s.contracts.GetClientID(ctx, req.ContractID)
	if err != nil {
		return transport.TicketResponse{}, err
	}

	tk, err := s.repo.Create(ctx, repository.CreateParams{
		ContractID:    req.ContractID,
		ClientID:      clientID,
		Tipo:          tipo,
		Priority:      priority,
		Description:   req.Description,
		ScheduledDate: req.ScheduledDate,
	})
	if err != nil {
		return transport.TicketResponse{}, err
	}

	s.log.Info("ticket created", "id", tk.ID, "contractId", tk.ContractID, "tipo", tk.Tipo)
	return toResponse(tk), nil
}

// GetByID retrieves a ticket by ID.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.TicketResponse, error) {
	tk, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.TicketResponse{}, err
	}
	return toResponse(tk), nil
}

// List retrieves tickets matching the filters.
func (s *Service) List(ctx context.Context, req transport.ListTicketsRequest) (transport.TicketListResponse, error) {
	filters := repository.ListFilters{
		ContractID:   req.ContractID,
		TechnicianID: req.TechnicianID,
	}
	if req.Status != nil {
		status, err := domain.ParseTicketStatus(*req.Status)
		if err != nil {
			return transport.TicketListResponse{}, err
		}
		filters.Status = &status
	}

	items, err := s.repo.List(ctx, filters)
	if err != nil {
		return transport.TicketListResponse{}, err
	}

	responses := make([]transport.TicketResponse, len(items))
	for i, item := range items {
		responses[i] = toResponse(item)
	}
	return transport.TicketListResponse{Items: responses, Total: len(responses)}, nil
}

// Assign sets the technician of an open ticket.
func (s *Service) Assign(ctx context.Context, id uuid.UUID, req transport.AssignTicketRequest) error {
	if err := s.repo.Assign(ctx, id, req.TechnicianID); err != nil {
		return err
	}

	s.log.Info("ticket assigned", "id", id, "technicianId", req.TechnicianID)
	return nil
}

// Start transitions a ticket to em_andamento.
func (s *Service) Start(ctx context.Context, id uuid.UUID) (transport.TicketResponse, error) {
	tk, err := s.repo.Start(ctx, id)
	if err != nil {
		return transport.TicketResponse{}, err
	}

	s.log.Info("ticket started", "id", id)
	return toResponse(tk), nil
}

// Finish transitions a ticket to concluida and publishes TicketFinished so
// the maintenance module can record history and advance the schedule anchor.
//
// Finishing an already finished ticket is treated as an idempotent re-trigger:
// the event is re-published (downstream effects are write-once) and no error
// is returned.
func (s *Service) Finish(ctx context.Context, id uuid.UUID) (transport.TicketResponse, error) {
	tk, err := s.repo.Finish(ctx, id)
	if err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			existing, getErr := s.repo.GetByID(ctx, id)
			if getErr == nil && existing.Status == domain.StatusConcluida {
				s.publishFinished(ctx, existing)
				return toResponse(existing), nil
			}
		}
		return transport.TicketResponse{}, err
	}

	s.log.Info("ticket finished", "id", id, "contractId", tk.ContractID)
	s.publishFinished(ctx, tk)
	return toResponse(tk), nil
}

// Cancel transitions an open ticket to cancelada.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, req transport.CancelTicketRequest) (transport.TicketResponse, error) {
	tk, err := s.repo.Cancel(ctx, id, req.Reason)
	if err != nil {
		return transport.TicketResponse{}, err
	}

	s.log.Info("ticket cancelled", "id", id, "reason", req.Reason)
	if s.bus != nil {
		s.bus.Publish(ctx, events.TicketCancelled{
			BaseEvent:  events.NewBaseEvent(),
			TicketID:   tk.ID,
			ContractID: tk.ContractID,
			Reason:     req.Reason,
		})
	}
	return toResponse(tk), nil
}

func (s *Service) publishFinished(ctx context.Context, tk repository.Ticket) {
	if s.bus == nil {
		return
	}

	finishedAt := time.Now()
	if tk.FinishedAt != nil {
		finishedAt = *tk.FinishedAt
	}

	s.bus.Publish(ctx, events.TicketFinished{
		BaseEvent:    events.NewBaseEvent(),
		TicketID:     tk.ID,
		ContractID:   tk.ContractID,
		TechnicianID: tk.TechnicianID,
		Tipo:         tk.Tipo,
		FinishedAt:   finishedAt,
	})
}

func toResponse(tk repository.Ticket) transport.TicketResponse {
	return transport.TicketResponse{
		ID:            tk.ID,
		ContractID:    tk.ContractID,
		ClientID:      tk.ClientID,
		TechnicianID:  tk.TechnicianID,
		Tipo:          string(tk.Tipo),
		Priority:      string(tk.Priority),
		Status:        string(tk.Status),
		Description:   tk.Description,
		CancelReason:  tk.CancelReason,
		ScheduledDate: formatOptional(tk.ScheduledDate),
		StartedAt:     formatOptional(tk.StartedAt),
		FinishedAt:    formatOptional(tk.FinishedAt),
		CancelledAt:   formatOptional(tk.CancelledAt),
		CreatedAt:     tk.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     tk.UpdatedAt.Format(time.RFC3339),
	}
}

func formatOptional(value *time.Time) *string {
	if value == nil {
		return nil
	}
	formatted := value.Format(time.RFC3339)
	return &formatted
}
