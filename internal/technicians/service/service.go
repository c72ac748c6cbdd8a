package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"assistec_backend/internal/technicians/repository"
	"assistec_backend/internal/technicians/transport"
	"assistec_backend/platform/logger"
)

// Service provides business logic for technician management.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new technicians service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Create registers a new technician.
func (s *Service) Create(ctx context.Context, req transport.CreateTechnicianRequest) (transport.TechnicianResponse, error) {
	tech, err := s.repo.Create(ctx, repository.CreateParams{
		Name:      req.Name,
		Email:     req.Email,
		Specialty: req.Specialty,
		Rating:    req.Rating,
	})
	if err != nil {
		return transport.TechnicianResponse{}, err
	}

	s.log.Info("technician created", "id", tech.ID, "name", tech.Name, "specialty", tech.Specialty)
	return toResponse(tech), nil
}

// GetByID retrieves a technician by ID.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.TechnicianResponse, error) {
	tech, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.TechnicianResponse{}, err
	}
	return toResponse(tech), nil
}

// List retrieves all technicians.
func (s *Service) List(ctx context.Context) (transport.TechnicianListResponse, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return transport.TechnicianListResponse{}, err
	}

	responses := make([]transport.TechnicianResponse, len(items))
	for i, item := range items {
		responses[i] = toResponse(item)
	}
	return transport.TechnicianListResponse{Items: responses, Total: len(responses)}, nil
}

// Heartbeat marks a technician online and refreshes the last-seen timestamp.
func (s *Service) Heartbeat(ctx context.Context, id uuid.UUID) error {
	return s.repo.Heartbeat(ctx, id)
}

// SetDisponibilidade updates the raw availability preference flag.
func (s *Service) SetDisponibilidade(ctx context.Context, id uuid.UUID, disponivel bool) error {
	if err := s.repo.SetDisponibilidade(ctx, id, disponivel); err != nil {
		return err
	}

	s.log.Info("technician disponibilidade updated", "id", id, "disponivel", disponivel)
	return nil
}

func toResponse(tech repository.Technician) transport.TechnicianResponse {
	var lastSeen *string
	if tech.LastSeenAt != nil {
		formatted := tech.LastSeenAt.Format(time.RFC3339)
		lastSeen = &formatted
	}

	return transport.TechnicianResponse{
		ID:              tech.ID,
		Name:            tech.Name,
		Email:           tech.Email,
		Specialty:       tech.Specialty,
		Rating:          tech.Rating,
		Online:          tech.Online,
		Disponibilidade: tech.Disponibilidade,
		Available:       tech.Available,
		LastSeenAt:      lastSeen,
		CreatedAt:       tech.CreatedAt.Format(time.RFC3339),
	}
}
