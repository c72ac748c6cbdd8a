package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"assistec_backend/internal/contracts/repository"
	"assistec_backend/internal/contracts/transport"
	"assistec_backend/internal/maintenance/scheduling"
	"assistec_backend/internal/shared/domain"
	"assistec_backend/platform/logger"
	"assistec_backend/platform/phone"
)

// Service provides business logic for clients, contracts and their
// maintenance plans.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
	now  func() time.Time
}

// New creates a new contracts service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log, now: time.Now}
}

// CreateClient registers a new client. Phone numbers are normalized to E.164.
func (s *Service) CreateClient(ctx context.Context, req transport.CreateClientRequest) (transport.ClientResponse, error) {
	params := repository.CreateClientParams{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   phone.NormalizeE164(req.Phone),
		Address: req.Address,
	}

	cl, err := s.repo.CreateClient(ctx, params)
	if err != nil {
		return transport.ClientResponse{}, err
	}

	s.log.Info("client created", "id", cl.ID, "name", cl.Name)
	return toClientResponse(cl), nil
}

// GetClient retrieves a client by ID.
func (s *Service) GetClient(ctx context.Context, id uuid.UUID) (transport.ClientResponse, error) {
	cl, err := s.repo.GetClient(ctx, id)
	if err != nil {
		return transport.ClientResponse{}, err
	}
	return toClientResponse(cl), nil
}

// ListClients retrieves all clients.
func (s *Service) ListClients(ctx context.Context) (transport.ClientListResponse, error) {
	items, err := s.repo.ListClients(ctx)
	if err != nil {
		return transport.ClientListResponse{}, err
	}

	responses := make([]transport.ClientResponse, len(items))
	for i, item := range items {
		responses[i] = toClientResponse(item)
	}
	return transport.ClientListResponse{Items: responses, Total: len(responses)}, nil
}

// CreateContract creates a new contract for a client.
func (s *Service) CreateContract(ctx context.Context, req transport.CreateContractRequest) (transport.ContractResponse, error) {
	if _, err := s.repo.GetClient(ctx, req.ClientID); err != nil {
		return transport.ContractResponse{}, err
	}

	ct, err := s.repo.CreateContract(ctx, repository.CreateContractParams{
		ClientID:    req.ClientID,
		Equipment:   req.Equipment,
		ProductType: req.ProductType,
	})
	if err != nil {
		return transport.ContractResponse{}, err
	}

	s.log.Info("contract created", "id", ct.ID, "clientId", ct.ClientID, "productType", ct.ProductType)
	return toContractResponse(ct), nil
}

// GetContract retrieves a contract by ID.
func (s *Service) GetContract(ctx context.Context, id uuid.UUID) (transport.ContractResponse, error) {
	ct, err := s.repo.GetContract(ctx, id)
	if err != nil {
		return transport.ContractResponse{}, err
	}
	return toContractResponse(ct), nil
}

// ListContracts retrieves all contracts.
func (s *Service) ListContracts(ctx context.Context) (transport.ContractListResponse, error) {
	items, err := s.repo.ListContracts(ctx)
	if err != nil {
		return transport.ContractListResponse{}, err
	}

	responses := make([]transport.ContractResponse, len(items))
	for i, item := range items {
		responses[i] = toContractResponse(item)
	}
	return transport.ContractListResponse{Items: responses, Total: len(responses)}, nil
}

// UpdateContractStatus changes the lifecycle status of a contract.
func (s *Service) UpdateContractStatus(ctx context.Context, id uuid.UUID, req transport.UpdateContractStatusRequest) error {
	status, err := domain.ParseContractStatus(req.Status)
	if err != nil {
		return err
	}

	if err := s.repo.SetContractStatus(ctx, id, status); err != nil {
		return err
	}

	s.log.Info("contract status updated", "id", id, "status", status)
	return nil
}

// UpsertMaintenancePlan defines or replaces the recurring maintenance plan of
// a contract. The first due date is one frequency interval after the anchor.
func (s *Service) UpsertMaintenancePlan(ctx context.Context, contractID uuid.UUID, req transport.UpsertMaintenancePlanRequest) (transport.ScheduleResponse, error) {
	kind, err := domain.ParseMaintenanceKind(req.Kind)
	if err != nil {
		return transport.ScheduleResponse{}, err
	}
	frequency, err := domain.ParseFrequency(req.Frequency)
	if err != nil {
		return transport.ScheduleResponse{}, err
	}

	if _, err := s.repo.GetContract(ctx, contractID); err != nil {
		return transport.ScheduleResponse{}, err
	}

	anchor := s.now()
	if req.AnchorDate != nil {
		anchor = *req.AnchorDate
	}

	sc, err := s.repo.UpsertSchedule(ctx, repository.UpsertScheduleParams{
		ContractID: contractID,
		Kind:       kind,
		Frequency:  frequency,
		NextDueAt:  scheduling.NextDue(anchor, frequency),
	})
	if err != nil {
		return transport.ScheduleResponse{}, err
	}

	s.log.Info("maintenance plan upserted",
		"contractId", contractID, "frequency", frequency, "nextDueAt", sc.NextDueAt)
	return s.toScheduleResponse(sc), nil
}

// GetMaintenancePlan retrieves the active schedule of a contract.
func (s *Service) GetMaintenancePlan(ctx context.Context, contractID uuid.UUID) (transport.ScheduleResponse, error) {
	sc, err := s.repo.GetScheduleByContract(ctx, contractID)
	if err != nil {
		return transport.ScheduleResponse{}, err
	}
	return s.toScheduleResponse(sc), nil
}

// RemoveMaintenancePlan deactivates the active schedule of a contract.
func (s *Service) RemoveMaintenancePlan(ctx context.Context, contractID uuid.UUID) error {
	if err := s.repo.DeactivateSchedule(ctx, contractID); err != nil {
		return err
	}
	s.log.Info("maintenance plan removed", "contractId", contractID)
	return nil
}

func toClientResponse(cl repository.Client) transport.ClientResponse {
	return transport.ClientResponse{
		ID:        cl.ID,
		Name:      cl.Name,
		Email:     cl.Email,
		Phone:     cl.Phone,
		Address:   cl.Address,
		CreatedAt: cl.CreatedAt.Format(time.RFC3339),
		UpdatedAt: cl.UpdatedAt.Format(time.RFC3339),
	}
}

func toContractResponse(ct repository.Contract) transport.ContractResponse {
	return transport.ContractResponse{
		ID:          ct.ID,
		ClientID:    ct.ClientID,
		Equipment:   ct.Equipment,
		ProductType: ct.ProductType,
		Status:      string(ct.Status),
		CreatedAt:   ct.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   ct.UpdatedAt.Format(time.RFC3339),
	}
}

func (s *Service) toScheduleResponse(sc repository.Schedule) transport.ScheduleResponse {
	var lastPerformed *string
	if sc.LastPerformedAt != nil {
		formatted := sc.LastPerformedAt.Format(time.RFC3339)
		lastPerformed = &formatted
	}

	return transport.ScheduleResponse{
		ID:              sc.ID,
		ContractID:      sc.ContractID,
		Kind:            string(sc.Kind),
		Frequency:       string(sc.Frequency),
		LastPerformedAt: lastPerformed,
		NextDueAt:       sc.NextDueAt.Format(time.RFC3339),
		Active:          sc.Active,
		DueState:        scheduling.Classify(sc.NextDueAt, s.now(), 0).String(),
	}
}
