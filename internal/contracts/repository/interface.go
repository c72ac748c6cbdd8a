package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"assistec_backend/internal/shared/domain"
)

// Client is a customer that owns service contracts.
type Client struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Phone     string
	Address   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Contract is a service agreement between a client and the company.
type Contract struct {
	ID          uuid.UUID
	ClientID    uuid.UUID
	Equipment   []string
	ProductType string
	Status      domain.ContractStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Schedule is the recurring maintenance plan attached to a contract.
// At most one active schedule exists per contract.
type Schedule struct {
	ID              uuid.UUID
	ContractID      uuid.UUID
	Kind            domain.MaintenanceKind
	Frequency       domain.Frequency
	LastPerformedAt *time.Time
	NextDueAt       time.Time
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CreateClientParams contains parameters for creating a client.
type CreateClientParams struct {
	Name    string
	Email   string
	Phone   string
	Address *string
}

// CreateContractParams contains parameters for creating a contract.
type CreateContractParams struct {
	ClientID    uuid.UUID
	Equipment   []string
	ProductType string
}

// UpsertScheduleParams defines or replaces the active maintenance plan of a
// contract.
type UpsertScheduleParams struct {
	ContractID uuid.UUID
	Kind       domain.MaintenanceKind
	Frequency  domain.Frequency
	NextDueAt  time.Time
}

// Repository provides persistence for clients, contracts and schedules.
type Repository interface {
	CreateClient(ctx context.Context, params CreateClientParams) (Client, error)
	GetClient(ctx context.Context, id uuid.UUID) (Client, error)
	ListClients(ctx context.Context) ([]Client, error)

	CreateContract(ctx context.Context, params CreateContractParams) (Contract, error)
	GetContract(ctx context.Context, id uuid.UUID) (Contract, error)
	ListContracts(ctx context.Context) ([]Contract, error)
	SetContractStatus(ctx context.Context, id uuid.UUID, status domain.ContractStatus) error

	UpsertSchedule(ctx context.Context, params UpsertScheduleParams) (Schedule, error)
	GetScheduleByContract(ctx context.Context, contractID uuid.UUID) (Schedule, error)
	DeactivateSchedule(ctx context.Context, contractID uuid.UUID) error
}
