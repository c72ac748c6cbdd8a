package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateClientRequest contains data for registering a new client.
type CreateClientRequest struct {
	Name    string  `json:"name" validate:"required,min=1,max=200"`
	Email   string  `json:"email" validate:"required,email"`
	Phone   string  `json:"phone" validate:"required,min=8,max=20"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=300"`
}

// ClientResponse represents a client in API responses.
type ClientResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   *string   `json:"address,omitempty"`
	CreatedAt string    `json:"createdAt"`
	UpdatedAt string    `json:"updatedAt"`
}

// CreateContractRequest contains data for creating a contract.
type CreateContractRequest struct {
	ClientID    uuid.UUID `json:"clientId" validate:"required"`
	Equipment   []string  `json:"equipment" validate:"required,min=1,dive,min=1,max=200"`
	ProductType string    `json:"productType" validate:"required,min=1,max=100"`
}

// UpdateContractStatusRequest changes a contract's lifecycle status.
type UpdateContractStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ContractResponse represents a contract in API responses.
type ContractResponse struct {
	ID          uuid.UUID `json:"id"`
	ClientID    uuid.UUID `json:"clientId"`
	Equipment   []string  `json:"equipment"`
	ProductType string    `json:"productType"`
	Status      string    `json:"status"`
	CreatedAt   string    `json:"createdAt"`
	UpdatedAt   string    `json:"updatedAt"`
}

// ContractListResponse wraps a list of contracts.
type ContractListResponse struct {
	Items []ContractResponse `json:"items"`
	Total int                `json:"total"`
}

// ClientListResponse wraps a list of clients.
type ClientListResponse struct {
	Items []ClientResponse `json:"items"`
	Total int              `json:"total"`
}

// UpsertMaintenancePlanRequest defines or replaces the recurring maintenance
// plan of a contract. AnchorDate defaults to now when omitted.
type UpsertMaintenancePlanRequest struct {
	Kind       string     `json:"kind" validate:"required"`
	Frequency  string     `json:"frequency" validate:"required"`
	AnchorDate *time.Time `json:"anchorDate,omitempty"`
}

// ScheduleResponse represents a maintenance schedule in API responses.
type ScheduleResponse struct {
	ID              uuid.UUID `json:"id"`
	ContractID      uuid.UUID `json:"contractId"`
	Kind            string    `json:"kind"`
	Frequency       string    `json:"frequency"`
	LastPerformedAt *string   `json:"lastPerformedAt,omitempty"`
	NextDueAt       string    `json:"nextDueAt"`
	Active          bool      `json:"active"`
	DueState        string    `json:"dueState"`
}
