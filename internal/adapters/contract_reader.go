// Package adapters wires cross-module dependencies without letting bounded
// contexts import each other's internals directly.
package adapters

import (
	"context"

	"github.com/google/uuid"

	contractrepo "assistec_backend/internal/contracts/repository"
	ticketservice "assistec_backend/internal/tickets/service"
)

// ContractClientReader adapts the contracts repository to the tickets
// module's ContractReader port.
type ContractClientReader struct {
	repo contractrepo.Repository
}

// NewContractClientReader creates a new adapter over the contracts repository.
func NewContractClientReader(repo contractrepo.Repository) *ContractClientReader {
	return &ContractClientReader{repo: repo}
}

// GetClientID resolves the client behind a contract.
func (a *ContractClientReader) GetClientID(ctx context.Context, contractID uuid.UUID) (uuid.UUID, error) {
	contract, err := a.repo.GetContract(ctx, contractID)
	if err != nil {
		return uuid.Nil, err
	}
	return contract.ClientID, nil
}

// Compile-time check against the tickets port.
var _ ticketservice.ContractReader = (*ContractClientReader)(nil)
