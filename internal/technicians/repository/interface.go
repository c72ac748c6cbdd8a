package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Technician is a field worker eligible for ticket assignment.
//
// Online and LastSeenAt are heartbeat-driven. Disponibilidade is the raw
// preference flag set by the technician or an admin. Available is a cached,
// workload-derived flag used by list views; it is reconciled by the
// maintenance engine and is never the source of truth for assignment.
type Technician struct {
	ID              uuid.UUID
	Name            string
	Email           string
	Specialty       string
	Rating          float64
	Online          bool
	Disponibilidade bool
	Available       bool
	LastSeenAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CreateParams contains parameters for registering a technician.
type CreateParams struct {
	Name      string
	Email     string
	Specialty string
	Rating    float64
}

// Repository provides persistence for technicians.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (Technician, error)
	GetByID(ctx context.Context, id uuid.UUID) (Technician, error)
	List(ctx context.Context) ([]Technician, error)
	Heartbeat(ctx context.Context, id uuid.UUID) error
	SetDisponibilidade(ctx context.Context, id uuid.UUID, disponivel bool) error
}
