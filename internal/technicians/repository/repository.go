package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"assistec_backend/platform/apperr"
)

const technicianNotFoundMessage = "technician not found"

const technicianColumns = `id, name, email, specialty, rating, online, disponibilidade, available, last_seen_at, created_at, updated_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new technicians repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// Create registers a new technician.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Technician, error) {
	query := `
		INSERT INTO technicians (name, email, specialty, rating)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + technicianColumns

	tech, err := scanTechnician(r.pool.QueryRow(ctx, query, params.Name, params.Email, params.Specialty, params.Rating))
	if err != nil {
		return Technician{}, fmt.Errorf("create technician: %w", err)
	}

	return tech, nil
}

// GetByID retrieves a technician by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Technician, error) {
	query := `SELECT ` + technicianColumns + ` FROM technicians WHERE id = $1`

	tech, err := scanTechnician(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Technician{}, apperr.NotFound(technicianNotFoundMessage)
		}
		return Technician{}, fmt.Errorf("get technician: %w", err)
	}

	return tech, nil
}

// List retrieves all technicians ordered by name.
func (r *Repo) List(ctx context.Context) ([]Technician, error) {
	query := `SELECT ` + technicianColumns + ` FROM technicians ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list technicians: %w", err)
	}
	defer rows.Close()

	var results []Technician
	for rows.Next() {
		tech, err := scanTechnician(rows)
		if err != nil {
			return nil, fmt.Errorf("scan technician: %w", err)
		}
		results = append(results, tech)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate technicians: %w", err)
	}

	return results, nil
}

// Heartbeat marks a technician online and refreshes last_seen_at.
func (r *Repo) Heartbeat(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE technicians SET online = true, last_seen_at = now(), updated_at = now() WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("technician heartbeat: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(technicianNotFoundMessage)
	}

	return nil
}

// SetDisponibilidade updates the raw availability preference flag.
func (r *Repo) SetDisponibilidade(ctx context.Context, id uuid.UUID, disponivel bool) error {
	query := `UPDATE technicians SET disponibilidade = $2, updated_at = now() WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, disponivel)
	if err != nil {
		return fmt.Errorf("set technician disponibilidade: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(technicianNotFoundMessage)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTechnician(row rowScanner) (Technician, error) {
	var tech Technician
	err := row.Scan(
		&tech.ID, &tech.Name, &tech.Email, &tech.Specialty, &tech.Rating,
		&tech.Online, &tech.Disponibilidade, &tech.Available, &tech.LastSeenAt,
		&tech.CreatedAt, &tech.UpdatedAt,
	)
	if err != nil {
		return Technician{}, err
	}
	return tech, nil
}
