package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"assistec_backend/internal/shared/domain"
	"assistec_backend/platform/apperr"
)

const (
	ticketNotFoundMessage = "ticket not found"

	uniqueViolationCode = "23505"
)

const ticketColumns = `id, contract_id, client_id, technician_id, tipo, priority, status,
	description, cancel_reason, scheduled_date, started_at, finished_at, cancelled_at,
	created_at, updated_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new tickets repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// Create inserts a new ticket with status pendente. For maintenance tickets
// the partial unique index on open tickets per contract turns a concurrent
// duplicate insert into an apperr.Conflict.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Ticket, error) {
	query := `
		INSERT INTO tickets (contract_id, client_id, technician_id, tipo, priority, description, scheduled_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + ticketColumns

	tk, err := ScanTicket(r.pool.QueryRow(ctx, query,
		params.ContractID, params.ClientID, params.TechnicianID,
		string(params.Tipo), string(params.Priority), params.Description, params.ScheduledDate,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return Ticket{}, apperr.Conflict("an open maintenance ticket already exists for this contract")
		}
		return Ticket{}, fmt.Errorf("create ticket: %w", err)
	}

	return tk, nil
}

// GetByID retrieves a ticket by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`

	tk, err := ScanTicket(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Ticket{}, apperr.NotFound(ticketNotFoundMessage)
		}
		return Ticket{}, fmt.Errorf("get ticket: %w", err)
	}

	return tk, nil
}

// List retrieves tickets matching the filters, newest first.
func (r *Repo) List(ctx context.Context, filters ListFilters) ([]Ticket, error) {
	var statusParam interface{}
	if filters.Status != nil {
		statusParam = string(*filters.Status)
	}

	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE ($1::uuid IS NULL OR contract_id = $1)
			AND ($2::uuid IS NULL OR technician_id = $2)
			AND ($3::text IS NULL OR status = $3)
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, filters.ContractID, filters.TechnicianID, statusParam)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()

	var results []Ticket
	for rows.Next() {
		tk, err := ScanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		results = append(results, tk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tickets: %w", err)
	}

	return results, nil
}

// Assign sets the technician of an open ticket.
func (r *Repo) Assign(ctx context.Context, id, technicianID uuid.UUID) error {
	query := `
		UPDATE tickets SET technician_id = $2, updated_at = now()
		WHERE id = $1 AND status IN ('pendente', 'em_andamento')`

	result, err := r.pool.Exec(ctx, query, id, technicianID)
	if err != nil {
		return fmt.Errorf("assign ticket: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.Conflict("ticket is not open for assignment")
	}

	return nil
}

// Start transitions a ticket from pendente to em_andamento.
func (r *Repo) Start(ctx context.Context, id uuid.UUID) (Ticket, error) {
	query := `
		UPDATE tickets SET status = 'em_andamento', started_at = now(), updated_at = now()
		WHERE id = $1 AND status = 'pendente'
		RETURNING ` + ticketColumns

	tk, err := ScanTicket(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Ticket{}, apperr.Conflict("ticket cannot be started from its current status")
		}
		return Ticket{}, fmt.Errorf("start ticket: %w", err)
	}

	return tk, nil
}

// Finish transitions a ticket from em_andamento to concluida.
func (r *Repo) Finish(ctx context.Context, id uuid.UUID) (Ticket, error) {
	query := `
		UPDATE tickets SET status = 'concluida', finished_at = now(), updated_at = now()
		WHERE id = $1 AND status = 'em_andamento'
		RETURNING ` + ticketColumns

	tk, err := ScanTicket(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Ticket{}, apperr.Conflict("ticket cannot be finished from its current status")
		}
		return Ticket{}, fmt.Errorf("finish ticket: %w", err)
	}

	return tk, nil
}

// Cancel transitions an open ticket to cancelada with a reason.
func (r *Repo) Cancel(ctx context.Context, id uuid.UUID, reason string) (Ticket, error) {
	query := `
		UPDATE tickets SET status = 'cancelada', cancel_reason = $2, cancelled_at = now(), updated_at = now()
		WHERE id = $1 AND status IN ('pendente', 'em_andamento')
		RETURNING ` + ticketColumns

	tk, err := ScanTicket(r.pool.QueryRow(ctx, query, id, reason))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Ticket{}, apperr.Conflict("ticket cannot be cancelled from its current status")
		}
		return Ticket{}, fmt.Errorf("cancel ticket: %w", err)
	}

	return tk, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// ScanTicket scans a full ticket row, parsing the string enums.
func ScanTicket(row rowScanner) (Ticket, error) {
	var tk Ticket
	var tipo, priority, status string

	err := row.Scan(
		&tk.ID, &tk.ContractID, &tk.ClientID, &tk.TechnicianID, &tipo, &priority, &status,
		&tk.Description, &tk.CancelReason, &tk.ScheduledDate, &tk.StartedAt, &tk.FinishedAt, &tk.CancelledAt,
		&tk.CreatedAt, &tk.UpdatedAt,
	)
	if err != nil {
		return Ticket{}, err
	}

	parsedTipo, err := domain.ParseTicketTipo(tipo)
	if err != nil {
		return Ticket{}, err
	}
	parsedPriority, err := domain.ParseTicketPriority(priority)
	if err != nil {
		return Ticket{}, err
	}
	parsedStatus, err := domain.ParseTicketStatus(status)
	if err != nil {
		return Ticket{}, err
	}

	tk.Tipo = parsedTipo
	tk.Priority = parsedPriority
	tk.Status = parsedStatus

	return tk, nil
}
