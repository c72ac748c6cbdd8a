package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"assistec_backend/internal/shared/domain"
	"assistec_backend/platform/apperr"
)

const uniqueViolationCode = "23505"

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new maintenance engine repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

const dueScheduleColumns = `s.id, s.contract_id, c.client_id, c.product_type, s.kind, s.frequency,
	s.last_performed_at, s.next_due_at`

// ListActiveSchedules returns active schedules on ativo contracts, joined
// with the contract fields the generator needs.
func (r *Repo) ListActiveSchedules(ctx context.Context) ([]DueSchedule, error) {
	query := `
		SELECT ` + dueScheduleColumns + `
		FROM maintenance_schedules s
		JOIN contracts c ON c.id = s.contract_id
		WHERE s.active AND c.status = 'ativo'
		ORDER BY s.next_due_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active schedules: %w", err)
	}
	defer rows.Close()

	var schedules []DueSchedule
	for rows.Next() {
		sched, err := scanDueSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		schedules = append(schedules, sched)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schedules: %w", err)
	}

	return schedules, nil
}

// HasOpenMaintenanceTicket reports whether the contract already has an open
// maintenance ticket.
func (r *Repo) HasOpenMaintenanceTicket(ctx context.Context, contractID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM tickets
			WHERE contract_id = $1 AND tipo = 'manutencao'
				AND status IN ('pendente', 'em_andamento')
		)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, contractID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check open maintenance ticket: %w", err)
	}

	return exists, nil
}

// InsertMaintenanceTicket creates a pendente maintenance ticket. The partial
// unique index on open maintenance tickets per contract turns a concurrent
// duplicate into apperr.Conflict.
func (r *Repo) InsertMaintenanceTicket(ctx context.Context, params InsertTicketParams) (uuid.UUID, error) {
	query := `
		INSERT INTO tickets (contract_id, client_id, technician_id, tipo, priority, description, scheduled_date)
		VALUES ($1, $2, $3, 'manutencao', $4, $5, $6)
		RETURNING id`

	var id uuid.UUID
	err := r.pool.QueryRow(ctx, query,
		params.ContractID, params.ClientID, params.TechnicianID,
		string(params.Priority), params.Description, params.ScheduledDate,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return uuid.Nil, apperr.Conflict("an open maintenance ticket already exists for this contract")
		}
		return uuid.Nil, fmt.Errorf("insert maintenance ticket: %w", err)
	}

	return id, nil
}

// UpdateScheduleNextDue advances a schedule's next due date.
func (r *Repo) UpdateScheduleNextDue(ctx context.Context, scheduleID uuid.UUID, nextDueAt time.Time) error {
	query := `UPDATE maintenance_schedules SET next_due_at = $2, updated_at = now() WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, scheduleID, nextDueAt)
	if err != nil {
		return fmt.Errorf("update schedule next due: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("maintenance schedule not found")
	}

	return nil
}

// GetScheduleByContract returns the contract's active schedule.
func (r *Repo) GetScheduleByContract(ctx context.Context, contractID uuid.UUID) (DueSchedule, error) {
	query := `
		SELECT ` + dueScheduleColumns + `
		FROM maintenance_schedules s
		JOIN contracts c ON c.id = s.contract_id
		WHERE s.contract_id = $1 AND s.active`

	sched, err := scanDueSchedule(r.pool.QueryRow(ctx, query, contractID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return DueSchedule{}, apperr.NotFound("maintenance schedule not found")
		}
		return DueSchedule{}, fmt.Errorf("get schedule by contract: %w", err)
	}

	return sched, nil
}

// SetScheduleLastPerformed records the completion time on the contract's
// active schedule. Missing schedule is not an error: the contract may have
// had its plan removed while the ticket was in progress.
func (r *Repo) SetScheduleLastPerformed(ctx context.Context, contractID uuid.UUID, performedAt time.Time) error {
	query := `
		UPDATE maintenance_schedules SET last_performed_at = $2, updated_at = now()
		WHERE contract_id = $1 AND active`

	if _, err := r.pool.Exec(ctx, query, contractID, performedAt); err != nil {
		return fmt.Errorf("set schedule last performed: %w", err)
	}

	return nil
}

// ListTechnicians returns every technician.
func (r *Repo) ListTechnicians(ctx context.Context) ([]Technician, error) {
	query := `
		SELECT id, specialty, rating, online, disponibilidade, available, last_seen_at
		FROM technicians
		ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list technicians: %w", err)
	}
	defer rows.Close()

	var technicians []Technician
	for rows.Next() {
		var tech Technician
		err := rows.Scan(&tech.ID, &tech.Specialty, &tech.Rating,
			&tech.Online, &tech.Disponibilidade, &tech.Available, &tech.LastSeenAt)
		if err != nil {
			return nil, fmt.Errorf("scan technician: %w", err)
		}
		technicians = append(technicians, tech)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate technicians: %w", err)
	}

	return technicians, nil
}

// ListBusyTechnicianIDs returns technicians with a ticket em_andamento.
func (r *Repo) ListBusyTechnicianIDs(ctx context.Context) (map[uuid.UUID]bool, error) {
	query := `
		SELECT DISTINCT technician_id FROM tickets
		WHERE technician_id IS NOT NULL AND status = 'em_andamento'`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list busy technicians: %w", err)
	}
	defer rows.Close()

	busy := make(map[uuid.UUID]bool)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan busy technician: %w", err)
		}
		busy[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate busy technicians: %w", err)
	}

	return busy, nil
}

// UpdateTechnicianAvailable writes the cached available flag.
func (r *Repo) UpdateTechnicianAvailable(ctx context.Context, technicianID uuid.UUID, available bool) error {
	query := `UPDATE technicians SET available = $2, updated_at = now() WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, technicianID, available)
	if err != nil {
		return fmt.Errorf("update technician available: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("technician not found")
	}

	return nil
}

// MarkStaleTechniciansOffline flips online off for technicians without a
// recent heartbeat.
func (r *Repo) MarkStaleTechniciansOffline(ctx context.Context, cutoff time.Time) (int, error) {
	query := `
		UPDATE technicians SET online = false, updated_at = now()
		WHERE online AND (last_seen_at IS NULL OR last_seen_at < $1)`

	result, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("mark stale technicians offline: %w", err)
	}

	return int(result.RowsAffected()), nil
}

// ListOpenMaintenanceTickets returns all open maintenance tickets.
func (r *Repo) ListOpenMaintenanceTickets(ctx context.Context) ([]OpenTicket, error) {
	query := `
		SELECT id, contract_id, status, created_at FROM tickets
		WHERE tipo = 'manutencao' AND status IN ('pendente', 'em_andamento')
		ORDER BY contract_id, created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list open maintenance tickets: %w", err)
	}
	defer rows.Close()

	var tickets []OpenTicket
	for rows.Next() {
		var tk OpenTicket
		var status string
		if err := rows.Scan(&tk.ID, &tk.ContractID, &status, &tk.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan open ticket: %w", err)
		}
		parsed, err := domain.ParseTicketStatus(status)
		if err != nil {
			return nil, err
		}
		tk.Status = parsed
		tickets = append(tickets, tk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate open tickets: %w", err)
	}

	return tickets, nil
}

// DeletePendingTickets removes the given tickets if still pendente. Tickets
// that moved to another status since the repair pass listed them are left
// untouched.
func (r *Repo) DeletePendingTickets(ctx context.Context, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := `DELETE FROM tickets WHERE id = ANY($1) AND status = 'pendente'`

	result, err := r.pool.Exec(ctx, query, ids)
	if err != nil {
		return 0, fmt.Errorf("delete pending tickets: %w", err)
	}

	return int(result.RowsAffected()), nil
}

// GetTicketScheduledDate returns a ticket's scheduled date.
func (r *Repo) GetTicketScheduledDate(ctx context.Context, ticketID uuid.UUID) (time.Time, error) {
	query := `SELECT scheduled_date FROM tickets WHERE id = $1`

	var scheduled time.Time
	if err := r.pool.QueryRow(ctx, query, ticketID).Scan(&scheduled); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, apperr.NotFound("ticket not found")
		}
		return time.Time{}, fmt.Errorf("get ticket scheduled date: %w", err)
	}

	return scheduled, nil
}

// HistoryExists reports whether the ticket already produced a history row.
func (r *Repo) HistoryExists(ctx context.Context, ticketID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM maintenance_history WHERE ticket_id = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, ticketID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check maintenance history: %w", err)
	}

	return exists, nil
}

// InsertHistory records a completed maintenance. A second insert for the same
// ticket hits the unique constraint and is treated as already recorded.
func (r *Repo) InsertHistory(ctx context.Context, params InsertHistoryParams) error {
	query := `
		INSERT INTO maintenance_history (ticket_id, contract_id, scheduled_date, performed_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (ticket_id) DO NOTHING`

	if _, err := r.pool.Exec(ctx, query,
		params.TicketID, params.ContractID, params.ScheduledDate, params.PerformedAt,
	); err != nil {
		return fmt.Errorf("insert maintenance history: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDueSchedule(row rowScanner) (DueSchedule, error) {
	var sched DueSchedule

	err := row.Scan(&sched.ScheduleID, &sched.ContractID, &sched.ClientID, &sched.ProductType,
		&sched.Kind, &sched.Frequency, &sched.LastPerformedAt, &sched.NextDueAt)
	if err != nil {
		return DueSchedule{}, err
	}

	return sched, nil
}
