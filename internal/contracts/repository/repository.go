package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"assistec_backend/internal/shared/domain"
	"assistec_backend/platform/apperr"
)

const (
	clientNotFoundMessage   = "client not found"
	contractNotFoundMessage = "contract not found"
	scheduleNotFoundMessage = "maintenance schedule not found"
)

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new contracts repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// CreateClient inserts a new client.
func (r *Repo) CreateClient(ctx context.Context, params CreateClientParams) (Client, error) {
	query := `
		INSERT INTO clients (name, email, phone, address)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, email, phone, address, created_at, updated_at`

	var cl Client
	err := r.pool.QueryRow(ctx, query, params.Name, params.Email, params.Phone, params.Address).Scan(
		&cl.ID, &cl.Name, &cl.Email, &cl.Phone, &cl.Address, &cl.CreatedAt, &cl.UpdatedAt,
	)
	if err != nil {
		return Client{}, fmt.Errorf("create client: %w", err)
	}

	return cl, nil
}

// GetClient retrieves a client by ID.
func (r *Repo) GetClient(ctx context.Context, id uuid.UUID) (Client, error) {
	query := `
		SELECT id, name, email, phone, address, created_at, updated_at
		FROM clients
		WHERE id = $1`

	var cl Client
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&cl.ID, &cl.Name, &cl.Email, &cl.Phone, &cl.Address, &cl.CreatedAt, &cl.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Client{}, apperr.NotFound(clientNotFoundMessage)
		}
		return Client{}, fmt.Errorf("get client: %w", err)
	}

	return cl, nil
}

// ListClients retrieves all clients ordered by name.
func (r *Repo) ListClients(ctx context.Context) ([]Client, error) {
	query := `
		SELECT id, name, email, phone, address, created_at, updated_at
		FROM clients
		ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var results []Client
	for rows.Next() {
		var cl Client
		if err := rows.Scan(&cl.ID, &cl.Name, &cl.Email, &cl.Phone, &cl.Address, &cl.CreatedAt, &cl.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		results = append(results, cl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clients: %w", err)
	}

	return results, nil
}

// CreateContract inserts a new contract with status ativo.
func (r *Repo) CreateContract(ctx context.Context, params CreateContractParams) (Contract, error) {
	query := `
		INSERT INTO contracts (client_id, equipment, product_type)
		VALUES ($1, $2, $3)
		RETURNING id, client_id, equipment, product_type, status, created_at, updated_at`

	ct, err := scanContract(r.pool.QueryRow(ctx, query, params.ClientID, params.Equipment, params.ProductType))
	if err != nil {
		return Contract{}, fmt.Errorf("create contract: %w", err)
	}

	return ct, nil
}

// GetContract retrieves a contract by ID.
func (r *Repo) GetContract(ctx context.Context, id uuid.UUID) (Contract, error) {
	query := `
		SELECT id, client_id, equipment, product_type, status, created_at, updated_at
		FROM contracts
		WHERE id = $1`

	ct, err := scanContract(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Contract{}, apperr.NotFound(contractNotFoundMessage)
		}
		return Contract{}, fmt.Errorf("get contract: %w", err)
	}

	return ct, nil
}

// ListContracts retrieves all contracts, newest first.
func (r *Repo) ListContracts(ctx context.Context) ([]Contract, error) {
	query := `
		SELECT id, client_id, equipment, product_type, status, created_at, updated_at
		FROM contracts
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	defer rows.Close()

	var results []Contract
	for rows.Next() {
		ct, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contract: %w", err)
		}
		results = append(results, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contracts: %w", err)
	}

	return results, nil
}

// SetContractStatus updates the lifecycle status of a contract.
func (r *Repo) SetContractStatus(ctx context.Context, id uuid.UUID, status domain.ContractStatus) error {
	query := `UPDATE contracts SET status = $2, updated_at = now() WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, string(status))
	if err != nil {
		return fmt.Errorf("set contract status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(contractNotFoundMessage)
	}

	return nil
}

// UpsertSchedule creates the active maintenance schedule for a contract, or
// replaces its plan fields when one already exists. The partial unique index
// on (contract_id) WHERE active guarantees at most one active schedule.
func (r *Repo) UpsertSchedule(ctx context.Context, params UpsertScheduleParams) (Schedule, error) {
	query := `
		INSERT INTO maintenance_schedules (contract_id, kind, frequency, next_due_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (contract_id) WHERE active DO UPDATE
			SET kind = EXCLUDED.kind,
			    frequency = EXCLUDED.frequency,
			    next_due_at = EXCLUDED.next_due_at,
			    updated_at = now()
		RETURNING id, contract_id, kind, frequency, last_performed_at, next_due_at, active, created_at, updated_at`

	sc, err := scanSchedule(r.pool.QueryRow(ctx, query,
		params.ContractID, string(params.Kind), string(params.Frequency), params.NextDueAt,
	))
	if err != nil {
		return Schedule{}, fmt.Errorf("upsert schedule: %w", err)
	}

	return sc, nil
}

// GetScheduleByContract retrieves the active schedule of a contract.
func (r *Repo) GetScheduleByContract(ctx context.Context, contractID uuid.UUID) (Schedule, error) {
	query := `
		SELECT id, contract_id, kind, frequency, last_performed_at, next_due_at, active, created_at, updated_at
		FROM maintenance_schedules
		WHERE contract_id = $1 AND active`

	sc, err := scanSchedule(r.pool.QueryRow(ctx, query, contractID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Schedule{}, apperr.NotFound(scheduleNotFoundMessage)
		}
		return Schedule{}, fmt.Errorf("get schedule by contract: %w", err)
	}

	return sc, nil
}

// DeactivateSchedule retires the active schedule of a contract.
func (r *Repo) DeactivateSchedule(ctx context.Context, contractID uuid.UUID) error {
	query := `UPDATE maintenance_schedules SET active = false, updated_at = now() WHERE contract_id = $1 AND active`

	result, err := r.pool.Exec(ctx, query, contractID)
	if err != nil {
		return fmt.Errorf("deactivate schedule: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(scheduleNotFoundMessage)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContract(row rowScanner) (Contract, error) {
	var ct Contract
	var status string
	if err := row.Scan(&ct.ID, &ct.ClientID, &ct.Equipment, &ct.ProductType, &status, &ct.CreatedAt, &ct.UpdatedAt); err != nil {
		return Contract{}, err
	}

	parsed, err := domain.ParseContractStatus(status)
	if err != nil {
		return Contract{}, err
	}
	ct.Status = parsed

	return ct, nil
}

func scanSchedule(row rowScanner) (Schedule, error) {
	var sc Schedule
	var kind, frequency string
	if err := row.Scan(&sc.ID, &sc.ContractID, &kind, &frequency, &sc.LastPerformedAt, &sc.NextDueAt, &sc.Active, &sc.CreatedAt, &sc.UpdatedAt); err != nil {
		return Schedule{}, err
	}

	parsedKind, err := domain.ParseMaintenanceKind(kind)
	if err != nil {
		return Schedule{}, err
	}
	parsedFrequency, err := domain.ParseFrequency(frequency)
	if err != nil {
		return Schedule{}, err
	}
	sc.Kind = parsedKind
	sc.Frequency = parsedFrequency

	return sc, nil
}
