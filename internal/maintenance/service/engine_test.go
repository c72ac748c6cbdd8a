package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"assistec_backend/internal/events"
	"assistec_backend/internal/maintenance/repository"
	"assistec_backend/internal/shared/domain"
	"assistec_backend/platform/apperr"
	"assistec_backend/platform/logger"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type fakeTicket struct {
	id           uuid.UUID
	contractID   uuid.UUID
	technicianID *uuid.UUID
	priority     domain.TicketPriority
	status       domain.TicketStatus
	scheduled    time.Time
	createdAt    time.Time
}

// fakeRepo is an in-memory Repository with the same uniqueness semantics as
// the real one: at most one open maintenance ticket per contract.
type fakeRepo struct {
	mu sync.Mutex

	schedules     map[uuid.UUID]repository.DueSchedule
	technicians   map[uuid.UUID]repository.Technician
	tickets       map[uuid.UUID]*fakeTicket
	history       map[uuid.UUID]repository.InsertHistoryParams
	lastPerformed map[uuid.UUID]time.Time

	openCheckErr  map[uuid.UUID]error
	availWriteErr map[uuid.UUID]error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		schedules:     make(map[uuid.UUID]repository.DueSchedule),
		technicians:   make(map[uuid.UUID]repository.Technician),
		tickets:       make(map[uuid.UUID]*fakeTicket),
		history:       make(map[uuid.UUID]repository.InsertHistoryParams),
		lastPerformed: make(map[uuid.UUID]time.Time),
		openCheckErr:  make(map[uuid.UUID]error),
		availWriteErr: make(map[uuid.UUID]error),
	}
}

var _ repository.Repository = (*fakeRepo)(nil)

func (f *fakeRepo) ListActiveSchedules(ctx context.Context) ([]repository.DueSchedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []repository.DueSchedule
	for _, s := range f.schedules {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeRepo) HasOpenMaintenanceTicket(ctx context.Context, contractID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.openCheckErr[contractID]; err != nil {
		return false, err
	}
	return f.hasOpenLocked(contractID), nil
}

func (f *fakeRepo) hasOpenLocked(contractID uuid.UUID) bool {
	for _, tk := range f.tickets {
		if tk.contractID == contractID && tk.status.IsOpen() {
			return true
		}
	}
	return false
}

func (f *fakeRepo) InsertMaintenanceTicket(ctx context.Context, params repository.InsertTicketParams) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.hasOpenLocked(params.ContractID) {
		return uuid.Nil, apperr.Conflict("an open maintenance ticket already exists for this contract")
	}
	id := uuid.New()
	f.tickets[id] = &fakeTicket{
		id:           id,
		contractID:   params.ContractID,
		technicianID: params.TechnicianID,
		priority:     params.Priority,
		status:       domain.StatusPendente,
		scheduled:    params.ScheduledDate,
		createdAt:    time.Now(),
	}
	return id, nil
}

func (f *fakeRepo) UpdateScheduleNextDue(ctx context.Context, scheduleID uuid.UUID, nextDueAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	sched, ok := f.schedules[scheduleID]
	if !ok {
		return apperr.NotFound("maintenance schedule not found")
	}
	sched.NextDueAt = nextDueAt
	f.schedules[scheduleID] = sched
	return nil
}

func (f *fakeRepo) GetScheduleByContract(ctx context.Context, contractID uuid.UUID) (repository.DueSchedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.schedules {
		if s.ContractID == contractID {
			return s, nil
		}
	}
	return repository.DueSchedule{}, apperr.NotFound("maintenance schedule not found")
}

func (f *fakeRepo) SetScheduleLastPerformed(ctx context.Context, contractID uuid.UUID, performedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastPerformed[contractID] = performedAt
	return nil
}

func (f *fakeRepo) ListTechnicians(ctx context.Context) ([]repository.Technician, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []repository.Technician
	for _, t := range f.technicians {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeRepo) ListBusyTechnicianIDs(ctx context.Context) (map[uuid.UUID]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	busy := make(map[uuid.UUID]bool)
	for _, tk := range f.tickets {
		if tk.technicianID != nil && tk.status == domain.StatusEmAndamento {
			busy[*tk.technicianID] = true
		}
	}
	return busy, nil
}

func (f *fakeRepo) UpdateTechnicianAvailable(ctx context.Context, technicianID uuid.UUID, available bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.availWriteErr[technicianID]; err != nil {
		return err
	}
	tech, ok := f.technicians[technicianID]
	if !ok {
		return apperr.NotFound("technician not found")
	}
	tech.Available = available
	f.technicians[technicianID] = tech
	return nil
}

func (f *fakeRepo) MarkStaleTechniciansOffline(ctx context.Context, cutoff time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	marked := 0
	for id, tech := range f.technicians {
		if !tech.Online {
			continue
		}
		if tech.LastSeenAt == nil || tech.LastSeenAt.Before(cutoff) {
			tech.Online = false
			f.technicians[id] = tech
			marked++
		}
	}
	return marked, nil
}

func (f *fakeRepo) ListOpenMaintenanceTickets(ctx context.Context) ([]repository.OpenTicket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []repository.OpenTicket
	for _, tk := range f.tickets {
		if tk.status.IsOpen() {
			out = append(out, repository.OpenTicket{
				ID: tk.id, ContractID: tk.contractID, Status: tk.status, CreatedAt: tk.createdAt,
			})
		}
	}
	return out, nil
}

func (f *fakeRepo) DeletePendingTickets(ctx context.Context, ids []uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	deleted := 0
	for _, id := range ids {
		tk, ok := f.tickets[id]
		if !ok || tk.status != domain.StatusPendente {
			continue
		}
		delete(f.tickets, id)
		deleted++
	}
	return deleted, nil
}

func (f *fakeRepo) GetTicketScheduledDate(ctx context.Context, ticketID uuid.UUID) (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tk, ok := f.tickets[ticketID]
	if !ok {
		return time.Time{}, apperr.NotFound("ticket not found")
	}
	return tk.scheduled, nil
}

func (f *fakeRepo) HistoryExists(ctx context.Context, ticketID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.history[ticketID]
	return ok, nil
}

func (f *fakeRepo) InsertHistory(ctx context.Context, params repository.InsertHistoryParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.history[params.TicketID]; ok {
		return nil
	}
	f.history[params.TicketID] = params
	return nil
}

// Helpers to seed the fake.

func (f *fakeRepo) addSchedule(contractID uuid.UUID, productType string, freq domain.Frequency, nextDue time.Time) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	f.schedules[id] = repository.DueSchedule{
		ScheduleID:  id,
		ContractID:  contractID,
		ClientID:    uuid.New(),
		ProductType: productType,
		Kind:        string(domain.KindPreventiva),
		Frequency:   string(freq),
		NextDueAt:   nextDue,
	}
	return id
}

func (f *fakeRepo) addTechnician(tech repository.Technician) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	if tech.ID == uuid.Nil {
		tech.ID = uuid.New()
	}
	f.technicians[tech.ID] = tech
	return tech.ID
}

func (f *fakeRepo) ticketsForContract(contractID uuid.UUID) []*fakeTicket {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*fakeTicket
	for _, tk := range f.tickets {
		if tk.contractID == contractID {
			out = append(out, tk)
		}
	}
	return out
}

// recordBus captures published events synchronously.
type recordBus struct {
	mu        sync.Mutex
	published []events.Event
}

func (b *recordBus) Publish(ctx context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, event)
}

func (b *recordBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *recordBus) Subscribe(eventName string, handler events.Handler) {}

func (b *recordBus) events() []events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]events.Event(nil), b.published...)
}

type engineTestConfig struct{}

func (engineTestConfig) GetGenerationConcurrency() int         { return 2 }
func (engineTestConfig) GetDueSoonWindow() time.Duration       { return 7 * 24 * time.Hour }
func (engineTestConfig) GetHeartbeatStaleAfter() time.Duration { return 10 * time.Minute }

func newTestEngine() (*Engine, *fakeRepo, *recordBus) {
	repo := newFakeRepo()
	bus := &recordBus{}
	engine := NewEngine(repo, bus, logger.New("development"), engineTestConfig{})
	engine.now = func() time.Time { return testNow }
	return engine, repo, bus
}

func onlineTech(specialty string, rating float64) repository.Technician {
	seen := testNow.Add(-time.Minute)
	return repository.Technician{
		Specialty: specialty, Rating: rating,
		Online: true, Disponibilidade: true, Available: true,
		LastSeenAt: &seen,
	}
}

func TestGenerateCreatesTicketForOverdueSchedule(t *testing.T) {
	engine, repo, bus := newTestEngine()
	contractID := uuid.New()
	schedID := repo.addSchedule(contractID, "elevador", domain.FrequencyMensal, testNow.AddDate(0, 0, -3))
	techID := repo.addTechnician(onlineTech("elevador", 4.5))

	summary, err := engine.GenerateDueTickets(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Created != 1 || summary.Assigned != 1 {
		t.Fatalf("expected 1 created 1 assigned, got %+v", summary)
	}

	tickets := repo.ticketsForContract(contractID)
	if len(tickets) != 1 {
		t.Fatalf("expected 1 ticket, got %d", len(tickets))
	}
	tk := tickets[0]
	if tk.technicianID == nil || *tk.technicianID != techID {
		t.Fatalf("ticket not assigned to expected technician")
	}
	if tk.status != domain.StatusPendente {
		t.Fatalf("expected pendente, got %s", tk.status)
	}

	sched := repo.schedules[schedID]
	want := testNow.AddDate(0, 1, 0)
	if !sched.NextDueAt.Equal(want) {
		t.Fatalf("next due not re-anchored: got %v want %v", sched.NextDueAt, want)
	}

	published := bus.events()
	if len(published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(published))
	}
	created, ok := published[0].(events.MaintenanceTicketCreated)
	if !ok {
		t.Fatalf("unexpected event type %T", published[0])
	}
	if created.ContractID != contractID {
		t.Fatalf("event carries wrong contract")
	}
}

func TestGenerateIsIdempotent(t *testing.T) {
	engine, repo, _ := newTestEngine()
	contractID := uuid.New()
	repo.addSchedule(contractID, "elevador", domain.FrequencyMensal, testNow.AddDate(0, 0, -3))
	repo.addTechnician(onlineTech("elevador", 4.0))

	if _, err := engine.GenerateDueTickets(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := engine.GenerateDueTickets(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Created != 0 {
		t.Fatalf("second run created %d tickets, want 0", second.Created)
	}
	if len(repo.ticketsForContract(contractID)) != 1 {
		t.Fatalf("duplicate ticket created for contract")
	}
}

func TestGenerateSkipsSchedulesNotYetDue(t *testing.T) {
	engine, repo, _ := newTestEngine()
	repo.addSchedule(uuid.New(), "elevador", domain.FrequencyMensal, testNow.AddDate(0, 0, 10))

	summary, err := engine.GenerateDueTickets(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Created != 0 || summary.Skipped != 0 {
		t.Fatalf("expected empty summary, got %+v", summary)
	}
}

func TestGenerateCreatesUnassignedWhenNobodyAvailable(t *testing.T) {
	engine, repo, _ := newTestEngine()
	contractID := uuid.New()
	repo.addSchedule(contractID, "elevador", domain.FrequencyMensal, testNow.AddDate(0, 0, -1))

	offline := onlineTech("elevador", 5.0)
	offline.Online = false
	repo.addTechnician(offline)

	summary, err := engine.GenerateDueTickets(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Created != 1 || summary.Assigned != 0 {
		t.Fatalf("expected unassigned ticket, got %+v", summary)
	}
	tk := repo.ticketsForContract(contractID)[0]
	if tk.technicianID != nil {
		t.Fatalf("expected nil technician, got %s", *tk.technicianID)
	}
}

func TestGenerateExcludesBusyTechnician(t *testing.T) {
	engine, repo, _ := newTestEngine()
	contractID := uuid.New()
	repo.addSchedule(contractID, "elevador", domain.FrequencyMensal, testNow.AddDate(0, 0, -1))

	bestID := repo.addTechnician(onlineTech("elevador", 5.0))
	secondID := repo.addTechnician(onlineTech("elevador", 3.0))

	// Give the best technician a job in progress on another contract.
	repo.mu.Lock()
	busyTicket := uuid.New()
	repo.tickets[busyTicket] = &fakeTicket{
		id: busyTicket, contractID: uuid.New(), technicianID: &bestID,
		status: domain.StatusEmAndamento, createdAt: time.Now(),
	}
	repo.mu.Unlock()

	if _, err := engine.GenerateDueTickets(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tk := repo.ticketsForContract(contractID)[0]
	if tk.technicianID == nil || *tk.technicianID != secondID {
		t.Fatalf("expected busy technician to be passed over")
	}
}

func TestGeneratePriorityEscalatesWhenVisitWasSkipped(t *testing.T) {
	engine, repo, _ := newTestEngine()

	slightly := uuid.New()
	repo.addSchedule(slightly, "elevador", domain.FrequencyMensal, testNow.AddDate(0, 0, -2))

	badly := uuid.New()
	repo.addSchedule(badly, "elevador", domain.FrequencyMensal, testNow.AddDate(0, -2, 0))

	if _, err := engine.GenerateDueTickets(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := repo.ticketsForContract(slightly)[0].priority; got != domain.PriorityMedia {
		t.Fatalf("slightly overdue: expected media, got %s", got)
	}
	if got := repo.ticketsForContract(badly)[0].priority; got != domain.PriorityUrgente {
		t.Fatalf("overdue past a full interval: expected urgente, got %s", got)
	}
}

func TestGenerateCollectsPerScheduleErrors(t *testing.T) {
	engine, repo, _ := newTestEngine()

	healthy := uuid.New()
	repo.addSchedule(healthy, "elevador", domain.FrequencyMensal, testNow.AddDate(0, 0, -1))

	broken := uuid.New()
	repo.addSchedule(broken, "elevador", domain.FrequencyMensal, testNow.AddDate(0, 0, -1))
	repo.openCheckErr[broken] = errors.New("connection reset")

	summary, err := engine.GenerateDueTickets(context.Background())
	if err != nil {
		t.Fatalf("run should survive per-schedule failures: %v", err)
	}
	if summary.Created != 1 {
		t.Fatalf("healthy schedule not processed, got %+v", summary)
	}
	if len(summary.Errors) != 1 || summary.Errors[0].ContractID != broken {
		t.Fatalf("expected 1 error for broken contract, got %+v", summary.Errors)
	}
}

func TestGenerateReportsMalformedSchedule(t *testing.T) {
	engine, repo, _ := newTestEngine()

	healthy := uuid.New()
	repo.addSchedule(healthy, "elevador", domain.FrequencyMensal, testNow.AddDate(0, 0, -1))

	// Imported row with a frequency the engine does not know.
	malformed := uuid.New()
	schedID := uuid.New()
	repo.schedules[schedID] = repository.DueSchedule{
		ScheduleID:  schedID,
		ContractID:  malformed,
		ClientID:    uuid.New(),
		ProductType: "elevador",
		Kind:        string(domain.KindPreventiva),
		Frequency:   "quinzenal",
		NextDueAt:   testNow.AddDate(0, 0, -1),
	}

	summary, err := engine.GenerateDueTickets(context.Background())
	if err != nil {
		t.Fatalf("run should survive a malformed schedule: %v", err)
	}
	if summary.Created != 1 {
		t.Fatalf("healthy schedule not processed, got %+v", summary)
	}
	if len(summary.Errors) != 1 || summary.Errors[0].ScheduleID != schedID {
		t.Fatalf("expected 1 error for the malformed schedule, got %+v", summary.Errors)
	}
	if got := len(repo.ticketsForContract(malformed)); got != 0 {
		t.Fatalf("malformed schedule must not produce a ticket, got %d", got)
	}
}

func TestReconcileRepairsDriftedAvailability(t *testing.T) {
	engine, repo, _ := newTestEngine()

	// Offline but cached as available: must be repaired.
	drifted := onlineTech("elevador", 4.0)
	drifted.Online = false
	drifted.Available = true
	driftedID := repo.addTechnician(drifted)

	// Consistent: no write expected.
	repo.addTechnician(onlineTech("gerador", 4.0))

	summary, err := engine.ReconcileTechnicianAvailability(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Reconciled != 1 {
		t.Fatalf("expected 1 reconciled, got %+v", summary)
	}
	if repo.technicians[driftedID].Available {
		t.Fatalf("drifted technician still cached as available")
	}

	again, err := engine.ReconcileTechnicianAvailability(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.Reconciled != 0 {
		t.Fatalf("second pass should write nothing, got %+v", again)
	}
}

func TestReconcileContinuesPastFailedWrite(t *testing.T) {
	engine, repo, _ := newTestEngine()

	var driftedIDs []uuid.UUID
	for i := 0; i < 3; i++ {
		tech := onlineTech("elevador", 4.0)
		tech.Online = false
		tech.Available = true
		driftedIDs = append(driftedIDs, repo.addTechnician(tech))
	}
	repo.availWriteErr[driftedIDs[1]] = errors.New("connection reset")

	summary, err := engine.ReconcileTechnicianAvailability(context.Background())
	if err != nil {
		t.Fatalf("one failed write must not abort the pass: %v", err)
	}
	if summary.Reconciled != 2 || summary.Failed != 1 {
		t.Fatalf("expected 2 reconciled and 1 failed, got %+v", summary)
	}
	if repo.technicians[driftedIDs[0]].Available || repo.technicians[driftedIDs[2]].Available {
		t.Fatalf("technicians after the failed write were not repaired")
	}
}

func TestReconcileSweepsStaleHeartbeats(t *testing.T) {
	engine, repo, _ := newTestEngine()

	stale := onlineTech("elevador", 4.0)
	seen := testNow.Add(-time.Hour)
	stale.LastSeenAt = &seen
	staleID := repo.addTechnician(stale)

	summary, err := engine.ReconcileTechnicianAvailability(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.MarkedOffline != 1 {
		t.Fatalf("expected 1 marked offline, got %+v", summary)
	}
	tech := repo.technicians[staleID]
	if tech.Online || tech.Available {
		t.Fatalf("stale technician should be offline and unavailable, got %+v", tech)
	}
}

func TestReconcileExcludesBusyFromAvailability(t *testing.T) {
	engine, repo, _ := newTestEngine()

	busyID := repo.addTechnician(onlineTech("elevador", 4.0))
	repo.mu.Lock()
	tkID := uuid.New()
	repo.tickets[tkID] = &fakeTicket{
		id: tkID, contractID: uuid.New(), technicianID: &busyID,
		status: domain.StatusEmAndamento, createdAt: time.Now(),
	}
	repo.mu.Unlock()

	summary, err := engine.ReconcileTechnicianAvailability(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Reconciled != 1 {
		t.Fatalf("expected busy technician to be reconciled, got %+v", summary)
	}
	if repo.technicians[busyID].Available {
		t.Fatalf("technician with job in progress cached as available")
	}
}

func TestRepairDeletesSurplusPendingKeepingInProgress(t *testing.T) {
	engine, repo, _ := newTestEngine()
	contractID := uuid.New()

	repo.mu.Lock()
	inProgress := uuid.New()
	repo.tickets[inProgress] = &fakeTicket{
		id: inProgress, contractID: contractID,
		status: domain.StatusEmAndamento, createdAt: testNow.Add(-2 * time.Hour),
	}
	for i := 0; i < 2; i++ {
		id := uuid.New()
		repo.tickets[id] = &fakeTicket{
			id: id, contractID: contractID,
			status: domain.StatusPendente, createdAt: testNow.Add(-time.Duration(i) * time.Hour),
		}
	}
	repo.mu.Unlock()

	removed, err := engine.RepairDuplicateTickets(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}

	remaining := repo.ticketsForContract(contractID)
	if len(remaining) != 1 || remaining[0].id != inProgress {
		t.Fatalf("in-progress ticket did not survive repair")
	}
}

func TestRepairKeepsNewestPendingWhenNoneInProgress(t *testing.T) {
	engine, repo, _ := newTestEngine()
	contractID := uuid.New()

	repo.mu.Lock()
	newest := uuid.New()
	repo.tickets[newest] = &fakeTicket{
		id: newest, contractID: contractID,
		status: domain.StatusPendente, createdAt: testNow,
	}
	for i := 1; i <= 2; i++ {
		id := uuid.New()
		repo.tickets[id] = &fakeTicket{
			id: id, contractID: contractID,
			status: domain.StatusPendente, createdAt: testNow.Add(-time.Duration(i) * time.Hour),
		}
	}
	repo.mu.Unlock()

	removed, err := engine.RepairDuplicateTickets(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	remaining := repo.ticketsForContract(contractID)
	if len(remaining) != 1 || remaining[0].id != newest {
		t.Fatalf("newest pending ticket did not survive repair")
	}
}

func TestRepairLeavesSingletonsAlone(t *testing.T) {
	engine, repo, _ := newTestEngine()

	repo.mu.Lock()
	id := uuid.New()
	repo.tickets[id] = &fakeTicket{
		id: id, contractID: uuid.New(),
		status: domain.StatusPendente, createdAt: testNow,
	}
	repo.mu.Unlock()

	removed, err := engine.RepairDuplicateTickets(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != 0 {
		t.Fatalf("expected 0 removed, got %d", removed)
	}
}

func TestHandleTicketFinishedWritesHistoryOnce(t *testing.T) {
	engine, repo, _ := newTestEngine()
	contractID := uuid.New()

	repo.mu.Lock()
	ticketID := uuid.New()
	scheduled := testNow.AddDate(0, 0, -5)
	repo.tickets[ticketID] = &fakeTicket{
		id: ticketID, contractID: contractID,
		status: domain.StatusConcluida, scheduled: scheduled, createdAt: testNow,
	}
	repo.mu.Unlock()

	evt := events.TicketFinished{
		BaseEvent:  events.NewBaseEvent(),
		TicketID:   ticketID,
		ContractID: contractID,
		Tipo:       domain.TipoManutencao,
		FinishedAt: testNow,
	}

	if err := engine.HandleTicketFinished(context.Background(), evt); err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	if err := engine.HandleTicketFinished(context.Background(), evt); err != nil {
		t.Fatalf("redelivery: %v", err)
	}

	if len(repo.history) != 1 {
		t.Fatalf("expected exactly 1 history row, got %d", len(repo.history))
	}
	row := repo.history[ticketID]
	if !row.ScheduledDate.Equal(scheduled) || !row.PerformedAt.Equal(testNow) {
		t.Fatalf("history row has wrong dates: %+v", row)
	}
	if got := repo.lastPerformed[contractID]; !got.Equal(testNow) {
		t.Fatalf("last_performed_at not stamped, got %v", got)
	}
}

func TestHandleTicketFinishedIgnoresInstallation(t *testing.T) {
	engine, repo, _ := newTestEngine()

	evt := events.TicketFinished{
		BaseEvent:  events.NewBaseEvent(),
		TicketID:   uuid.New(),
		ContractID: uuid.New(),
		Tipo:       domain.TipoInstalacao,
		FinishedAt: testNow,
	}

	if err := engine.HandleTicketFinished(context.Background(), evt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.history) != 0 {
		t.Fatalf("installation ticket produced maintenance history")
	}
}

func TestRunConsistencyCheckAggregates(t *testing.T) {
	engine, repo, _ := newTestEngine()

	overdue := uuid.New()
	repo.addSchedule(overdue, "elevador", domain.FrequencyTrimestral, testNow.AddDate(0, 0, -1))
	repo.addTechnician(onlineTech("elevador", 4.0))

	drifted := onlineTech("gerador", 3.0)
	drifted.Online = false
	drifted.Available = true
	repo.addTechnician(drifted)

	dupContract := uuid.New()
	repo.mu.Lock()
	for i := 0; i < 2; i++ {
		id := uuid.New()
		repo.tickets[id] = &fakeTicket{
			id: id, contractID: dupContract,
			status: domain.StatusPendente, createdAt: testNow.Add(-time.Duration(i) * time.Minute),
		}
	}
	repo.mu.Unlock()

	summary, err := engine.RunConsistencyCheck(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.TicketsCriados != 1 || summary.TicketsAtribuidos != 1 {
		t.Fatalf("generation counts wrong: %+v", summary)
	}
	if summary.TecnicosAtualizados != 1 {
		t.Fatalf("reconciliation count wrong: %+v", summary)
	}
	if summary.DuplicatasRemovidas != 1 {
		t.Fatalf("repair count wrong: %+v", summary)
	}
	if len(summary.Erros) != 0 {
		t.Fatalf("unexpected errors: %+v", summary.Erros)
	}
}

func TestRunConsistencyCheckRepairsDespiteFailedReconcileWrite(t *testing.T) {
	engine, repo, _ := newTestEngine()

	drifted := onlineTech("gerador", 3.0)
	drifted.Online = false
	drifted.Available = true
	driftedID := repo.addTechnician(drifted)
	repo.availWriteErr[driftedID] = errors.New("connection reset")

	dupContract := uuid.New()
	repo.mu.Lock()
	for i := 0; i < 2; i++ {
		id := uuid.New()
		repo.tickets[id] = &fakeTicket{
			id: id, contractID: dupContract,
			status: domain.StatusPendente, createdAt: testNow.Add(-time.Duration(i) * time.Minute),
		}
	}
	repo.mu.Unlock()

	summary, err := engine.RunConsistencyCheck(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.DuplicatasRemovidas != 1 {
		t.Fatalf("repair pass must still run, got %+v", summary)
	}
	if summary.TecnicosAtualizados != 0 {
		t.Fatalf("failed write must not count as reconciled: %+v", summary)
	}
}
