// Package maintenance provides the maintenance engine bounded context: the
// consistency passes that generate tickets for overdue schedules, reconcile
// technician availability and repair duplicate open tickets.
package maintenance

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"assistec_backend/internal/events"
	apphttp "assistec_backend/internal/http"
	"assistec_backend/internal/maintenance/handler"
	"assistec_backend/internal/maintenance/repository"
	"assistec_backend/internal/maintenance/service"
	"assistec_backend/platform/config"
	"assistec_backend/platform/logger"
)

// Module is the maintenance bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	engine  *service.Engine
}

// NewModule creates the maintenance module and subscribes the completion
// handler to ticket finish events.
func NewModule(pool *pgxpool.Pool, bus events.Bus, log *logger.Logger, cfg config.EngineConfig) *Module {
	repo := repository.New(pool)
	engine := service.NewEngine(repo, bus, log, cfg)
	h := handler.New(engine, log)

	bus.Subscribe(events.TicketFinished{}.EventName(), events.HandlerFunc(func(ctx context.Context, evt events.Event) error {
		finished, ok := evt.(events.TicketFinished)
		if !ok {
			return fmt.Errorf("unexpected event type %T", evt)
		}
		return engine.HandleTicketFinished(ctx, finished)
	}))

	return &Module{
		handler: h,
		engine:  engine,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "maintenance"
}

// Engine returns the engine for external callers, such as the scheduler
// worker.
func (m *Module) Engine() *service.Engine {
	return m.engine
}

// RegisterRoutes mounts the maintenance admin routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Admin.POST("/maintenance/generate", m.handler.Generate)
	ctx.Admin.POST("/maintenance/reconcile", m.handler.Reconcile)
	ctx.Admin.POST("/maintenance/consistency", m.handler.Consistency)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
