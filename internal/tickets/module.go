// Package tickets provides the tickets bounded context module.
// It manages the ticket lifecycle: manual creation, assignment and the
// pendente -> em_andamento -> {concluida | cancelada} transitions.
package tickets

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"assistec_backend/internal/events"
	apphttp "assistec_backend/internal/http"
	"assistec_backend/internal/tickets/handler"
	"assistec_backend/internal/tickets/repository"
	"assistec_backend/internal/tickets/service"
	"assistec_backend/platform/logger"
	"assistec_backend/platform/validator"
)

// Module is the tickets bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the tickets module with all its dependencies.
func NewModule(pool *pgxpool.Pool, contracts service.ContractReader, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, contracts, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "tickets"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts ticket routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/tickets", m.handler.List)
	ctx.Protected.GET("/tickets/:id", m.handler.GetByID)
	ctx.Protected.POST("/tickets/:id/start", m.handler.Start)
	ctx.Protected.POST("/tickets/:id/finish", m.handler.Finish)
	ctx.Protected.POST("/tickets/:id/cancel", m.handler.Cancel)

	ctx.Admin.POST("/tickets", m.handler.Create)
	ctx.Admin.POST("/tickets/:id/assign", m.handler.Assign)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
