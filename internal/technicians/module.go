// Package technicians provides the technicians bounded context module.
// It manages technician records, heartbeat-driven presence and the raw
// availability preference flag.
package technicians

import (
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "assistec_backend/internal/http"
	"assistec_backend/internal/technicians/handler"
	"assistec_backend/internal/technicians/repository"
	"assistec_backend/internal/technicians/service"
	"assistec_backend/platform/logger"
	"assistec_backend/platform/validator"
)

// Module is the technicians bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the technicians module with all its dependencies.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "technicians"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts technician routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/technicians", m.handler.List)
	ctx.Protected.GET("/technicians/:id", m.handler.GetByID)
	ctx.Protected.POST("/technicians/:id/heartbeat", m.handler.Heartbeat)
	ctx.Protected.PATCH("/technicians/:id/availability", m.handler.SetDisponibilidade)

	ctx.Admin.POST("/technicians", m.handler.Create)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
