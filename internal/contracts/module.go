// Package contracts provides the contracts bounded context module.
// It manages clients, service contracts and the recurring maintenance plan
// attached to each contract.
package contracts

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"assistec_backend/internal/contracts/handler"
	"assistec_backend/internal/contracts/repository"
	"assistec_backend/internal/contracts/service"
	apphttp "assistec_backend/internal/http"
	"assistec_backend/platform/logger"
	"assistec_backend/platform/validator"
)

// Module is the contracts bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the contracts module with all its dependencies.
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
	return "contracts"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for cross-module adapters.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts client and contract routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.POST("/clients", m.handler.CreateClient)
	ctx.Protected.GET("/clients", m.handler.ListClients)
	ctx.Protected.GET("/clients/:id", m.handler.GetClient)

	ctx.Protected.POST("/contracts", m.handler.CreateContract)
	ctx.Protected.GET("/contracts", m.handler.ListContracts)
	ctx.Protected.GET("/contracts/:id", m.handler.GetContract)
	ctx.Protected.PUT("/contracts/:id/maintenance-plan", m.handler.UpsertMaintenancePlan)
	ctx.Protected.GET("/contracts/:id/maintenance-plan", m.handler.GetMaintenancePlan)
	ctx.Protected.DELETE("/contracts/:id/maintenance-plan", m.handler.RemoveMaintenancePlan)

	ctx.Admin.PATCH("/contracts/:id/status", m.handler.UpdateContractStatus)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
