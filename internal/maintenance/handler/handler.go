package handler

import (
	"github.com/gin-gonic/gin"

	"assistec_backend/internal/maintenance/service"
	"assistec_backend/platform/httpkit"
	"assistec_backend/platform/logger"
)

// Handler exposes the maintenance engine passes as admin endpoints.
type Handler struct {
	engine *service.Engine
	log    *logger.Logger
}

// New creates a new maintenance handler.
func New(engine *service.Engine, log *logger.Logger) *Handler {
	return &Handler{engine: engine, log: log}
}

// Generate runs the ticket generation pass on demand.
// POST /api/v1/admin/maintenance/generate
func (h *Handler) Generate(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	h.log.Info("maintenance pass triggered", "pass", "generate", "user_id", identity.UserID())

	summary, err := h.engine.GenerateDueTickets(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, summary)
}

// Reconcile runs the technician availability reconciliation pass on demand.
// POST /api/v1/admin/maintenance/reconcile
func (h *Handler) Reconcile(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	h.log.Info("maintenance pass triggered", "pass", "reconcile", "user_id", identity.UserID())

	summary, err := h.engine.ReconcileTechnicianAvailability(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, summary)
}

// Consistency runs the full consistency check on demand.
// POST /api/v1/admin/maintenance/consistency
func (h *Handler) Consistency(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	h.log.Info("maintenance pass triggered", "pass", "consistency", "user_id", identity.UserID())

	summary, err := h.engine.RunConsistencyCheck(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, summary)
}
