// Package service contains the maintenance engine: ticket generation for
// overdue schedules, technician availability reconciliation, duplicate
// repair, and the combined consistency run.
package service

import (
	"time"

	"assistec_backend/internal/events"
	"assistec_backend/internal/maintenance/repository"
	"assistec_backend/platform/config"
	"assistec_backend/platform/logger"
)

// Engine runs the maintenance passes. It keeps no state between runs: every
// pass reads current persisted state, which makes each pass idempotent and
// safe to re-run after a crash.
type Engine struct {
	repo repository.Repository
	bus  events.Bus
	log  *logger.Logger

	concurrency   int
	dueSoonWindow time.Duration
	staleAfter    time.Duration

	now func() time.Time
}

// NewEngine creates the maintenance engine.
func NewEngine(repo repository.Repository, bus events.Bus, log *logger.Logger, cfg config.EngineConfig) *Engine {
	return &Engine{
		repo:          repo,
		bus:           bus,
		log:           log,
		concurrency:   cfg.GetGenerationConcurrency(),
		dueSoonWindow: cfg.GetDueSoonWindow(),
		staleAfter:    cfg.GetHeartbeatStaleAfter(),
		now:           time.Now,
	}
}
