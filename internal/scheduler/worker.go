package scheduler

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"assistec_backend/internal/maintenance/service"
	"assistec_backend/platform/config"
	"assistec_backend/platform/logger"
)

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	engine *service.Engine
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, engine *service.Engine, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		engine: engine,
		log:    log,
	}

	mux.HandleFunc(TaskConsistencyCheck, w.handleConsistencyCheck)

	return w, nil
}

func (w *Worker) handleConsistencyCheck(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseConsistencyCheckPayload(task)
	if err != nil {
		return err
	}

	summary, err := w.engine.RunConsistencyCheck(ctx)
	if err != nil {
		w.log.Error("consistency run failed",
			"triggered_by", payload.TriggeredBy,
			"error", err,
		)
		return err
	}

	w.log.Info("consistency run finished",
		"triggered_by", payload.TriggeredBy,
		"tickets_created", summary.TicketsCriados,
		"tickets_assigned", summary.TicketsAtribuidos,
		"technicians_updated", summary.TecnicosAtualizados,
		"duplicates_removed", summary.DuplicatasRemovidas,
		"schedule_errors", len(summary.Erros),
	)
	return nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
