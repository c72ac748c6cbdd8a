package scheduler

import (
	"context"
	"time"

	"assistec_backend/platform/config"
	"assistec_backend/platform/logger"
)

// ConsistencyDispatcher enqueues a consistency run on a fixed interval. It
// fires once at startup so a fresh deployment does not wait a full interval
// before the first pass.
type ConsistencyDispatcher struct {
	client   *Client
	interval time.Duration
	log      *logger.Logger
}

func NewConsistencyDispatcher(cfg config.SchedulerConfig, client *Client, log *logger.Logger) *ConsistencyDispatcher {
	interval := cfg.GetEngineRunInterval()
	if interval <= 0 {
		interval = time.Hour
	}

	return &ConsistencyDispatcher{
		client:   client,
		interval: interval,
		log:      log,
	}
}

func (d *ConsistencyDispatcher) Run(ctx context.Context) {
	if d == nil || d.client == nil {
		return
	}

	d.enqueue(ctx)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		d.enqueue(ctx)
	}
}

func (d *ConsistencyDispatcher) enqueue(ctx context.Context) {
	payload := ConsistencyCheckPayload{
		TriggeredBy: "dispatcher",
		RequestedAt: time.Now().UTC(),
	}

	if err := d.client.EnqueueConsistencyCheck(ctx, payload, d.interval); err != nil {
		d.log.Warn("consistency enqueue failed", "error", err)
	}
}
