package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
)

type testSchedulerConfig struct {
	redisURL string
}

func (c testSchedulerConfig) GetRedisURL() string                 { return c.redisURL }
func (c testSchedulerConfig) GetRedisTLSInsecure() bool           { return false }
func (c testSchedulerConfig) GetAsynqQueueName() string           { return "default" }
func (c testSchedulerConfig) GetAsynqConcurrency() int            { return 1 }
func (c testSchedulerConfig) GetEngineRunInterval() time.Duration { return time.Hour }

func TestEnqueueConsistencyCheck(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := NewClient(testSchedulerConfig{redisURL: "redis://" + srv.Addr()})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	defer client.Close()

	payload := ConsistencyCheckPayload{
		TriggeredBy: "test",
		RequestedAt: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
	if err := client.EnqueueConsistencyCheck(context.Background(), payload, 0); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: srv.Addr()})
	defer inspector.Close()

	pending, err := inspector.ListPendingTasks("default")
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending task, got %d", len(pending))
	}
	if pending[0].Type != TaskConsistencyCheck {
		t.Fatalf("unexpected task type %q", pending[0].Type)
	}

	parsed, err := ParseConsistencyCheckPayload(asynq.NewTask(pending[0].Type, pending[0].Payload))
	if err != nil {
		t.Fatalf("parse payload: %v", err)
	}
	if parsed.TriggeredBy != "test" || !parsed.RequestedAt.Equal(payload.RequestedAt) {
		t.Fatalf("payload did not round-trip: %+v", parsed)
	}
}

func TestEnqueueConsistencyCheckUnique(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := NewClient(testSchedulerConfig{redisURL: "redis://" + srv.Addr()})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	defer client.Close()

	payload := ConsistencyCheckPayload{
		TriggeredBy: "test",
		RequestedAt: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}

	if err := client.EnqueueConsistencyCheck(context.Background(), payload, time.Minute); err != nil {
		t.Fatalf("first enqueue: %v", err)
	}

	err = client.EnqueueConsistencyCheck(context.Background(), payload, time.Minute)
	if !errors.Is(err, asynq.ErrDuplicateTask) {
		t.Fatalf("expected duplicate task error, got %v", err)
	}
}
