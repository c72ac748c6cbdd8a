// Package scheduler runs the periodic maintenance passes through asynq.
// The dispatcher enqueues a consistency task on a fixed interval; the worker
// consumes it and runs the engine. Redis gives at-least-once delivery, which
// is safe because every engine pass is idempotent.
package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskConsistencyCheck = "maintenance.consistency"

type ConsistencyCheckPayload struct {
	TriggeredBy string    `json:"triggeredBy"`
	RequestedAt time.Time `json:"requestedAt"`
}

func NewConsistencyCheckTask(payload ConsistencyCheckPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskConsistencyCheck, data), nil
}

func ParseConsistencyCheckPayload(task *asynq.Task) (ConsistencyCheckPayload, error) {
	var payload ConsistencyCheckPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ConsistencyCheckPayload{}, err
	}
	return payload, nil
}
