// Package queue publishes schedule trigger events for task runners to consume.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck/pkg/database"
	"github.com/taskdeck/taskdeck/pkg/metrics"
)

// TriggerEvent is the payload pushed onto the trigger queue when a
// schedule fires.
type TriggerEvent struct {
	ScheduleID     uuid.UUID `json:"schedule_id"`
	TaskID         uuid.UUID `json:"task_id"`
	Name           string    `json:"name"`
	CronExpression string    `json:"cron_expression"`
	Timezone       string    `json:"timezone"`
	TriggeredAt    time.Time `json:"triggered_at"`
}

// TriggerQueue pushes trigger events onto a Redis-backed list.
type TriggerQueue struct {
	redis   *database.RedisClient
	key     string
	metrics *metrics.Metrics
}

// NewTriggerQueue creates a trigger queue on the given Redis list key.
func NewTriggerQueue(redis *database.RedisClient, key string, m *metrics.Metrics) *TriggerQueue {
	return &TriggerQueue{
		redis:   redis,
		key:     key,
		metrics: m,
	}
}

// Enqueue publishes a trigger event for downstream task runners.
func (q *TriggerQueue) Enqueue(ctx context.Context, event *TriggerEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal trigger event: %w", err)
	}

	if err := q.redis.Push(ctx, q.key, payload); err != nil {
		if q.metrics != nil {
			q.metrics.RedisOperationErrors.WithLabelValues("lpush").Inc()
		}
		return fmt.Errorf("failed to enqueue trigger event: %w", err)
	}

	return nil
}

// Depth reports how many trigger events are waiting on the queue.
func (q *TriggerQueue) Depth(ctx context.Context) (int64, error) {
	return q.redis.QueueLength(ctx, q.key)
}
