package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/internal/queue"
	"github.com/taskdeck/taskdeck/pkg/logger"
)

type mockScheduleService struct {
	getDueFunc        func(ctx context.Context) ([]*models.TaskSchedule, error)
	markTriggeredFunc func(ctx context.Context, id uuid.UUID) error
	countEnabledFunc  func(ctx context.Context) (int64, error)
}

func (m *mockScheduleService) GetDueSchedules(ctx context.Context) ([]*models.TaskSchedule, error) {
	if m.getDueFunc != nil {
		return m.getDueFunc(ctx)
	}
	return []*models.TaskSchedule{}, nil
}

func (m *mockScheduleService) MarkTriggered(ctx context.Context, id uuid.UUID) error {
	if m.markTriggeredFunc != nil {
		return m.markTriggeredFunc(ctx, id)
	}
	return nil
}

func (m *mockScheduleService) CountEnabledSchedules(ctx context.Context) (int64, error) {
	if m.countEnabledFunc != nil {
		return m.countEnabledFunc(ctx)
	}
	return 0, nil
}

type mockPublisher struct {
	enqueueFunc func(ctx context.Context, event *queue.TriggerEvent) error
	events      []*queue.TriggerEvent
}

func (m *mockPublisher) Enqueue(ctx context.Context, event *queue.TriggerEvent) error {
	if m.enqueueFunc != nil {
		return m.enqueueFunc(ctx, event)
	}
	m.events = append(m.events, event)
	return nil
}

type mockLocker struct {
	acquireFunc func(ctx context.Context, key, owner string, ttl time.Duration) (bool, error)
	released    []string
}

func (m *mockLocker) AcquireLock(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	if m.acquireFunc != nil {
		return m.acquireFunc(ctx, key, owner, ttl)
	}
	return true, nil
}

func (m *mockLocker) ReleaseLock(ctx context.Context, key, owner string) error {
	m.released = append(m.released, key)
	return nil
}

func newTestWorker(svc ScheduleService, pub TriggerPublisher, locker LeaderLocker) *SchedulerWorker {
	return NewSchedulerWorker(svc, pub, locker, nil, nil, logger.NewForTesting(), time.Minute, 90*time.Second)
}

func dueSchedule(name string) *models.TaskSchedule {
	next := time.Now().Add(-time.Minute)
	return &models.TaskSchedule{
		ID:             uuid.New(),
		TaskID:         uuid.New(),
		Name:           name,
		CronExpression: "00 09 * * *",
		Timezone:       "UTC",
		Enabled:        true,
		NextTriggerAt:  &next,
	}
}

func TestSchedulerWorker_Sweep(t *testing.T) {
	t.Run("dispatches due schedules and marks them triggered", func(t *testing.T) {
		due := []*models.TaskSchedule{dueSchedule("a"), dueSchedule("b")}
		var marked []uuid.UUID

		svc := &mockScheduleService{
			getDueFunc: func(ctx context.Context) ([]*models.TaskSchedule, error) {
				return due, nil
			},
			markTriggeredFunc: func(ctx context.Context, id uuid.UUID) error {
				marked = append(marked, id)
				return nil
			},
		}
		pub := &mockPublisher{}
		locker := &mockLocker{}

		w := newTestWorker(svc, pub, locker)
		w.sweep(context.Background())

		assert.Len(t, pub.events, 2)
		assert.Len(t, marked, 2)
		assert.Equal(t, due[0].ID, pub.events[0].ScheduleID)
		assert.Equal(t, due[0].TaskID, pub.events[0].TaskID)
		assert.Len(t, locker.released, 1)
	})

	t.Run("skips sweep when another instance holds the lock", func(t *testing.T) {
		called := false
		svc := &mockScheduleService{
			getDueFunc: func(ctx context.Context) ([]*models.TaskSchedule, error) {
				called = true
				return nil, nil
			},
		}
		locker := &mockLocker{
			acquireFunc: func(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
				return false, nil
			},
		}

		w := newTestWorker(svc, &mockPublisher{}, locker)
		w.sweep(context.Background())

		assert.False(t, called)
		assert.Empty(t, locker.released)
	})

	t.Run("does not advance schedule when enqueue fails", func(t *testing.T) {
		marked := 0
		svc := &mockScheduleService{
			getDueFunc: func(ctx context.Context) ([]*models.TaskSchedule, error) {
				return []*models.TaskSchedule{dueSchedule("broken")}, nil
			},
			markTriggeredFunc: func(ctx context.Context, id uuid.UUID) error {
				marked++
				return nil
			},
		}
		pub := &mockPublisher{
			enqueueFunc: func(ctx context.Context, event *queue.TriggerEvent) error {
				return errors.New("redis down")
			},
		}

		w := newTestWorker(svc, pub, &mockLocker{})
		w.sweep(context.Background())

		assert.Zero(t, marked)
	})

	t.Run("sweeps without a locker configured", func(t *testing.T) {
		svc := &mockScheduleService{
			getDueFunc: func(ctx context.Context) ([]*models.TaskSchedule, error) {
				return []*models.TaskSchedule{dueSchedule("solo")}, nil
			},
		}
		pub := &mockPublisher{}

		w := newTestWorker(svc, pub, nil)
		w.sweep(context.Background())

		assert.Len(t, pub.events, 1)
	})
}

func TestSchedulerWorker_StartStop(t *testing.T) {
	svc := &mockScheduleService{}
	w := newTestWorker(svc, &mockPublisher{}, &mockLocker{})

	w.Start(context.Background())
	w.Stop()
}
