// Package workers contains the background loops that keep schedules firing.
package workers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/internal/queue"
	"github.com/taskdeck/taskdeck/internal/websocket"
	"github.com/taskdeck/taskdeck/pkg/logger"
	"github.com/taskdeck/taskdeck/pkg/metrics"
)

const leaderLockKey = "taskdeck:scheduler:leader"

// ScheduleService defines the interface for schedule operations
type ScheduleService interface {
	GetDueSchedules(ctx context.Context) ([]*models.TaskSchedule, error)
	MarkTriggered(ctx context.Context, id uuid.UUID) error
	CountEnabledSchedules(ctx context.Context) (int64, error)
}

// TriggerPublisher defines the interface for publishing trigger events
type TriggerPublisher interface {
	Enqueue(ctx context.Context, event *queue.TriggerEvent) error
}

// LeaderLocker coordinates which instance runs the sweep.
type LeaderLocker interface {
	AcquireLock(ctx context.Context, key, owner string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, owner string) error
}

// SchedulerWorker periodically sweeps for due schedules and dispatches
// trigger events. Only the instance holding the leader lock sweeps.
type SchedulerWorker struct {
	scheduleService ScheduleService
	publisher       TriggerPublisher
	locker          LeaderLocker
	hub             *websocket.Hub
	metrics         *metrics.Metrics
	logger          *logger.Logger
	instanceID      string
	checkInterval   time.Duration
	lockTTL         time.Duration
	stopCh          chan struct{}
	doneCh          chan struct{}
}

// NewSchedulerWorker creates a new scheduler worker
func NewSchedulerWorker(
	scheduleService ScheduleService,
	publisher TriggerPublisher,
	locker LeaderLocker,
	hub *websocket.Hub,
	m *metrics.Metrics,
	log *logger.Logger,
	checkInterval, lockTTL time.Duration,
) *SchedulerWorker {
	if checkInterval == 0 {
		checkInterval = 1 * time.Minute
	}
	if lockTTL == 0 {
		lockTTL = 90 * time.Second
	}

	return &SchedulerWorker{
		scheduleService: scheduleService,
		publisher:       publisher,
		locker:          locker,
		hub:             hub,
		metrics:         m,
		logger:          log,
		instanceID:      uuid.New().String(),
		checkInterval:   checkInterval,
		lockTTL:         lockTTL,
		stopCh:          make(chan struct{}),
		doneCh:          make(chan struct{}),
	}
}

// Start starts the scheduler worker in the background
func (w *SchedulerWorker) Start(ctx context.Context) {
	w.logger.Info("Starting scheduler worker",
		logger.String("interval", w.checkInterval.String()),
		logger.String("instance", w.instanceID),
	)

	go w.run(ctx)
}

// Stop stops the scheduler worker gracefully
func (w *SchedulerWorker) Stop() {
	w.logger.Info("Stopping scheduler worker")
	close(w.stopCh)
	<-w.doneCh
	w.logger.Info("Scheduler worker stopped")
}

// run is the main worker loop
func (w *SchedulerWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.checkInterval)
	defer ticker.Stop()

	// Run immediately on start
	w.sweep(ctx)

	for {
		select {
		case <-ticker.C:
			w.sweep(ctx)
		case <-w.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// sweep acquires the leader lock, then dispatches any due schedules.
func (w *SchedulerWorker) sweep(ctx context.Context) {
	start := time.Now()

	if w.locker != nil {
		acquired, err := w.locker.AcquireLock(ctx, leaderLockKey, w.instanceID, w.lockTTL)
		if err != nil {
			w.logger.Errorf("Failed to acquire scheduler lock: %v", err)
			w.recordRun("lock_error", start)
			return
		}
		if !acquired {
			w.logger.Debug("Another instance holds the scheduler lock, skipping sweep")
			w.recordRun("skipped", start)
			return
		}
		defer func() {
			if err := w.locker.ReleaseLock(ctx, leaderLockKey, w.instanceID); err != nil {
				w.logger.Warnf("Failed to release scheduler lock: %v", err)
			}
		}()
	}

	w.refreshGauges(ctx)
	w.processDueSchedules(ctx)
	w.recordRun("ok", start)
}

func (w *SchedulerWorker) recordRun(status string, start time.Time) {
	if w.metrics == nil {
		return
	}
	w.metrics.WorkerRunsTotal.WithLabelValues(status).Inc()
	w.metrics.WorkerRunDuration.Observe(time.Since(start).Seconds())
}

func (w *SchedulerWorker) refreshGauges(ctx context.Context) {
	if w.metrics == nil {
		return
	}
	count, err := w.scheduleService.CountEnabledSchedules(ctx)
	if err != nil {
		w.logger.Warnf("Failed to count enabled schedules: %v", err)
		return
	}
	w.metrics.SchedulesActive.Set(float64(count))
}

// processDueSchedules checks for due schedules and dispatches trigger events
func (w *SchedulerWorker) processDueSchedules(ctx context.Context) {
	w.logger.Debug("Checking for due schedules")

	schedules, err := w.scheduleService.GetDueSchedules(ctx)
	if err != nil {
		w.logger.Errorf("Failed to get due schedules: %v", err)
		return
	}

	if len(schedules) == 0 {
		w.logger.Debug("No due schedules found")
		return
	}

	w.logger.Infof("Found %d due schedules to process", len(schedules))

	triggeredCount := 0
	errorCount := 0

	for _, schedule := range schedules {
		if err := w.dispatch(ctx, schedule); err != nil {
			errorCount++
			continue
		}
		triggeredCount++
	}

	w.logger.Infof(
		"Due schedules processed: triggered=%d, errors=%d",
		triggeredCount,
		errorCount,
	)
}

// dispatch publishes one trigger event and advances the schedule.
func (w *SchedulerWorker) dispatch(ctx context.Context, schedule *models.TaskSchedule) error {
	start := time.Now()
	triggeredAt := start.UTC()

	event := &queue.TriggerEvent{
		ScheduleID:     schedule.ID,
		TaskID:         schedule.TaskID,
		Name:           schedule.Name,
		CronExpression: schedule.CronExpression,
		Timezone:       schedule.Timezone,
		TriggeredAt:    triggeredAt,
	}

	w.logger.Infof(
		"Dispatching schedule trigger: task_id=%s, schedule_id=%s, cron=%s",
		schedule.TaskID,
		schedule.ID,
		schedule.CronExpression,
	)

	if err := w.publisher.Enqueue(ctx, event); err != nil {
		w.logger.Errorf(
			"Failed to enqueue trigger for schedule %s: %v",
			schedule.ID,
			err,
		)
		if w.metrics != nil {
			w.metrics.ScheduleTriggers.WithLabelValues("error").Inc()
		}
		return err
	}

	if err := w.scheduleService.MarkTriggered(ctx, schedule.ID); err != nil {
		w.logger.Errorf(
			"Failed to mark schedule %s as triggered: %v",
			schedule.ID,
			err,
		)
		if w.metrics != nil {
			w.metrics.ScheduleTriggers.WithLabelValues("error").Inc()
		}
		return err
	}

	if w.hub != nil {
		w.hub.BroadcastScheduleEvent(websocket.MessageTypeScheduleTriggered, &websocket.ScheduleEventData{
			ScheduleID:     schedule.ID.String(),
			TaskID:         schedule.TaskID.String(),
			Name:           schedule.Name,
			CronExpression: schedule.CronExpression,
			Timezone:       schedule.Timezone,
			TriggeredAt:    &triggeredAt,
		})
	}

	if w.metrics != nil {
		w.metrics.ScheduleTriggers.WithLabelValues("ok").Inc()
		w.metrics.TriggerDispatchDuration.Observe(time.Since(start).Seconds())
	}

	return nil
}
