package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/taskdeck/taskdeck/internal/cronplan"
	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/pkg/logger"
)

// ScheduleRepository defines the interface for schedule data access
type ScheduleRepository interface {
	Create(ctx context.Context, schedule *models.TaskSchedule) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.TaskSchedule, error)
	GetByTaskID(ctx context.Context, taskID uuid.UUID) ([]*models.TaskSchedule, error)
	GetDueSchedules(ctx context.Context) ([]*models.TaskSchedule, error)
	CountEnabled(ctx context.Context) (int64, error)
	Update(ctx context.Context, schedule *models.TaskSchedule) error
	UpdateNextTrigger(ctx context.Context, id uuid.UUID, lastTriggered, nextTrigger time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.TaskSchedule, int64, error)
}

// ScheduleService handles task scheduling logic
type ScheduleService struct {
	scheduleRepo ScheduleRepository
	logger       *logger.Logger
	parser       cron.Parser
}

// NewScheduleService creates a new schedule service
func NewScheduleService(scheduleRepo ScheduleRepository, log *logger.Logger) *ScheduleService {
	// Standard 5-field cron format plus @descriptors
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

	return &ScheduleService{
		scheduleRepo: scheduleRepo,
		logger:       log,
		parser:       parser,
	}
}

// CreateSchedule creates a new task schedule. Expressions inside the builder
// subset are stored in canonical zero-padded form; anything else must at
// least be a valid cron expression.
func (s *ScheduleService) CreateSchedule(ctx context.Context, req *models.CreateScheduleRequest) (*models.TaskSchedule, error) {
	expr, cronSchedule, err := s.normalizeExpression(req.CronExpression)
	if err != nil {
		return nil, err
	}

	timezone := req.Timezone
	if timezone == "" {
		timezone = "UTC"
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone: %w", err)
	}

	nextTrigger := cronSchedule.Next(time.Now().In(loc))

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	newSchedule := &models.TaskSchedule{
		ID:             uuid.New(),
		TaskID:         req.TaskID,
		Name:           req.Name,
		CronExpression: expr,
		Timezone:       timezone,
		Enabled:        enabled,
		NextTriggerAt:  &nextTrigger,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	newSchedule.Description = cronplan.Describe(expr, timezone)

	if err := s.scheduleRepo.Create(ctx, newSchedule); err != nil {
		return nil, fmt.Errorf("failed to create schedule: %w", err)
	}

	s.logger.Infof("Created schedule %s for task %s with cron %s", newSchedule.ID, req.TaskID, expr)

	return newSchedule, nil
}

// GetSchedule retrieves a schedule by ID
func (s *ScheduleService) GetSchedule(ctx context.Context, id uuid.UUID) (*models.TaskSchedule, error) {
	schedule, err := s.scheduleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	schedule.Description = cronplan.Describe(schedule.CronExpression, schedule.Timezone)
	return schedule, nil
}

// GetTaskSchedules retrieves all schedules for a task
func (s *ScheduleService) GetTaskSchedules(ctx context.Context, taskID uuid.UUID) ([]*models.TaskSchedule, error) {
	schedules, err := s.scheduleRepo.GetByTaskID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	describeAll(schedules)
	return schedules, nil
}

// UpdateSchedule updates a task schedule
func (s *ScheduleService) UpdateSchedule(ctx context.Context, id uuid.UUID, req *models.UpdateScheduleRequest) (*models.TaskSchedule, error) {
	existing, err := s.scheduleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}

	if req.CronExpression != nil {
		expr, _, err := s.normalizeExpression(*req.CronExpression)
		if err != nil {
			return nil, err
		}
		existing.CronExpression = expr
	}

	if req.Timezone != nil {
		if _, err := time.LoadLocation(*req.Timezone); err != nil {
			return nil, fmt.Errorf("invalid timezone: %w", err)
		}
		existing.Timezone = *req.Timezone
	}

	if req.Enabled != nil {
		existing.Enabled = *req.Enabled
	}

	// Recalculate next trigger time if cron or timezone changed
	if req.CronExpression != nil || req.Timezone != nil {
		cronSchedule, err := s.parser.Parse(existing.CronExpression)
		if err != nil {
			return nil, fmt.Errorf("failed to parse cron expression: %w", err)
		}

		loc, err := time.LoadLocation(existing.Timezone)
		if err != nil {
			return nil, fmt.Errorf("failed to load timezone: %w", err)
		}

		nextTrigger := cronSchedule.Next(time.Now().In(loc))
		existing.NextTriggerAt = &nextTrigger
	}

	if err := s.scheduleRepo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update schedule: %w", err)
	}

	existing.Description = cronplan.Describe(existing.CronExpression, existing.Timezone)

	s.logger.Infof("Updated schedule %s", id)

	return existing, nil
}

// DeleteSchedule deletes a task schedule
func (s *ScheduleService) DeleteSchedule(ctx context.Context, id uuid.UUID) error {
	if err := s.scheduleRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}

	s.logger.Infof("Deleted schedule %s", id)

	return nil
}

// GetDueSchedules retrieves all schedules that are due to run
func (s *ScheduleService) GetDueSchedules(ctx context.Context) ([]*models.TaskSchedule, error) {
	return s.scheduleRepo.GetDueSchedules(ctx)
}

// CountEnabledSchedules returns how many schedules are currently enabled.
func (s *ScheduleService) CountEnabledSchedules(ctx context.Context) (int64, error) {
	return s.scheduleRepo.CountEnabled(ctx)
}

// MarkTriggered marks a schedule as triggered and calculates the next run time
func (s *ScheduleService) MarkTriggered(ctx context.Context, id uuid.UUID) error {
	schedule, err := s.scheduleRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	cronSchedule, err := s.parser.Parse(schedule.CronExpression)
	if err != nil {
		return fmt.Errorf("failed to parse cron expression: %w", err)
	}

	loc, err := time.LoadLocation(schedule.Timezone)
	if err != nil {
		return fmt.Errorf("failed to load timezone: %w", err)
	}

	now := time.Now().In(loc)
	nextTrigger := cronSchedule.Next(now)

	if err := s.scheduleRepo.UpdateNextTrigger(ctx, id, now, nextTrigger); err != nil {
		return fmt.Errorf("failed to update trigger times: %w", err)
	}

	s.logger.Debugf("Schedule %s marked as triggered, next run at %s", id, nextTrigger)

	return nil
}

// GetNextRuns calculates the next N run times for a schedule
func (s *ScheduleService) GetNextRuns(ctx context.Context, id uuid.UUID, count int) ([]time.Time, error) {
	if count <= 0 || count > 100 {
		count = 10
	}

	schedule, err := s.scheduleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	cronSchedule, err := s.parser.Parse(schedule.CronExpression)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cron expression: %w", err)
	}

	loc, err := time.LoadLocation(schedule.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone: %w", err)
	}

	runs := make([]time.Time, count)
	current := time.Now().In(loc)
	for i := 0; i < count; i++ {
		current = cronSchedule.Next(current)
		runs[i] = current
	}

	return runs, nil
}

// ValidateCronExpression validates a cron expression
func (s *ScheduleService) ValidateCronExpression(expression string) error {
	_, err := s.parser.Parse(expression)
	return err
}

// ListSchedules retrieves all schedules with pagination
func (s *ScheduleService) ListSchedules(ctx context.Context, limit, offset int) ([]*models.TaskSchedule, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	schedules, total, err := s.scheduleRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	describeAll(schedules)
	return schedules, total, nil
}

// normalizeExpression accepts an expression if it falls inside the builder
// subset (canonicalizing it) or if it parses as standard cron.
func (s *ScheduleService) normalizeExpression(expr string) (string, cron.Schedule, error) {
	if plan, ok := cronplan.Parse(expr); ok {
		expr = plan.Build()
	}

	cronSchedule, err := s.parser.Parse(expr)
	if err != nil {
		return "", nil, fmt.Errorf("invalid cron expression: %w", err)
	}

	return expr, cronSchedule, nil
}

func describeAll(schedules []*models.TaskSchedule) {
	for _, schedule := range schedules {
		schedule.Description = cronplan.Describe(schedule.CronExpression, schedule.Timezone)
	}
}
