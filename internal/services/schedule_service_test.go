package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/pkg/logger"
)

// Mock ScheduleRepository for testing
type mockScheduleRepo struct {
	createFunc       func(ctx context.Context, schedule *models.TaskSchedule) error
	getByIDFunc      func(ctx context.Context, id uuid.UUID) (*models.TaskSchedule, error)
	getByTaskFunc    func(ctx context.Context, taskID uuid.UUID) ([]*models.TaskSchedule, error)
	getDueFunc       func(ctx context.Context) ([]*models.TaskSchedule, error)
	countEnabledFunc func(ctx context.Context) (int64, error)
	updateFunc       func(ctx context.Context, schedule *models.TaskSchedule) error
	updateNextFunc   func(ctx context.Context, id uuid.UUID, lastTriggered, nextTrigger time.Time) error
	deleteFunc       func(ctx context.Context, id uuid.UUID) error
	listFunc         func(ctx context.Context, limit, offset int) ([]*models.TaskSchedule, int64, error)
}

func (m *mockScheduleRepo) Create(ctx context.Context, schedule *models.TaskSchedule) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, schedule)
	}
	return nil
}

func (m *mockScheduleRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.TaskSchedule, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, errors.New("not found")
}

func (m *mockScheduleRepo) GetByTaskID(ctx context.Context, taskID uuid.UUID) ([]*models.TaskSchedule, error) {
	if m.getByTaskFunc != nil {
		return m.getByTaskFunc(ctx, taskID)
	}
	return []*models.TaskSchedule{}, nil
}

func (m *mockScheduleRepo) GetDueSchedules(ctx context.Context) ([]*models.TaskSchedule, error) {
	if m.getDueFunc != nil {
		return m.getDueFunc(ctx)
	}
	return []*models.TaskSchedule{}, nil
}

func (m *mockScheduleRepo) CountEnabled(ctx context.Context) (int64, error) {
	if m.countEnabledFunc != nil {
		return m.countEnabledFunc(ctx)
	}
	return 0, nil
}

func (m *mockScheduleRepo) Update(ctx context.Context, schedule *models.TaskSchedule) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, schedule)
	}
	return nil
}

func (m *mockScheduleRepo) UpdateNextTrigger(ctx context.Context, id uuid.UUID, lastTriggered, nextTrigger time.Time) error {
	if m.updateNextFunc != nil {
		return m.updateNextFunc(ctx, id, lastTriggered, nextTrigger)
	}
	return nil
}

func (m *mockScheduleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockScheduleRepo) List(ctx context.Context, limit, offset int) ([]*models.TaskSchedule, int64, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, limit, offset)
	}
	return []*models.TaskSchedule{}, 0, nil
}

// TestCreateSchedule tests schedule creation
func TestCreateSchedule(t *testing.T) {
	log := logger.NewForTesting()

	t.Run("creates schedule with valid cron expression", func(t *testing.T) {
		taskID := uuid.New()
		var capturedSchedule *models.TaskSchedule

		repo := &mockScheduleRepo{
			createFunc: func(ctx context.Context, schedule *models.TaskSchedule) error {
				capturedSchedule = schedule
				return nil
			},
		}

		service := NewScheduleService(repo, log)

		req := &models.CreateScheduleRequest{
			TaskID:         taskID,
			Name:           "daily report",
			CronExpression: "0 9 * * *",
			Timezone:       "UTC",
		}

		schedule, err := service.CreateSchedule(context.Background(), req)

		assert.NoError(t, err)
		assert.NotNil(t, schedule)
		assert.Equal(t, taskID, schedule.TaskID)
		assert.Equal(t, "UTC", schedule.Timezone)
		assert.True(t, schedule.Enabled)
		assert.NotNil(t, schedule.NextTriggerAt)
		assert.NotNil(t, capturedSchedule)
	})

	t.Run("canonicalizes expressions inside the builder subset", func(t *testing.T) {
		repo := &mockScheduleRepo{}
		service := NewScheduleService(repo, log)

		req := &models.CreateScheduleRequest{
			TaskID:         uuid.New(),
			Name:           "weekday standup",
			CronExpression: "30 7 * * 1-5",
		}

		schedule, err := service.CreateSchedule(context.Background(), req)

		assert.NoError(t, err)
		assert.Equal(t, "30 07 * * 1-5", schedule.CronExpression)
		assert.Equal(t, "Every weekday at 07:30 (UTC)", schedule.Description)
	})

	t.Run("keeps custom expressions verbatim", func(t *testing.T) {
		repo := &mockScheduleRepo{}
		service := NewScheduleService(repo, log)

		req := &models.CreateScheduleRequest{
			TaskID:         uuid.New(),
			Name:           "frequent poll",
			CronExpression: "*/15 * * * *",
		}

		schedule, err := service.CreateSchedule(context.Background(), req)

		assert.NoError(t, err)
		assert.Equal(t, "*/15 * * * *", schedule.CronExpression)
		assert.Equal(t, "Custom schedule (UTC)", schedule.Description)
	})

	t.Run("rejects invalid cron expression", func(t *testing.T) {
		repo := &mockScheduleRepo{}
		service := NewScheduleService(repo, log)

		req := &models.CreateScheduleRequest{
			TaskID:         uuid.New(),
			Name:           "broken",
			CronExpression: "invalid cron",
			Timezone:       "UTC",
		}

		schedule, err := service.CreateSchedule(context.Background(), req)

		assert.Error(t, err)
		assert.Nil(t, schedule)
		assert.Contains(t, err.Error(), "invalid cron expression")
	})

	t.Run("rejects invalid timezone", func(t *testing.T) {
		repo := &mockScheduleRepo{}
		service := NewScheduleService(repo, log)

		req := &models.CreateScheduleRequest{
			TaskID:         uuid.New(),
			Name:           "bad tz",
			CronExpression: "0 9 * * *",
			Timezone:       "InvalidTimezone",
		}

		schedule, err := service.CreateSchedule(context.Background(), req)

		assert.Error(t, err)
		assert.Nil(t, schedule)
		assert.Contains(t, err.Error(), "invalid timezone")
	})

	t.Run("uses default timezone when not provided", func(t *testing.T) {
		repo := &mockScheduleRepo{}
		service := NewScheduleService(repo, log)

		req := &models.CreateScheduleRequest{
			TaskID:         uuid.New(),
			Name:           "no tz",
			CronExpression: "0 9 * * *",
		}

		schedule, err := service.CreateSchedule(context.Background(), req)

		assert.NoError(t, err)
		assert.NotNil(t, schedule)
		assert.Equal(t, "UTC", schedule.Timezone)
	})

	t.Run("respects enabled flag", func(t *testing.T) {
		enabled := false

		repo := &mockScheduleRepo{}
		service := NewScheduleService(repo, log)

		req := &models.CreateScheduleRequest{
			TaskID:         uuid.New(),
			Name:           "paused",
			CronExpression: "0 9 * * *",
			Timezone:       "UTC",
			Enabled:        &enabled,
		}

		schedule, err := service.CreateSchedule(context.Background(), req)

		assert.NoError(t, err)
		assert.NotNil(t, schedule)
		assert.False(t, schedule.Enabled)
	})
}

// TestUpdateSchedule tests schedule updates
func TestUpdateSchedule(t *testing.T) {
	log := logger.NewForTesting()

	newExisting := func(id uuid.UUID) *models.TaskSchedule {
		return &models.TaskSchedule{
			ID:             id,
			TaskID:         uuid.New(),
			Name:           "daily report",
			CronExpression: "00 09 * * *",
			Timezone:       "UTC",
			Enabled:        true,
		}
	}

	t.Run("updates cron expression", func(t *testing.T) {
		scheduleID := uuid.New()

		repo := &mockScheduleRepo{
			getByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.TaskSchedule, error) {
				return newExisting(scheduleID), nil
			},
		}

		service := NewScheduleService(repo, log)

		newCron := "0 12 * * *"
		req := &models.UpdateScheduleRequest{
			CronExpression: &newCron,
		}

		schedule, err := service.UpdateSchedule(context.Background(), scheduleID, req)

		assert.NoError(t, err)
		assert.NotNil(t, schedule)
		assert.Equal(t, "00 12 * * *", schedule.CronExpression)
		assert.NotNil(t, schedule.NextTriggerAt)
	})

	t.Run("rejects invalid cron expression in update", func(t *testing.T) {
		scheduleID := uuid.New()

		repo := &mockScheduleRepo{
			getByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.TaskSchedule, error) {
				return newExisting(scheduleID), nil
			},
		}

		service := NewScheduleService(repo, log)

		invalidCron := "invalid"
		req := &models.UpdateScheduleRequest{
			CronExpression: &invalidCron,
		}

		schedule, err := service.UpdateSchedule(context.Background(), scheduleID, req)

		assert.Error(t, err)
		assert.Nil(t, schedule)
		assert.Contains(t, err.Error(), "invalid cron expression")
	})

	t.Run("updates enabled flag", func(t *testing.T) {
		scheduleID := uuid.New()

		repo := &mockScheduleRepo{
			getByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.TaskSchedule, error) {
				return newExisting(scheduleID), nil
			},
		}

		service := NewScheduleService(repo, log)

		enabled := false
		req := &models.UpdateScheduleRequest{
			Enabled: &enabled,
		}

		schedule, err := service.UpdateSchedule(context.Background(), scheduleID, req)

		assert.NoError(t, err)
		assert.NotNil(t, schedule)
		assert.False(t, schedule.Enabled)
	})
}

// TestMarkTriggered tests marking a schedule as triggered
func TestMarkTriggered(t *testing.T) {
	log := logger.NewForTesting()

	t.Run("calculates next trigger time", func(t *testing.T) {
		scheduleID := uuid.New()
		schedule := &models.TaskSchedule{
			ID:             scheduleID,
			TaskID:         uuid.New(),
			Name:           "hourly sweep",
			CronExpression: "0 * * * *",
			Timezone:       "UTC",
			Enabled:        true,
		}

		var capturedLastTriggered, capturedNextTrigger time.Time

		repo := &mockScheduleRepo{
			getByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.TaskSchedule, error) {
				return schedule, nil
			},
			updateNextFunc: func(ctx context.Context, id uuid.UUID, lastTriggered, nextTrigger time.Time) error {
				capturedLastTriggered = lastTriggered
				capturedNextTrigger = nextTrigger
				return nil
			},
		}

		service := NewScheduleService(repo, log)

		err := service.MarkTriggered(context.Background(), scheduleID)

		assert.NoError(t, err)
		assert.NotZero(t, capturedLastTriggered)
		assert.NotZero(t, capturedNextTrigger)
		assert.True(t, capturedNextTrigger.After(capturedLastTriggered))
	})
}

// TestGetNextRuns tests calculating next run times
func TestGetNextRuns(t *testing.T) {
	log := logger.NewForTesting()

	newSchedule := func(id uuid.UUID) *models.TaskSchedule {
		return &models.TaskSchedule{
			ID:             id,
			TaskID:         uuid.New(),
			Name:           "hourly sweep",
			CronExpression: "0 * * * *",
			Timezone:       "UTC",
			Enabled:        true,
		}
	}

	t.Run("calculates next N runs", func(t *testing.T) {
		scheduleID := uuid.New()

		repo := &mockScheduleRepo{
			getByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.TaskSchedule, error) {
				return newSchedule(scheduleID), nil
			},
		}

		service := NewScheduleService(repo, log)

		runs, err := service.GetNextRuns(context.Background(), scheduleID, 5)

		assert.NoError(t, err)
		assert.Len(t, runs, 5)

		for i := 1; i < len(runs); i++ {
			assert.True(t, runs[i].After(runs[i-1]))
		}
	})

	t.Run("limits count to maximum", func(t *testing.T) {
		scheduleID := uuid.New()

		repo := &mockScheduleRepo{
			getByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.TaskSchedule, error) {
				return newSchedule(scheduleID), nil
			},
		}

		service := NewScheduleService(repo, log)

		runs, err := service.GetNextRuns(context.Background(), scheduleID, 150)

		assert.NoError(t, err)
		assert.Len(t, runs, 10)
	})
}

// TestValidateCronExpression tests cron expression validation
func TestValidateCronExpression(t *testing.T) {
	log := logger.NewForTesting()
	service := NewScheduleService(&mockScheduleRepo{}, log)

	t.Run("validates correct cron expressions", func(t *testing.T) {
		validExpressions := []string{
			"0 9 * * *",
			"*/15 * * * *",
			"0 0 * * MON",
			"0 0,12 * * *",
			"@hourly",
			"00 09 * * 1-5",
		}

		for _, expr := range validExpressions {
			err := service.ValidateCronExpression(expr)
			assert.NoError(t, err, "Expression should be valid: %s", expr)
		}
	})

	t.Run("rejects invalid cron expressions", func(t *testing.T) {
		invalidExpressions := []string{
			"invalid",
			"60 * * * *",
			"* * * * * *",
			"",
		}

		for _, expr := range invalidExpressions {
			err := service.ValidateCronExpression(expr)
			assert.Error(t, err, "Expression should be invalid: %s", expr)
		}
	})
}

// TestDeleteSchedule tests schedule deletion
func TestDeleteSchedule(t *testing.T) {
	log := logger.NewForTesting()

	t.Run("deletes existing schedule", func(t *testing.T) {
		scheduleID := uuid.New()
		deleted := false

		repo := &mockScheduleRepo{
			deleteFunc: func(ctx context.Context, id uuid.UUID) error {
				if id == scheduleID {
					deleted = true
					return nil
				}
				return errors.New("not found")
			},
		}

		service := NewScheduleService(repo, log)

		err := service.DeleteSchedule(context.Background(), scheduleID)

		assert.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("returns error for non-existent schedule", func(t *testing.T) {
		repo := &mockScheduleRepo{
			deleteFunc: func(ctx context.Context, id uuid.UUID) error {
				return errors.New("not found")
			},
		}

		service := NewScheduleService(repo, log)

		err := service.DeleteSchedule(context.Background(), uuid.New())

		assert.Error(t, err)
	})
}

// TestListSchedules tests schedule listing
func TestListSchedules(t *testing.T) {
	log := logger.NewForTesting()

	t.Run("lists schedules with pagination and descriptions", func(t *testing.T) {
		repo := &mockScheduleRepo{
			listFunc: func(ctx context.Context, limit, offset int) ([]*models.TaskSchedule, int64, error) {
				return []*models.TaskSchedule{
					{ID: uuid.New(), CronExpression: "00 09 * * *", Timezone: "UTC"},
					{ID: uuid.New(), CronExpression: "*/5 * * * *", Timezone: "UTC"},
				}, 2, nil
			},
		}

		service := NewScheduleService(repo, log)

		schedules, total, err := service.ListSchedules(context.Background(), 10, 0)

		assert.NoError(t, err)
		assert.Len(t, schedules, 2)
		assert.Equal(t, int64(2), total)
		assert.Equal(t, "Every day at 09:00 (UTC)", schedules[0].Description)
		assert.Equal(t, "Custom schedule (UTC)", schedules[1].Description)
	})

	t.Run("enforces max limit", func(t *testing.T) {
		var capturedLimit int

		repo := &mockScheduleRepo{
			listFunc: func(ctx context.Context, limit, offset int) ([]*models.TaskSchedule, int64, error) {
				capturedLimit = limit
				return []*models.TaskSchedule{}, 0, nil
			},
		}

		service := NewScheduleService(repo, log)

		_, _, err := service.ListSchedules(context.Background(), 150, 0)

		assert.NoError(t, err)
		assert.Equal(t, 50, capturedLimit)
	})
}
