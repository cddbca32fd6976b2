package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck/internal/models"
)

// ErrScheduleNotFound is returned when no schedule matches the given ID.
var ErrScheduleNotFound = fmt.Errorf("schedule not found")

// Querier is the subset of database operations the repository needs. It is
// satisfied by *sql.DB and by *database.PostgresDB, whose implementation
// routes Exec and Query through the circuit breaker.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// ScheduleRepository handles task schedule database operations
type ScheduleRepository struct {
	db Querier
}

// NewScheduleRepository creates a new schedule repository
func NewScheduleRepository(db Querier) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// Create creates a new task schedule
func (r *ScheduleRepository) Create(ctx context.Context, schedule *models.TaskSchedule) error {
	query := `
		INSERT INTO task_schedules (
			id, task_id, name, cron_expression, timezone, enabled,
			last_triggered_at, next_trigger_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(
		ctx, query,
		schedule.ID, schedule.TaskID, schedule.Name, schedule.CronExpression,
		schedule.Timezone, schedule.Enabled, schedule.LastTriggeredAt,
		schedule.NextTriggerAt, schedule.CreatedAt, schedule.UpdatedAt,
	).Scan(&schedule.ID, &schedule.CreatedAt, &schedule.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}

	return nil
}

// GetByID retrieves a schedule by ID
func (r *ScheduleRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.TaskSchedule, error) {
	schedule := &models.TaskSchedule{}
	query := `
		SELECT id, task_id, name, cron_expression, timezone, enabled,
		       last_triggered_at, next_trigger_at, created_at, updated_at
		FROM task_schedules
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&schedule.ID, &schedule.TaskID, &schedule.Name, &schedule.CronExpression,
		&schedule.Timezone, &schedule.Enabled, &schedule.LastTriggeredAt,
		&schedule.NextTriggerAt, &schedule.CreatedAt, &schedule.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}

	return schedule, nil
}

// GetByTaskID retrieves all schedules for a task
func (r *ScheduleRepository) GetByTaskID(ctx context.Context, taskID uuid.UUID) ([]*models.TaskSchedule, error) {
	query := `
		SELECT id, task_id, name, cron_expression, timezone, enabled,
		       last_triggered_at, next_trigger_at, created_at, updated_at
		FROM task_schedules
		WHERE task_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules: %w", err)
	}
	defer rows.Close()

	return scanSchedules(rows)
}

// GetDueSchedules retrieves all enabled schedules that are due to run
func (r *ScheduleRepository) GetDueSchedules(ctx context.Context) ([]*models.TaskSchedule, error) {
	query := `
		SELECT id, task_id, name, cron_expression, timezone, enabled,
		       last_triggered_at, next_trigger_at, created_at, updated_at
		FROM task_schedules
		WHERE enabled = true
		  AND next_trigger_at IS NOT NULL
		  AND next_trigger_at <= $1
		ORDER BY next_trigger_at ASC`

	rows, err := r.db.QueryContext(ctx, query, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to query due schedules: %w", err)
	}
	defer rows.Close()

	return scanSchedules(rows)
}

// CountEnabled returns the number of enabled schedules.
func (r *ScheduleRepository) CountEnabled(ctx context.Context) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM task_schedules WHERE enabled = true`
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count enabled schedules: %w", err)
	}
	return count, nil
}

// Update updates a task schedule
func (r *ScheduleRepository) Update(ctx context.Context, schedule *models.TaskSchedule) error {
	query := `
		UPDATE task_schedules
		SET name = $2,
		    cron_expression = $3,
		    timezone = $4,
		    enabled = $5,
		    last_triggered_at = $6,
		    next_trigger_at = $7,
		    updated_at = $8
		WHERE id = $1`

	schedule.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(
		ctx, query,
		schedule.ID, schedule.Name, schedule.CronExpression, schedule.Timezone,
		schedule.Enabled, schedule.LastTriggeredAt, schedule.NextTriggerAt,
		schedule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update schedule: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrScheduleNotFound
	}

	return nil
}

// UpdateNextTrigger updates only the next_trigger_at and last_triggered_at fields
func (r *ScheduleRepository) UpdateNextTrigger(ctx context.Context, id uuid.UUID, lastTriggered, nextTrigger time.Time) error {
	query := `
		UPDATE task_schedules
		SET last_triggered_at = $2,
		    next_trigger_at = $3,
		    updated_at = $4
		WHERE id = $1`

	result, err := r.db.ExecContext(
		ctx, query,
		id, lastTriggered, nextTrigger, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to update schedule trigger times: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrScheduleNotFound
	}

	return nil
}

// Delete deletes a task schedule
func (r *ScheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM task_schedules WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrScheduleNotFound
	}

	return nil
}

// List retrieves all schedules with pagination
func (r *ScheduleRepository) List(ctx context.Context, limit, offset int) ([]*models.TaskSchedule, int64, error) {
	var total int64
	countQuery := `SELECT COUNT(*) FROM task_schedules`
	err := r.db.QueryRowContext(ctx, countQuery).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count schedules: %w", err)
	}

	query := `
		SELECT id, task_id, name, cron_expression, timezone, enabled,
		       last_triggered_at, next_trigger_at, created_at, updated_at
		FROM task_schedules
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query schedules: %w", err)
	}
	defer rows.Close()

	schedules, err := scanSchedules(rows)
	if err != nil {
		return nil, 0, err
	}

	return schedules, total, nil
}

func scanSchedules(rows *sql.Rows) ([]*models.TaskSchedule, error) {
	schedules := []*models.TaskSchedule{}
	for rows.Next() {
		schedule := &models.TaskSchedule{}
		err := rows.Scan(
			&schedule.ID, &schedule.TaskID, &schedule.Name, &schedule.CronExpression,
			&schedule.Timezone, &schedule.Enabled, &schedule.LastTriggeredAt,
			&schedule.NextTriggerAt, &schedule.CreatedAt, &schedule.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		schedules = append(schedules, schedule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate schedules: %w", err)
	}
	return schedules, nil
}
