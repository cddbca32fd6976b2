package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck/internal/cronplan"
)

// TaskSchedule represents a cron-based schedule for a task
type TaskSchedule struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	TaskID          uuid.UUID  `json:"task_id" db:"task_id"`
	Name            string     `json:"name" db:"name"`
	CronExpression  string     `json:"cron_expression" db:"cron_expression"`
	Timezone        string     `json:"timezone" db:"timezone"`
	Enabled         bool       `json:"enabled" db:"enabled"`
	Description     string     `json:"description" db:"-"`
	LastTriggeredAt *time.Time `json:"last_triggered_at,omitempty" db:"last_triggered_at"`
	NextTriggerAt   *time.Time `json:"next_trigger_at,omitempty" db:"next_trigger_at"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// CreateScheduleRequest represents the request body for creating a schedule
type CreateScheduleRequest struct {
	TaskID         uuid.UUID `json:"task_id" validate:"required"`
	Name           string    `json:"name" validate:"required,min=1,max=255"`
	CronExpression string    `json:"cron_expression" validate:"required"`
	Timezone       string    `json:"timezone"`
	Enabled        *bool     `json:"enabled"`
}

// UpdateScheduleRequest represents the request body for updating a schedule
type UpdateScheduleRequest struct {
	Name           *string `json:"name" validate:"omitempty,min=1,max=255"`
	CronExpression *string `json:"cron_expression"`
	Timezone       *string `json:"timezone"`
	Enabled        *bool   `json:"enabled"`
}

// ScheduleListResponse represents the response for listing schedules
type ScheduleListResponse struct {
	Schedules []*TaskSchedule `json:"schedules"`
	Total     int64           `json:"total"`
	Page      int             `json:"page"`
	PageSize  int             `json:"page_size"`
}

// NextRunsResponse represents the response for previewing next runs
type NextRunsResponse struct {
	ScheduleID uuid.UUID   `json:"schedule_id"`
	NextRuns   []time.Time `json:"next_runs"`
}

// ParseExpressionRequest asks the translator to decompose a cron expression.
type ParseExpressionRequest struct {
	CronExpression string `json:"cron_expression" validate:"required"`
}

// ParseExpressionResponse carries the structured form of an expression,
// or marks it as outside the supported subset.
type ParseExpressionResponse struct {
	Supported bool               `json:"supported"`
	Schedule  *cronplan.Schedule `json:"schedule,omitempty"`
}

// BuildExpressionRequest asks the translator to assemble a cron expression.
type BuildExpressionRequest struct {
	Frequency cronplan.Frequency `json:"frequency" validate:"required,oneof=every_day weekdays weekends weekly monthly"`
	Hour      int                `json:"hour" validate:"gte=0,lte=23"`
	Minute    int                `json:"minute" validate:"gte=0,lte=59"`
	Weekdays  []int              `json:"weekdays" validate:"dive,gte=0,lte=6"`
	MonthDay  int                `json:"month_day" validate:"gte=0,lte=28"`
}

// DescribeExpressionRequest asks for the human-readable form of an expression.
type DescribeExpressionRequest struct {
	CronExpression string `json:"cron_expression" validate:"required"`
	Timezone       string `json:"timezone"`
}

// ExpressionResponse carries a cron expression and its description.
type ExpressionResponse struct {
	CronExpression string `json:"cron_expression"`
	Description    string `json:"description"`
}
