package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/internal/repository/postgres"
	"github.com/taskdeck/taskdeck/internal/websocket"
	"github.com/taskdeck/taskdeck/pkg/logger"
	"github.com/taskdeck/taskdeck/pkg/validator"
)

// ScheduleService defines the interface for schedule operations
type ScheduleService interface {
	CreateSchedule(ctx context.Context, req *models.CreateScheduleRequest) (*models.TaskSchedule, error)
	GetSchedule(ctx context.Context, id uuid.UUID) (*models.TaskSchedule, error)
	GetTaskSchedules(ctx context.Context, taskID uuid.UUID) ([]*models.TaskSchedule, error)
	UpdateSchedule(ctx context.Context, id uuid.UUID, req *models.UpdateScheduleRequest) (*models.TaskSchedule, error)
	DeleteSchedule(ctx context.Context, id uuid.UUID) error
	GetNextRuns(ctx context.Context, id uuid.UUID, count int) ([]time.Time, error)
	ListSchedules(ctx context.Context, limit, offset int) ([]*models.TaskSchedule, int64, error)
}

// ScheduleHandler handles schedule-related HTTP requests
type ScheduleHandler struct {
	logger          *logger.Logger
	scheduleService ScheduleService
	hub             *websocket.Hub
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(log *logger.Logger, scheduleService ScheduleService, hub *websocket.Hub) *ScheduleHandler {
	return &ScheduleHandler{
		logger:          log,
		scheduleService: scheduleService,
		hub:             hub,
	}
}

// CreateSchedule handles POST /api/v1/schedules
func (h *ScheduleHandler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req models.CreateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validator.Validate(&req); err != nil {
		RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	schedule, err := h.scheduleService.CreateSchedule(r.Context(), &req)
	if err != nil {
		h.logger.Errorf("Failed to create schedule: %v", err)
		RespondError(w, http.StatusBadRequest, "Failed to create schedule: "+err.Error())
		return
	}

	h.broadcast(websocket.MessageTypeScheduleCreated, schedule)

	RespondJSON(w, http.StatusCreated, schedule)
}

// GetTaskSchedules handles GET /api/v1/tasks/{id}/schedules
func (h *ScheduleHandler) GetTaskSchedules(w http.ResponseWriter, r *http.Request) {
	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, http.StatusBadRequest, "Invalid task ID")
		return
	}

	schedules, err := h.scheduleService.GetTaskSchedules(r.Context(), taskID)
	if err != nil {
		h.logger.Errorf("Failed to get task schedules: %v", err)
		RespondError(w, http.StatusInternalServerError, "Failed to get schedules")
		return
	}

	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"schedules": schedules,
		"count":     len(schedules),
	})
}

// GetSchedule handles GET /api/v1/schedules/{id}
func (h *ScheduleHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, http.StatusBadRequest, "Invalid schedule ID")
		return
	}

	schedule, err := h.scheduleService.GetSchedule(r.Context(), id)
	if err != nil {
		if errors.Is(err, postgres.ErrScheduleNotFound) {
			RespondError(w, http.StatusNotFound, "Schedule not found")
			return
		}
		h.logger.Errorf("Failed to get schedule: %v", err)
		RespondError(w, http.StatusInternalServerError, "Failed to get schedule")
		return
	}

	RespondJSON(w, http.StatusOK, schedule)
}

// UpdateSchedule handles PUT /api/v1/schedules/{id}
func (h *ScheduleHandler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, http.StatusBadRequest, "Invalid schedule ID")
		return
	}

	var req models.UpdateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validator.Validate(&req); err != nil {
		RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	schedule, err := h.scheduleService.UpdateSchedule(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, postgres.ErrScheduleNotFound) {
			RespondError(w, http.StatusNotFound, "Schedule not found")
			return
		}
		h.logger.Errorf("Failed to update schedule: %v", err)
		RespondError(w, http.StatusBadRequest, "Failed to update schedule: "+err.Error())
		return
	}

	h.broadcast(websocket.MessageTypeScheduleUpdated, schedule)

	RespondJSON(w, http.StatusOK, schedule)
}

// DeleteSchedule handles DELETE /api/v1/schedules/{id}
func (h *ScheduleHandler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, http.StatusBadRequest, "Invalid schedule ID")
		return
	}

	if err := h.scheduleService.DeleteSchedule(r.Context(), id); err != nil {
		if errors.Is(err, postgres.ErrScheduleNotFound) {
			RespondError(w, http.StatusNotFound, "Schedule not found")
			return
		}
		h.logger.Errorf("Failed to delete schedule: %v", err)
		RespondError(w, http.StatusInternalServerError, "Failed to delete schedule")
		return
	}

	if h.hub != nil {
		h.hub.BroadcastScheduleEvent(websocket.MessageTypeScheduleDeleted, &websocket.ScheduleEventData{
			ScheduleID: id.String(),
		})
	}

	RespondJSON(w, http.StatusOK, map[string]string{"message": "Schedule deleted successfully"})
}

// GetNextRuns handles GET /api/v1/schedules/{id}/next-runs
func (h *ScheduleHandler) GetNextRuns(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, http.StatusBadRequest, "Invalid schedule ID")
		return
	}

	count := 10
	if countStr := r.URL.Query().Get("count"); countStr != "" {
		if c, err := strconv.Atoi(countStr); err == nil && c > 0 && c <= 100 {
			count = c
		}
	}

	nextRuns, err := h.scheduleService.GetNextRuns(r.Context(), id, count)
	if err != nil {
		if errors.Is(err, postgres.ErrScheduleNotFound) {
			RespondError(w, http.StatusNotFound, "Schedule not found")
			return
		}
		h.logger.Errorf("Failed to get next runs: %v", err)
		RespondError(w, http.StatusInternalServerError, "Failed to get next runs")
		return
	}

	RespondJSON(w, http.StatusOK, models.NextRunsResponse{
		ScheduleID: id,
		NextRuns:   nextRuns,
	})
}

// ListSchedules handles GET /api/v1/schedules
func (h *ScheduleHandler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	offset := 0
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	schedules, total, err := h.scheduleService.ListSchedules(r.Context(), limit, offset)
	if err != nil {
		h.logger.Errorf("Failed to list schedules: %v", err)
		RespondError(w, http.StatusInternalServerError, "Failed to list schedules")
		return
	}

	RespondJSON(w, http.StatusOK, models.ScheduleListResponse{
		Schedules: schedules,
		Total:     total,
		Page:      offset / limit,
		PageSize:  limit,
	})
}

func (h *ScheduleHandler) broadcast(msgType websocket.MessageType, schedule *models.TaskSchedule) {
	if h.hub == nil {
		return
	}

	h.hub.BroadcastScheduleEvent(msgType, &websocket.ScheduleEventData{
		ScheduleID:     schedule.ID.String(),
		TaskID:         schedule.TaskID.String(),
		Name:           schedule.Name,
		CronExpression: schedule.CronExpression,
		Description:    schedule.Description,
		Timezone:       schedule.Timezone,
		Enabled:        &schedule.Enabled,
		NextTriggerAt:  schedule.NextTriggerAt,
	})
}
