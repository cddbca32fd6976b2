package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/taskdeck/taskdeck/internal/cronplan"
	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/pkg/logger"
	"github.com/taskdeck/taskdeck/pkg/metrics"
	"github.com/taskdeck/taskdeck/pkg/validator"
)

// TranslateHandler exposes the cron expression translator over HTTP.
type TranslateHandler struct {
	logger  *logger.Logger
	metrics *metrics.Metrics
}

// NewTranslateHandler creates a new translate handler
func NewTranslateHandler(log *logger.Logger, m *metrics.Metrics) *TranslateHandler {
	return &TranslateHandler{
		logger:  log,
		metrics: m,
	}
}

// Parse handles POST /api/v1/translate/parse. Expressions outside the
// recognized subset are reported as unsupported, never as errors.
func (h *TranslateHandler) Parse(w http.ResponseWriter, r *http.Request) {
	var req models.ParseExpressionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validator.Validate(&req); err != nil {
		RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	schedule, ok := cronplan.Parse(req.CronExpression)
	if !ok {
		h.count("parse", "unsupported")
		if h.metrics != nil {
			h.metrics.UnsupportedExpressions.Inc()
		}
		RespondJSON(w, http.StatusOK, models.ParseExpressionResponse{Supported: false})
		return
	}

	h.count("parse", "ok")
	RespondJSON(w, http.StatusOK, models.ParseExpressionResponse{
		Supported: true,
		Schedule:  schedule,
	})
}

// Build handles POST /api/v1/translate/build
func (h *TranslateHandler) Build(w http.ResponseWriter, r *http.Request) {
	var req models.BuildExpressionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validator.Validate(&req); err != nil {
		h.count("build", "invalid")
		RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	monthDay := req.MonthDay
	if monthDay == 0 {
		monthDay = 1
	}

	schedule := cronplan.Schedule{
		Frequency: req.Frequency,
		Hour:      req.Hour,
		Minute:    req.Minute,
		Weekdays:  req.Weekdays,
		MonthDay:  monthDay,
	}

	expr := schedule.Build()

	h.count("build", "ok")
	RespondJSON(w, http.StatusOK, models.ExpressionResponse{
		CronExpression: expr,
		Description:    cronplan.Describe(expr, ""),
	})
}

// Describe handles POST /api/v1/translate/describe
func (h *TranslateHandler) Describe(w http.ResponseWriter, r *http.Request) {
	var req models.DescribeExpressionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validator.Validate(&req); err != nil {
		RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.count("describe", "ok")
	RespondJSON(w, http.StatusOK, models.ExpressionResponse{
		CronExpression: req.CronExpression,
		Description:    cronplan.Describe(req.CronExpression, req.Timezone),
	})
}

func (h *TranslateHandler) count(operation, result string) {
	if h.metrics == nil {
		return
	}
	h.metrics.TranslateRequestsTotal.WithLabelValues(operation, result).Inc()
}
