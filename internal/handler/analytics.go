package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/eventwall/eventwall/internal/handler/dto"
	"github.com/eventwall/eventwall/internal/service"
)

// AnalyticsHandler handles HTTP requests for interaction tracking and
// aggregate reporting.
type AnalyticsHandler struct {
	svc    *service.AnalyticsService
	logger *slog.Logger
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(svc *service.AnalyticsService, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		svc:    svc,
		logger: logger,
	}
}

// Track handles POST /api/v1/analytics.
// Tracking is best-effort: a store failure is logged at debug level and
// reported as success=false, never as a 5xx, so it cannot degrade the
// page action that triggered it.
func (h *AnalyticsHandler) Track(w http.ResponseWriter, r *http.Request) {
	var req dto.TrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	input := service.RecordInteractionInput{
		Type:       req.Type,
		EventID:    req.EventID,
		ButtonName: req.ButtonName,
		RawIP:      getClientIP(r),
		RawUA:      r.UserAgent(),
	}

	in, err := h.svc.RecordInteraction(r.Context(), input)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInteractionType) {
			h.writeError(w, http.StatusBadRequest, "INVALID_TYPE",
				"Type must be page_view, event_click or button_click")
			return
		}

		h.logger.Debug("analytics_write_failed", "error", err)
		writeJSON(w, http.StatusOK, dto.TrackResponse{Success: false})
		return
	}

	writeJSON(w, http.StatusOK, dto.TrackResponse{
		Success:  true,
		IsUnique: in.IsUnique,
		ID:       in.ID,
	})
}

// Report handles GET /api/v1/analytics?type=&event_id=&period=.
func (h *AnalyticsHandler) Report(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	input := service.AggregateInput{
		Scope:     query.Get("type"),
		TargetKey: query.Get("event_id"),
	}

	if period := query.Get("period"); period != "" {
		parsed, err := strconv.Atoi(period)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "INVALID_PERIOD", "Period must be a number of days")
			return
		}
		input.PeriodDays = parsed
	}

	report, err := h.svc.Aggregate(r.Context(), input)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAggregateScope) {
			h.writeError(w, http.StatusBadRequest, "INVALID_TYPE",
				"Type must be all, page_view, event_click or button_click")
			return
		}

		h.logger.Error("internal_error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	writeJSON(w, http.StatusOK, dto.ToAnalyticsReportResponse(report))
}

// writeError writes an error response.
func (h *AnalyticsHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
