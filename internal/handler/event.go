package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/eventwall/eventwall/internal/handler/dto"
	"github.com/eventwall/eventwall/internal/model"
	"github.com/eventwall/eventwall/internal/service"
)

// EventHandler handles HTTP requests for event operations.
type EventHandler struct {
	svc    *service.EventService
	logger *slog.Logger
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(svc *service.EventService, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /api/v1/events.
// Returns the full event set ascending by order, without visibility
// filtering; view-side filtering gets the complete list to work from.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.ListEvents(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	if events == nil {
		events = []*model.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

// ListVisible handles GET /api/v1/events/visible.
// Applies the visibility window server-side for "today", or for an explicit
// ?date=YYYY-MM-DD.
func (h *EventHandler) ListVisible(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.VisibleEvents(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	if events == nil {
		events = []*model.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

// Create handles POST /api/v1/events.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	input := service.CreateEventInput{
		Name:       req.Name,
		Link:       req.Link,
		CoverImage: req.CoverImage,
		Active:     req.Active,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
	}

	event, err := h.svc.CreateEvent(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("event_created",
		"event_id", event.ID,
		"order", event.Order,
	)

	writeJSON(w, http.StatusCreated, dto.CreateEventResponse{
		ID:      event.ID,
		Message: "event created",
	})
}

// Update handles PUT /api/v1/events.
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if req.ID == "" {
		h.writeError(w, http.StatusBadRequest, "MISSING_ID", "Event ID is required")
		return
	}

	input := service.UpdateEventInput{
		ID:         req.ID,
		Name:       req.Name,
		Link:       req.Link,
		CoverImage: req.CoverImage,
		Order:      req.Order,
		Active:     req.Active,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
	}

	if err := h.svc.UpdateEvent(r.Context(), input); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("event_updated", "event_id", req.ID)

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "event updated"})
}

// Delete handles DELETE /api/v1/events?id=.
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "MISSING_ID", "Event ID is required")
		return
	}

	if err := h.svc.DeleteEvent(r.Context(), id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("event_deleted", "event_id", id)

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "event deleted"})
}

// Reorder handles POST /api/v1/reorder.
func (h *EventHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req dto.ReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if req.FromIndex == nil || req.ToIndex == nil {
		h.writeError(w, http.StatusBadRequest, "MISSING_INDEX", "fromIndex and toIndex are required")
		return
	}

	if err := h.svc.Move(r.Context(), *req.FromIndex, *req.ToIndex); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("events_reordered",
		"from_index", *req.FromIndex,
		"to_index", *req.ToIndex,
	)

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "order updated"})
}

// handleServiceError maps service errors to HTTP responses.
func (h *EventHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		h.writeError(w, http.StatusNotFound, "EVENT_NOT_FOUND", "Event not found")
	case errors.Is(err, service.ErrNameRequired):
		h.writeError(w, http.StatusBadRequest, "NAME_REQUIRED", "Event name is required")
	case errors.Is(err, service.ErrLinkRequired):
		h.writeError(w, http.StatusBadRequest, "LINK_REQUIRED", "Event link is required")
	case errors.Is(err, service.ErrInvalidDate):
		h.writeError(w, http.StatusBadRequest, "INVALID_DATE", "Dates must use the YYYY-MM-DD format")
	case errors.Is(err, service.ErrNoFieldsToUpdate):
		h.writeError(w, http.StatusBadRequest, "NO_FIELDS", "No recognized field to update")
	case errors.Is(err, service.ErrIndexOutOfRange):
		h.writeError(w, http.StatusBadRequest, "INDEX_OUT_OF_RANGE", "Index out of range")
	default:
		h.logger.Error("internal_error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// writeError writes an error response.
func (h *EventHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
