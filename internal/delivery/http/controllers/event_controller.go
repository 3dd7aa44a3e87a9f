package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"fieldbooking/internal/delivery/http/helpers"
	"fieldbooking/internal/delivery/http/middleware"
	"fieldbooking/internal/domain"
)

// CreateEventRequest is the request body for POST /events. Either scheduled_at
// (RFC 3339) or date and time (local to the field) must be given.
type CreateEventRequest struct {
	FieldID     string     `json:"field_id"`
	FieldType   string     `json:"field_type" example:"futbol7"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	Date        string     `json:"date,omitempty" example:"2025-03-14"`
	Time        string     `json:"time,omitempty" example:"20:30"`
	Title       string     `json:"title,omitempty"`
}

// Validate implements helpers.Validator.
func (c CreateEventRequest) Validate() error {
	var p helpers.Problems
	if strings.TrimSpace(c.FieldID) == "" {
		p.Add("field_id is required")
	}
	if c.FieldType == "" {
		p.Add("field_type is required")
	}
	switch {
	case c.ScheduledAt != nil && (c.Date != "" || c.Time != ""):
		p.Add("use either scheduled_at or date and time, not both")
	case c.ScheduledAt == nil && (c.Date == "" || c.Time == ""):
		p.Add("scheduled_at or date and time are required")
	}
	return p.Err()
}

// CompleteEventRequest is the request body for POST /events/{eventID}/complete.
type CompleteEventRequest struct {
	AttendeeIDs []string `json:"attendee_ids"`
}

// Validate implements helpers.Validator. An empty list is allowed: nobody showed up.
func (c CompleteEventRequest) Validate() error {
	if c.AttendeeIDs == nil {
		return domain.NewValidationError("attendee_ids is required")
	}
	return nil
}

// EventSuccessResponse is the success envelope for endpoints returning one event.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateEvent godoc
// @Summary Schedule a pickup event
// @Description Creates an Open event whose roster comes from the field type's template. The authenticated player becomes the host.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event to schedule"
// @Success 201 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (field)"
// @Failure 503 {object} helpers.APIResponse "error.code: unavailable"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if err := helpers.DecodeJSON(w, r, &req); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	hostID, ok := middleware.PlayerIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	ft, err := domain.ParseFieldType(req.FieldType)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	in := domain.CreateEventInput{
		FieldID:   strings.TrimSpace(req.FieldID),
		FieldType: ft,
		LocalDate: req.Date,
		LocalTime: req.Time,
		Title:     strings.TrimSpace(req.Title),
		HostID:    hostID,
	}
	if req.ScheduledAt != nil {
		in.ScheduledAt = *req.ScheduledAt
	}
	event, err := c.Service.CreateEvent(r.Context(), in)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.Header().Set("Location", "/events/"+event.ID)
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// GetEvent godoc
// @Summary Get an event
// @Description Returns the authoritative event, including every slot and its occupant.
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 503 {object} helpers.APIResponse "error.code: unavailable"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := c.Service.GetEvent(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// JoinSlot godoc
// @Summary Claim a position slot
// @Description Seats the authenticated player in the slot. Exactly one of several concurrent claims on the same slot succeeds; the rest get 409.
// @Tags positions
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param slotID path string true "Slot ID, e.g. a-def-2"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 422 {object} helpers.APIResponse "error.code: invalid_state"
// @Router /events/{eventID}/slots/{slotID}/join [post]
func (c *EventController) JoinSlot(w http.ResponseWriter, r *http.Request) {
	c.withPlayer(w, r, func(playerID string) (*domain.Event, error) {
		return c.Service.JoinSlot(r.Context(), chi.URLParam(r, "eventID"), chi.URLParam(r, "slotID"), playerID)
	})
}

// LeaveSlot godoc
// @Summary Release a position slot
// @Description Frees the slot held by the authenticated player. Not allowed once the event has started.
// @Tags positions
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param slotID path string true "Slot ID"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 422 {object} helpers.APIResponse "error.code: invalid_state"
// @Router /events/{eventID}/slots/{slotID}/leave [post]
func (c *EventController) LeaveSlot(w http.ResponseWriter, r *http.Request) {
	c.withPlayer(w, r, func(playerID string) (*domain.Event, error) {
		return c.Service.LeaveSlot(r.Context(), chi.URLParam(r, "eventID"), chi.URLParam(r, "slotID"), playerID)
	})
}

// StartEvent godoc
// @Summary Start an event
// @Description Host only. Allowed from the start window before the scheduled time.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 422 {object} helpers.APIResponse "error.code: invalid_state"
// @Router /events/{eventID}/start [post]
func (c *EventController) StartEvent(w http.ResponseWriter, r *http.Request) {
	c.withPlayer(w, r, func(hostID string) (*domain.Event, error) {
		return c.Service.StartEvent(r.Context(), chi.URLParam(r, "eventID"), hostID)
	})
}

// CompleteEvent godoc
// @Summary Complete an event
// @Description Host only. Records which occupants attended; every attendee must occupy a slot.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param attendance body CompleteEventRequest true "Players who attended"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 422 {object} helpers.APIResponse "error.code: invalid_state"
// @Router /events/{eventID}/complete [post]
func (c *EventController) CompleteEvent(w http.ResponseWriter, r *http.Request) {
	var req CompleteEventRequest
	if err := helpers.DecodeJSON(w, r, &req); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	c.withPlayer(w, r, func(hostID string) (*domain.Event, error) {
		return c.Service.CompleteEvent(r.Context(), chi.URLParam(r, "eventID"), hostID, req.AttendeeIDs)
	})
}

// CancelEvent godoc
// @Summary Cancel an event
// @Description Host only. Allowed while the event is Open or Full.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 422 {object} helpers.APIResponse "error.code: invalid_state"
// @Router /events/{eventID}/cancel [post]
func (c *EventController) CancelEvent(w http.ResponseWriter, r *http.Request) {
	c.withPlayer(w, r, func(hostID string) (*domain.Event, error) {
		return c.Service.CancelEvent(r.Context(), chi.URLParam(r, "eventID"), hostID)
	})
}

// withPlayer runs a command on behalf of the authenticated player and writes
// the resulting event.
func (c *EventController) withPlayer(w http.ResponseWriter, r *http.Request, cmd func(playerID string) (*domain.Event, error)) {
	playerID, ok := middleware.PlayerIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	event, err := cmd(playerID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}
