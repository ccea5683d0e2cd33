package controllers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	h "itineraryplanner/internal/delivery/http/helpers"
	"itineraryplanner/internal/delivery/http/middleware"
	"itineraryplanner/internal/domain"
)

// RecurrenceRequest is the recurrence block accepted on event create/update.
type RecurrenceRequest struct {
	Unit       string     `json:"unit"`
	Multiplier int        `json:"multiplier"`
	EndDate    *time.Time `json:"end_date"`
}

func (r *RecurrenceRequest) toSpec() domain.RecurrenceSpec {
	if r == nil {
		return domain.RecurrenceSpec{}
	}
	return domain.RecurrenceSpec{
		Unit:       domain.RecurrenceUnit(strings.TrimSpace(strings.ToLower(r.Unit))),
		Multiplier: r.Multiplier,
		EndDate:    r.EndDate,
	}
}

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	Venue          string             `json:"venue"`
	Priority       string             `json:"priority"`
	StartTime      time.Time          `json:"start_time"`
	EndTime        time.Time          `json:"end_time"`
	Recurrence     *RecurrenceRequest `json:"recurrence"`
	AllowConflicts bool               `json:"allow_conflicts"`
}

// Validate implements Validator.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	}
	if c.StartTime.IsZero() || c.EndTime.IsZero() {
		errs = append(errs, "start_time and end_time are required")
	} else if !c.StartTime.Before(c.EndTime) {
		errs = append(errs, "start_time must be before end_time")
	}
	if p := strings.TrimSpace(strings.ToLower(c.Priority)); p != "" && !domain.ValidPriority(domain.PriorityLevel(p)) {
		errs = append(errs, "priority must be \"low\", \"medium\" or \"high\"")
	}
	return errs
}

// UpdateEventRequest is the request body for PATCH /events/{eventID}.
// All fields optional; omitted fields are unchanged.
type UpdateEventRequest struct {
	Title          *string            `json:"title"`
	Description    *string            `json:"description"`
	Venue          *string            `json:"venue"`
	Priority       *string            `json:"priority"`
	StartTime      *time.Time         `json:"start_time"`
	EndTime        *time.Time         `json:"end_time"`
	Recurrence     *RecurrenceRequest `json:"recurrence"`
	AllowConflicts bool               `json:"allow_conflicts"`
}

// Validate implements Validator.
func (u UpdateEventRequest) Validate() []string {
	var errs []string
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		errs = append(errs, "title cannot be empty")
	}
	if u.Priority != nil && !domain.ValidPriority(domain.PriorityLevel(strings.TrimSpace(strings.ToLower(*u.Priority)))) {
		errs = append(errs, "priority must be \"low\", \"medium\" or \"high\"")
	}
	if u.StartTime != nil && u.EndTime != nil && !u.StartTime.Before(*u.EndTime) {
		errs = append(errs, "start_time must be before end_time")
	}
	return errs
}

// CheckAvailabilityRequest is the request body for POST /events/check.
type CheckAvailabilityRequest struct {
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	ExcludeEventID *string   `json:"exclude_event_id"`
}

// Validate implements Validator.
func (c CheckAvailabilityRequest) Validate() []string {
	var errs []string
	if c.StartTime.IsZero() || c.EndTime.IsZero() {
		errs = append(errs, "start_time and end_time are required")
	} else if !c.StartTime.Before(c.EndTime) {
		errs = append(errs, "start_time must be before end_time")
	}
	return errs
}

// DeleteEventResponse is the data payload for DELETE /events/{eventID} (200).
type DeleteEventResponse struct {
	Status string `json:"status"`
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

// writeConflict responds 409 with the conflict details in data so the client
// can render the conflicting events and suggested slots.
func writeConflict(w http.ResponseWriter, check *domain.ConflictCheck) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusConflict)
	_ = json.NewEncoder(w).Encode(h.APIResponse{
		Data:  check,
		Error: &h.APIError{Code: h.ErrCodeConflict, Message: "requested time range conflicts with existing events"},
	})
}

// CreateEvent godoc
// @Summary Create an event
// @Description Creates an event after a conflict check against the caller's calendar. On conflict the response is 409 and data carries the conflicting events plus suggested alternative slots; set allow_conflicts to true to create anyway.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateEventRequest true "Event data"
// @Success 201 {object} helpers.APIResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict; data contains conflicts and suggested_slots"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	ownerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}

	now := time.Now()
	event := domain.NewEvent(ownerID, strings.TrimSpace(req.Title), req.StartTime, req.EndTime, now)
	event.Description = req.Description
	event.Venue = req.Venue
	if p := strings.TrimSpace(strings.ToLower(req.Priority)); p != "" {
		event.Priority = domain.PriorityLevel(p)
	}
	event.Recurrence = req.Recurrence.toSpec()

	check, err := c.Service.CreateEvent(r.Context(), event, req.AllowConflicts)
	if err != nil {
		if errors.Is(err, domain.ErrSchedulingConflict) {
			writeConflict(w, check)
			return
		}
		if errors.Is(err, domain.ErrInvalidRange) || errors.Is(err, domain.ErrInvalidRecurrence) || errors.Is(err, domain.ErrInvalidInput) {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, event)
}

// CheckAvailability godoc
// @Summary Check a time range for conflicts
// @Description Tests a candidate range against the caller's calendar without creating anything. When the range conflicts, data lists the conflicting events and suggested alternative slots.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CheckAvailabilityRequest true "Candidate range"
// @Success 200 {object} helpers.APIResponse "data contains has_conflict, conflicts and suggested_slots"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/check [post]
func (c *EventController) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	var req CheckAvailabilityRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	ownerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	candidate := domain.TimeRange{Start: req.StartTime, End: req.EndTime}
	check, err := c.Service.CheckAvailability(r.Context(), ownerID, candidate, req.ExcludeEventID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRange) || errors.Is(err, domain.ErrInvalidInput) {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, check)
}

// GetEvent godoc
// @Summary Get an event by ID
// @Description Returns one of the caller's events.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the event"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing eventID")
		return
	}
	ownerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	event, err := c.Service.GetEvent(r.Context(), ownerID, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrForbidden) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, event)
}

// ListEvents godoc
// @Summary List the caller's events
// @Description Returns the caller's events ordered by start time. Optional from/to query params (RFC 3339) restrict the listing to events overlapping that window.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param from query string false "Window start (RFC 3339)"
// @Param to query string false "Window end (RFC 3339)"
// @Success 200 {object} helpers.APIResponse "data is an array of events"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	window, err := parseWindow(r)
	if err != nil {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
		return
	}
	events, err := c.Service.ListEvents(r.Context(), ownerID, window)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	if events == nil {
		events = []*domain.Event{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, events)
}

// parseWindow reads optional from/to query params into a TimeRange. Both must
// be present for a window to apply.
func parseWindow(r *http.Request) (*domain.TimeRange, error) {
	fromStr := strings.TrimSpace(r.URL.Query().Get("from"))
	toStr := strings.TrimSpace(r.URL.Query().Get("to"))
	if fromStr == "" && toStr == "" {
		return nil, nil
	}
	if fromStr == "" || toStr == "" {
		return nil, errors.New("from and to must be given together")
	}
	from, err := time.Parse(time.RFC3339, fromStr)
	if err != nil {
		return nil, errors.New("from must be RFC 3339")
	}
	to, err := time.Parse(time.RFC3339, toStr)
	if err != nil {
		return nil, errors.New("to must be RFC 3339")
	}
	window, err := domain.NewTimeRange(from, to)
	if err != nil {
		return nil, errors.New("from must be before to")
	}
	return &window, nil
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Partially updates an event. A changed time range is re-checked for conflicts excluding the event itself; on conflict the response is 409 with conflicts and suggested slots unless allow_conflicts is true.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body UpdateEventRequest true "Fields to update (all optional)"
// @Success 200 {object} helpers.APIResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict; data contains conflicts and suggested_slots"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [patch]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req UpdateEventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	ownerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}

	update := domain.EventUpdate{
		Title:       req.Title,
		Description: req.Description,
		Venue:       req.Venue,
		Start:       req.StartTime,
		End:         req.EndTime,
	}
	if req.Priority != nil {
		p := domain.PriorityLevel(strings.TrimSpace(strings.ToLower(*req.Priority)))
		update.Priority = &p
	}
	if req.Recurrence != nil {
		spec := req.Recurrence.toSpec()
		update.Recurrence = &spec
	}

	event, check, err := c.Service.UpdateEvent(r.Context(), ownerID, eventID, update, req.AllowConflicts)
	if err != nil {
		if errors.Is(err, domain.ErrSchedulingConflict) {
			writeConflict(w, check)
			return
		}
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "event not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "forbidden")
			return
		}
		if errors.Is(err, domain.ErrInvalidRange) || errors.Is(err, domain.ErrInvalidRecurrence) || errors.Is(err, domain.ErrInvalidInput) {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes an event. Reminders not yet fired for it are cancelled; notifications already delivered remain.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains status"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing eventID")
		return
	}
	ownerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), ownerID, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "event not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "forbidden")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, DeleteEventResponse{Status: "deleted"})
}
