package controllers

import (
	"log/slog"
	"net/http"

	h "itineraryplanner/internal/delivery/http/helpers"
	"itineraryplanner/internal/delivery/http/middleware"
)

// ReminderWatcher is the slice of the reminder engine the HTTP layer needs.
type ReminderWatcher interface {
	Watch(ownerID string)
	Unwatch(ownerID string)
	Watched() []string
}

// WatchStatusResponse is the data payload for the watch endpoints.
type WatchStatusResponse struct {
	Watching bool `json:"watching"`
}

type ReminderController struct {
	Logger  *slog.Logger
	Watcher ReminderWatcher
}

func NewReminderController(logger *slog.Logger, watcher ReminderWatcher) *ReminderController {
	return &ReminderController{
		Logger:  logger,
		Watcher: watcher,
	}
}

// Watch godoc
// @Summary Start reminder delivery for the caller
// @Description Registers the caller with the reminder engine so upcoming events on their calendar produce reminder notifications. Idempotent.
// @Tags reminders
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains watching: true"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /reminders/watch [post]
func (c *ReminderController) Watch(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	c.Watcher.Watch(ownerID)
	h.WriteJSONSuccess(w, http.StatusOK, WatchStatusResponse{Watching: true})
}

// Unwatch godoc
// @Summary Stop reminder delivery for the caller
// @Description Removes the caller from reminder evaluation. Already-delivered notifications remain; re-watching does not re-fire them. Idempotent.
// @Tags reminders
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains watching: false"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /reminders/watch [delete]
func (c *ReminderController) Unwatch(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	c.Watcher.Unwatch(ownerID)
	h.WriteJSONSuccess(w, http.StatusOK, WatchStatusResponse{Watching: false})
}
