package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"itineraryplanner/internal/delivery/http/helpers"
	"itineraryplanner/internal/delivery/http/middleware"
	"itineraryplanner/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	check      *domain.ConflictCheck
	event      *domain.Event
	events     []*domain.Event
	err        error
	lastWindow *domain.TimeRange
	lastAllow  bool
}

func (f *fakeEventService) CheckAvailability(ctx context.Context, ownerID string, candidate domain.TimeRange, excludeEventID *string) (*domain.ConflictCheck, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.check, nil
}

func (f *fakeEventService) CreateEvent(ctx context.Context, event *domain.Event, allowConflicts bool) (*domain.ConflictCheck, error) {
	f.lastAllow = allowConflicts
	if f.err != nil {
		return f.check, f.err
	}
	event.ID = "ev-created"
	return f.check, nil
}

func (f *fakeEventService) GetEvent(ctx context.Context, ownerID, eventID string) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func (f *fakeEventService) ListEvents(ctx context.Context, ownerID string, window *domain.TimeRange) ([]*domain.Event, error) {
	f.lastWindow = window
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

func (f *fakeEventService) UpdateEvent(ctx context.Context, ownerID, eventID string, update domain.EventUpdate, allowConflicts bool) (*domain.Event, *domain.ConflictCheck, error) {
	f.lastAllow = allowConflicts
	if f.err != nil {
		return nil, f.check, f.err
	}
	return f.event, f.check, nil
}

func (f *fakeEventService) DeleteEvent(ctx context.Context, ownerID, eventID string) error {
	return f.err
}

func authedRequest(method, target, body string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		r.Header.Set("Content-Type", "application/json")
	}
	return r.WithContext(middleware.SetUserID(r.Context(), "user-123"))
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) helpers.APIResponse {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	return envelope
}

func TestEventController_CreateEvent(t *testing.T) {
	validBody := `{"title":"Standup","start_time":"2025-06-01T10:00:00Z","end_time":"2025-06-01T11:00:00Z"}`

	t.Run("success", func(t *testing.T) {
		fake := &fakeEventService{check: &domain.ConflictCheck{}}
		ctrl := NewEventController(testLogger, fake)
		rr := httptest.NewRecorder()

		ctrl.CreateEvent(rr, authedRequest(http.MethodPost, "http://test/events", validBody))

		require.Equal(t, http.StatusCreated, rr.Code)
		envelope := decodeEnvelope(t, rr)
		require.Nil(t, envelope.Error)
		dataBytes, err := json.Marshal(envelope.Data)
		require.NoError(t, err)
		var ev domain.Event
		require.NoError(t, json.Unmarshal(dataBytes, &ev))
		assert.Equal(t, "ev-created", ev.ID)
		assert.Equal(t, "user-123", ev.OwnerID)
		assert.Equal(t, domain.PriorityMedium, ev.Priority)
	})

	t.Run("conflict returns details and suggestions", func(t *testing.T) {
		start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
		fake := &fakeEventService{
			err: domain.ErrSchedulingConflict,
			check: &domain.ConflictCheck{
				HasConflict: true,
				Conflicts:   []*domain.Event{{ID: "ev-existing", Title: "Busy"}},
				SuggestedSlots: []domain.TimeRange{
					{Start: start.Add(time.Hour), End: start.Add(2 * time.Hour)},
				},
			},
		}
		ctrl := NewEventController(testLogger, fake)
		rr := httptest.NewRecorder()

		ctrl.CreateEvent(rr, authedRequest(http.MethodPost, "http://test/events", validBody))

		require.Equal(t, http.StatusConflict, rr.Code)
		envelope := decodeEnvelope(t, rr)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, helpers.ErrCodeConflict, envelope.Error.Code)
		dataBytes, err := json.Marshal(envelope.Data)
		require.NoError(t, err)
		var check domain.ConflictCheck
		require.NoError(t, json.Unmarshal(dataBytes, &check))
		assert.True(t, check.HasConflict)
		require.Len(t, check.Conflicts, 1)
		assert.Equal(t, "ev-existing", check.Conflicts[0].ID)
		require.Len(t, check.SuggestedSlots, 1)
	})

	t.Run("allow_conflicts is forwarded", func(t *testing.T) {
		fake := &fakeEventService{check: &domain.ConflictCheck{}}
		ctrl := NewEventController(testLogger, fake)
		body := `{"title":"Standup","start_time":"2025-06-01T10:00:00Z","end_time":"2025-06-01T11:00:00Z","allow_conflicts":true}`
		rr := httptest.NewRecorder()

		ctrl.CreateEvent(rr, authedRequest(http.MethodPost, "http://test/events", body))

		require.Equal(t, http.StatusCreated, rr.Code)
		assert.True(t, fake.lastAllow)
	})

	t.Run("missing title", func(t *testing.T) {
		ctrl := NewEventController(testLogger, &fakeEventService{})
		body := `{"start_time":"2025-06-01T10:00:00Z","end_time":"2025-06-01T11:00:00Z"}`
		rr := httptest.NewRecorder()

		ctrl.CreateEvent(rr, authedRequest(http.MethodPost, "http://test/events", body))

		require.Equal(t, http.StatusBadRequest, rr.Code)
		envelope := decodeEnvelope(t, rr)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, helpers.ErrCodeBadRequest, envelope.Error.Code)
	})

	t.Run("end before start", func(t *testing.T) {
		ctrl := NewEventController(testLogger, &fakeEventService{})
		body := `{"title":"x","start_time":"2025-06-01T11:00:00Z","end_time":"2025-06-01T10:00:00Z"}`
		rr := httptest.NewRecorder()

		ctrl.CreateEvent(rr, authedRequest(http.MethodPost, "http://test/events", body))

		require.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("no user in context", func(t *testing.T) {
		ctrl := NewEventController(testLogger, &fakeEventService{})
		req := httptest.NewRequest(http.MethodPost, "http://test/events", bytes.NewBufferString(validBody))
		rr := httptest.NewRecorder()

		ctrl.CreateEvent(rr, req)

		require.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestEventController_CheckAvailability(t *testing.T) {
	t.Run("free range", func(t *testing.T) {
		fake := &fakeEventService{check: &domain.ConflictCheck{
			Conflicts:      []*domain.Event{},
			SuggestedSlots: []domain.TimeRange{},
		}}
		ctrl := NewEventController(testLogger, fake)
		body := `{"start_time":"2025-06-01T10:00:00Z","end_time":"2025-06-01T11:00:00Z"}`
		rr := httptest.NewRecorder()

		ctrl.CheckAvailability(rr, authedRequest(http.MethodPost, "http://test/events/check", body))

		require.Equal(t, http.StatusOK, rr.Code)
		envelope := decodeEnvelope(t, rr)
		require.Nil(t, envelope.Error)
		dataBytes, err := json.Marshal(envelope.Data)
		require.NoError(t, err)
		var check domain.ConflictCheck
		require.NoError(t, json.Unmarshal(dataBytes, &check))
		assert.False(t, check.HasConflict)
		assert.Empty(t, check.Conflicts)
	})

	t.Run("invalid range", func(t *testing.T) {
		ctrl := NewEventController(testLogger, &fakeEventService{})
		body := `{"start_time":"2025-06-01T11:00:00Z","end_time":"2025-06-01T11:00:00Z"}`
		rr := httptest.NewRecorder()

		ctrl.CheckAvailability(rr, authedRequest(http.MethodPost, "http://test/events/check", body))

		require.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestEventController_GetEvent(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fake := &fakeEventService{event: &domain.Event{ID: "ev-1", OwnerID: "user-123", Title: "Standup"}}
		ctrl := NewEventController(testLogger, fake)
		req := authedRequest(http.MethodGet, "http://test/events/ev-1", "")
		req.SetPathValue("eventID", "ev-1")
		rr := httptest.NewRecorder()

		ctrl.GetEvent(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("not found", func(t *testing.T) {
		fake := &fakeEventService{err: domain.ErrNotFound}
		ctrl := NewEventController(testLogger, fake)
		req := authedRequest(http.MethodGet, "http://test/events/missing", "")
		req.SetPathValue("eventID", "missing")
		rr := httptest.NewRecorder()

		ctrl.GetEvent(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
		envelope := decodeEnvelope(t, rr)
		assert.Equal(t, helpers.ErrCodeNotFound, envelope.Error.Code)
	})

	t.Run("another owner's event looks missing", func(t *testing.T) {
		fake := &fakeEventService{err: domain.ErrForbidden}
		ctrl := NewEventController(testLogger, fake)
		req := authedRequest(http.MethodGet, "http://test/events/ev-2", "")
		req.SetPathValue("eventID", "ev-2")
		rr := httptest.NewRecorder()

		ctrl.GetEvent(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestEventController_ListEvents(t *testing.T) {
	t.Run("window is parsed", func(t *testing.T) {
		fake := &fakeEventService{events: []*domain.Event{{ID: "ev-1"}}}
		ctrl := NewEventController(testLogger, fake)
		target := "http://test/events?from=2025-06-01T00:00:00Z&to=2025-06-08T00:00:00Z"
		rr := httptest.NewRecorder()

		ctrl.ListEvents(rr, authedRequest(http.MethodGet, target, ""))

		require.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, fake.lastWindow)
		assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), fake.lastWindow.Start)
	})

	t.Run("no window", func(t *testing.T) {
		fake := &fakeEventService{events: nil}
		ctrl := NewEventController(testLogger, fake)
		rr := httptest.NewRecorder()

		ctrl.ListEvents(rr, authedRequest(http.MethodGet, "http://test/events", ""))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Nil(t, fake.lastWindow)
		// nil slice is rendered as an empty array, not null
		envelope := decodeEnvelope(t, rr)
		dataBytes, err := json.Marshal(envelope.Data)
		require.NoError(t, err)
		assert.Equal(t, "[]", string(dataBytes))
	})

	t.Run("half a window is rejected", func(t *testing.T) {
		ctrl := NewEventController(testLogger, &fakeEventService{})
		rr := httptest.NewRecorder()

		ctrl.ListEvents(rr, authedRequest(http.MethodGet, "http://test/events?from=2025-06-01T00:00:00Z", ""))

		require.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestEventController_UpdateEvent(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fake := &fakeEventService{event: &domain.Event{ID: "ev-1", Title: "Renamed"}}
		ctrl := NewEventController(testLogger, fake)
		req := authedRequest(http.MethodPatch, "http://test/events/ev-1", `{"title":"Renamed"}`)
		req.SetPathValue("eventID", "ev-1")
		rr := httptest.NewRecorder()

		ctrl.UpdateEvent(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("conflict on reschedule", func(t *testing.T) {
		fake := &fakeEventService{
			err:   domain.ErrSchedulingConflict,
			check: &domain.ConflictCheck{HasConflict: true, Conflicts: []*domain.Event{{ID: "ev-other"}}},
		}
		ctrl := NewEventController(testLogger, fake)
		req := authedRequest(http.MethodPatch, "http://test/events/ev-1", `{"start_time":"2025-06-01T10:00:00Z","end_time":"2025-06-01T11:00:00Z"}`)
		req.SetPathValue("eventID", "ev-1")
		rr := httptest.NewRecorder()

		ctrl.UpdateEvent(rr, req)

		require.Equal(t, http.StatusConflict, rr.Code)
		envelope := decodeEnvelope(t, rr)
		assert.Equal(t, helpers.ErrCodeConflict, envelope.Error.Code)
	})

	t.Run("forbidden", func(t *testing.T) {
		fake := &fakeEventService{err: domain.ErrForbidden}
		ctrl := NewEventController(testLogger, fake)
		req := authedRequest(http.MethodPatch, "http://test/events/ev-1", `{"title":"x"}`)
		req.SetPathValue("eventID", "ev-1")
		rr := httptest.NewRecorder()

		ctrl.UpdateEvent(rr, req)

		require.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestEventController_DeleteEvent(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ctrl := NewEventController(testLogger, &fakeEventService{})
		req := authedRequest(http.MethodDelete, "http://test/events/ev-1", "")
		req.SetPathValue("eventID", "ev-1")
		rr := httptest.NewRecorder()

		ctrl.DeleteEvent(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := NewEventController(testLogger, &fakeEventService{err: domain.ErrNotFound})
		req := authedRequest(http.MethodDelete, "http://test/events/missing", "")
		req.SetPathValue("eventID", "missing")
		rr := httptest.NewRecorder()

		ctrl.DeleteEvent(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
	})
}
