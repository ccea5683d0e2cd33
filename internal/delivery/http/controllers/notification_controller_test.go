package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"itineraryplanner/internal/delivery/http/helpers"
	"itineraryplanner/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeNotificationService implements domain.NotificationService for handler tests.
type fakeNotificationService struct {
	items      []*domain.Notification
	total      int
	unread     int
	marked     *domain.Notification
	err        error
	lastParams domain.PaginationParams
}

func (f *fakeNotificationService) List(ctx context.Context, ownerID string, params domain.PaginationParams) ([]*domain.Notification, int, error) {
	f.lastParams = params
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.items, f.total, nil
}

func (f *fakeNotificationService) UnreadCount(ctx context.Context, ownerID string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.unread, nil
}

func (f *fakeNotificationService) MarkRead(ctx context.Context, ownerID, notificationID string) (*domain.Notification, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.marked, nil
}

func TestNotificationController_List(t *testing.T) {
	t.Run("paginated", func(t *testing.T) {
		fake := &fakeNotificationService{
			items: []*domain.Notification{{ID: "n-2"}, {ID: "n-1"}},
			total: 5,
		}
		ctrl := NewNotificationController(testLogger, fake)
		rr := httptest.NewRecorder()

		ctrl.List(rr, authedRequest(http.MethodGet, "http://test/notifications?page=2&page_size=2", ""))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 2, fake.lastParams.Page)
		assert.Equal(t, 2, fake.lastParams.PageSize)

		envelope := decodeEnvelope(t, rr)
		require.Nil(t, envelope.Error)
		dataBytes, err := json.Marshal(envelope.Data)
		require.NoError(t, err)
		var resp ListNotificationsResponse
		require.NoError(t, json.Unmarshal(dataBytes, &resp))
		require.Len(t, resp.Items, 2)
		assert.Equal(t, 5, resp.Pagination.Total)
		assert.Equal(t, 3, resp.Pagination.TotalPages)
	})

	t.Run("empty list is an array", func(t *testing.T) {
		ctrl := NewNotificationController(testLogger, &fakeNotificationService{})
		rr := httptest.NewRecorder()

		ctrl.List(rr, authedRequest(http.MethodGet, "http://test/notifications", ""))

		require.Equal(t, http.StatusOK, rr.Code)
		envelope := decodeEnvelope(t, rr)
		dataBytes, err := json.Marshal(envelope.Data)
		require.NoError(t, err)
		assert.Contains(t, string(dataBytes), `"items":[]`)
	})

	t.Run("no user in context", func(t *testing.T) {
		ctrl := NewNotificationController(testLogger, &fakeNotificationService{})
		rr := httptest.NewRecorder()

		ctrl.List(rr, httptest.NewRequest(http.MethodGet, "http://test/notifications", nil))

		require.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestNotificationController_UnreadCount(t *testing.T) {
	fake := &fakeNotificationService{unread: 3}
	ctrl := NewNotificationController(testLogger, fake)
	rr := httptest.NewRecorder()

	ctrl.UnreadCount(rr, authedRequest(http.MethodGet, "http://test/notifications/unread-count", ""))

	require.Equal(t, http.StatusOK, rr.Code)
	envelope := decodeEnvelope(t, rr)
	dataBytes, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var resp UnreadCountResponse
	require.NoError(t, json.Unmarshal(dataBytes, &resp))
	assert.Equal(t, 3, resp.Unread)
}

func TestNotificationController_MarkRead(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		readAt := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
		fake := &fakeNotificationService{marked: &domain.Notification{
			ID: "n-1", Status: domain.StatusRead, ReadAt: &readAt,
		}}
		ctrl := NewNotificationController(testLogger, fake)
		req := authedRequest(http.MethodPost, "http://test/notifications/n-1/read", "")
		req.SetPathValue("notificationID", "n-1")
		rr := httptest.NewRecorder()

		ctrl.MarkRead(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		envelope := decodeEnvelope(t, rr)
		dataBytes, err := json.Marshal(envelope.Data)
		require.NoError(t, err)
		var n domain.Notification
		require.NoError(t, json.Unmarshal(dataBytes, &n))
		assert.Equal(t, domain.StatusRead, n.Status)
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := NewNotificationController(testLogger, &fakeNotificationService{err: domain.ErrNotFound})
		req := authedRequest(http.MethodPost, "http://test/notifications/missing/read", "")
		req.SetPathValue("notificationID", "missing")
		rr := httptest.NewRecorder()

		ctrl.MarkRead(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
		envelope := decodeEnvelope(t, rr)
		assert.Equal(t, helpers.ErrCodeNotFound, envelope.Error.Code)
	})
}
