package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	"itineraryplanner/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEventStore is an in-memory domain.EventStore for tests.
type fakeEventStore struct {
	events map[string][]*domain.Event // ownerID -> events
	err    error
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{events: make(map[string][]*domain.Event)}
}

func (f *fakeEventStore) EventsForOwner(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.events[ownerID], nil
}

func (f *fakeEventStore) add(ownerID string, e *domain.Event) {
	e.OwnerID = ownerID
	f.events[ownerID] = append(f.events[ownerID], e)
}

func at(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return ts
}

func event(id string, start, end time.Time) *domain.Event {
	return &domain.Event{ID: id, Title: id, Start: start, End: end}
}

func TestDetector_FindConflicts(t *testing.T) {
	ctx := context.Background()
	store := newFakeEventStore()
	store.add("owner-1", event("a", at(t, "2025-06-01T10:00:00Z"), at(t, "2025-06-01T11:00:00Z")))
	store.add("owner-1", event("b", at(t, "2025-06-01T14:00:00Z"), at(t, "2025-06-01T15:00:00Z")))
	store.add("owner-2", event("other", at(t, "2025-06-01T10:00:00Z"), at(t, "2025-06-01T11:00:00Z")))

	detector := NewDetector(store)

	t.Run("overlap reported", func(t *testing.T) {
		candidate := domain.TimeRange{Start: at(t, "2025-06-01T10:30:00Z"), End: at(t, "2025-06-01T11:30:00Z")}
		conflicts, err := detector.FindConflicts(ctx, "owner-1", candidate, nil)
		require.NoError(t, err)
		require.Len(t, conflicts, 1)
		assert.Equal(t, "a", conflicts[0].ID)
	})

	t.Run("no cross-owner conflicts", func(t *testing.T) {
		candidate := domain.TimeRange{Start: at(t, "2025-06-01T10:00:00Z"), End: at(t, "2025-06-01T11:00:00Z")}
		conflicts, err := detector.FindConflicts(ctx, "owner-3", candidate, nil)
		require.NoError(t, err)
		assert.Empty(t, conflicts)
	})

	t.Run("back to back is free", func(t *testing.T) {
		candidate := domain.TimeRange{Start: at(t, "2025-06-01T11:00:00Z"), End: at(t, "2025-06-01T12:00:00Z")}
		conflicts, err := detector.FindConflicts(ctx, "owner-1", candidate, nil)
		require.NoError(t, err)
		assert.Empty(t, conflicts)
	})

	t.Run("exclude self on edit", func(t *testing.T) {
		exclude := "a"
		candidate := domain.TimeRange{Start: at(t, "2025-06-01T10:00:00Z"), End: at(t, "2025-06-01T11:00:00Z")}
		conflicts, err := detector.FindConflicts(ctx, "owner-1", candidate, &exclude)
		require.NoError(t, err)
		assert.Empty(t, conflicts)
	})

	t.Run("sorted by start ascending", func(t *testing.T) {
		candidate := domain.TimeRange{Start: at(t, "2025-06-01T09:00:00Z"), End: at(t, "2025-06-01T16:00:00Z")}
		conflicts, err := detector.FindConflicts(ctx, "owner-1", candidate, nil)
		require.NoError(t, err)
		require.Len(t, conflicts, 2)
		assert.Equal(t, "a", conflicts[0].ID)
		assert.Equal(t, "b", conflicts[1].ID)
	})

	t.Run("invalid range rejected before store access", func(t *testing.T) {
		candidate := domain.TimeRange{Start: at(t, "2025-06-01T11:00:00Z"), End: at(t, "2025-06-01T10:00:00Z")}
		_, err := detector.FindConflicts(ctx, "owner-1", candidate, nil)
		require.ErrorIs(t, err, domain.ErrInvalidRange)
	})

	t.Run("store error propagated", func(t *testing.T) {
		broken := newFakeEventStore()
		broken.err = errors.New("db down")
		candidate := domain.TimeRange{Start: at(t, "2025-06-01T10:00:00Z"), End: at(t, "2025-06-01T11:00:00Z")}
		_, err := NewDetector(broken).FindConflicts(ctx, "owner-1", candidate, nil)
		require.Error(t, err)
	})
}
