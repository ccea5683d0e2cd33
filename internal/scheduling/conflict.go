// Package scheduling holds the pure computations of the engine: interval
// conflict detection, alternative slot search, and recurrence expansion.
// Everything here is synchronous and side-effect free; persistence and
// delivery live behind the domain interfaces.
package scheduling

import (
	"context"
	"fmt"
	"sort"

	"itineraryplanner/internal/domain"
)

// Detector finds the subset of an owner's events that overlap a candidate
// range. Conflicts never cross owners.
type Detector struct {
	store domain.EventStore
}

// NewDetector returns a Detector reading from the given store.
func NewDetector(store domain.EventStore) *Detector {
	return &Detector{store: store}
}

// FindConflicts returns every event of ownerID whose range overlaps the
// candidate, sorted by start time ascending. excludeEventID, when non-nil,
// skips that event so an edit is never reported as conflicting with itself.
// A candidate with start >= end is rejected with domain.ErrInvalidRange
// before any store access. An empty result means no conflict.
func (d *Detector) FindConflicts(ctx context.Context, ownerID string, candidate domain.TimeRange, excludeEventID *string) ([]*domain.Event, error) {
	if err := candidate.Validate(); err != nil {
		return nil, err
	}

	events, err := d.store.EventsForOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list events for owner: %w", err)
	}

	conflicts := make([]*domain.Event, 0)
	for _, e := range events {
		if excludeEventID != nil && e.ID == *excludeEventID {
			continue
		}
		if candidate.Overlaps(e.Range()) {
			conflicts = append(conflicts, e)
		}
	}

	sort.SliceStable(conflicts, func(i, j int) bool {
		return conflicts[i].Start.Before(conflicts[j].Start)
	})
	return conflicts, nil
}
