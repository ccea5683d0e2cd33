package scheduling

import (
	"context"
	"fmt"
	"time"

	"itineraryplanner/internal/domain"
)

// Suggester searches forward for non-conflicting alternative slots after a
// candidate range was found to conflict.
type Suggester struct {
	detector *Detector
}

// NewSuggester returns a Suggester probing through the given detector.
func NewSuggester(detector *Detector) *Suggester {
	return &Suggester{detector: detector}
}

// SuggestSlots probes ranges of the candidate's duration at step increments,
// starting at candidate.Start and never overshooting candidate.Start+horizon,
// and returns up to maxResults conflict-free slots in increasing start order.
// Exhausting the horizon with fewer than maxResults suggestions is not an
// error; the result may be empty.
func (s *Suggester) SuggestSlots(ctx context.Context, ownerID string, candidate domain.TimeRange, excludeEventID *string, maxResults int, horizon, step time.Duration) ([]domain.TimeRange, error) {
	if err := candidate.Validate(); err != nil {
		return nil, err
	}
	if step <= 0 {
		return nil, fmt.Errorf("%w: step must be positive", domain.ErrInvalidInput)
	}
	if horizon < 0 {
		return nil, fmt.Errorf("%w: horizon must not be negative", domain.ErrInvalidInput)
	}

	duration := candidate.Duration()
	limit := candidate.Start.Add(horizon)
	slots := make([]domain.TimeRange, 0, maxResults)

	for t := candidate.Start; !t.After(limit) && len(slots) < maxResults; t = t.Add(step) {
		probe := domain.TimeRange{Start: t, End: t.Add(duration)}
		conflicts, err := s.detector.FindConflicts(ctx, ownerID, probe, excludeEventID)
		if err != nil {
			return nil, err
		}
		if len(conflicts) == 0 {
			slots = append(slots, probe)
		}
	}
	return slots, nil
}
