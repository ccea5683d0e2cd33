package scheduling

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"itineraryplanner/internal/domain"
)

// Sequence is a lazy, finite, strictly increasing stream of trigger instants.
// A Sequence is single-use; call Expand again to restart from the anchor.
type Sequence struct {
	next func() (time.Time, bool)
}

// Next returns the next trigger instant, or ok=false once the sequence is
// exhausted.
func (s *Sequence) Next() (time.Time, bool) {
	if s.next == nil {
		return time.Time{}, false
	}
	return s.next()
}

// Collect drains the sequence into a slice. Intended for tests and small
// expansions; production callers should iterate.
func (s *Sequence) Collect() []time.Time {
	var out []time.Time
	for {
		t, ok := s.Next()
		if !ok {
			return out
		}
		out = append(out, t)
	}
}

// Expand materializes the trigger instants for a recurrence spec anchored at
// the given instant. The sequence starts at the anchor itself, never yields
// an instant after spec.EndDate (inclusive) and never yields more than
// maxOccurrences instants, whichever bound is reached first. A spec of "none"
// or a non-positive maxOccurrences yields an empty sequence.
//
// Each closed spec variant reduces to a fixed minute interval, so the
// expansion is a single MINUTELY rule with the interval, COUNT and UNTIL
// bounds made explicit.
func Expand(spec domain.RecurrenceSpec, anchor time.Time, maxOccurrences int) (*Sequence, error) {
	if spec.IsNone() || maxOccurrences <= 0 {
		return &Sequence{}, nil
	}

	interval, err := spec.Interval()
	if err != nil {
		return nil, err
	}

	opt := rrule.ROption{
		Freq:     rrule.MINUTELY,
		Interval: int(interval / time.Minute),
		Dtstart:  anchor,
		Count:    maxOccurrences,
	}
	if spec.EndDate != nil {
		opt.Until = *spec.EndDate
	}

	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, fmt.Errorf("build recurrence rule: %w", err)
	}
	return &Sequence{next: rule.Iterator()}, nil
}
