package domain

import "time"

// TimeRange is a half-open interval [Start, End). The end instant itself is
// excluded, so an event ending exactly when another starts does not overlap it.
// swagger:model TimeRange
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewTimeRange returns the range [start, end) or ErrInvalidRange when
// start >= end.
func NewTimeRange(start, end time.Time) (TimeRange, error) {
	r := TimeRange{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return TimeRange{}, err
	}
	return r, nil
}

// Validate returns ErrInvalidRange unless Start < End.
func (r TimeRange) Validate() error {
	if !r.Start.Before(r.End) {
		return ErrInvalidRange
	}
	return nil
}

// Duration returns End - Start.
func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Overlaps reports whether the two half-open ranges intersect:
// r.Start < other.End && other.Start < r.End. The relation is symmetric.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Contains reports whether t falls inside the half-open range.
func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// Shift returns the range moved forward by d, preserving its duration.
func (r TimeRange) Shift(d time.Duration) TimeRange {
	return TimeRange{Start: r.Start.Add(d), End: r.End.Add(d)}
}
