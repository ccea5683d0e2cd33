package domain

import (
	"fmt"
	"time"
)

// RecurrenceUnit is the closed set of supported reminder cadences. Adding a
// cadence means adding a constant here and a case in RecurrenceSpec.Interval;
// there is no free-form rule string.
type RecurrenceUnit string

const (
	// RecurrenceNone means the event has no recurring reminders.
	RecurrenceNone RecurrenceUnit = "none"
	// RecurrencePerDay fires Multiplier times per day, evenly spaced from
	// the anchor's time of day. Multiplier must divide 24h into whole
	// minutes (1..48).
	RecurrencePerDay RecurrenceUnit = "per_day"
	// RecurrenceHourly fires every Multiplier hours. Supported multipliers
	// are 1, 2, 3, 4, 6, 8 and 12.
	RecurrenceHourly RecurrenceUnit = "hourly"
	// RecurrencePerWeek fires Multiplier times per week, evenly spaced
	// across the 7-day window anchored on the event's weekday (1..7).
	RecurrencePerWeek RecurrenceUnit = "per_week"
	// RecurrenceMinutely fires every Multiplier minutes. Supported
	// multipliers are 15 and 30.
	RecurrenceMinutely RecurrenceUnit = "minutely"
)

var supportedHourly = map[int]bool{1: true, 2: true, 3: true, 4: true, 6: true, 8: true, 12: true}

var supportedMinutely = map[int]bool{15: true, 30: true}

// RecurrenceSpec describes how an event's reminder repeats. The zero value
// and a spec with Unit "none" (or empty) are equivalent: no recurrence.
// swagger:model RecurrenceSpec
type RecurrenceSpec struct {
	Unit       RecurrenceUnit `json:"unit"`
	Multiplier int            `json:"multiplier,omitempty"`
	// EndDate is the inclusive bound for occurrences. Absent means the
	// expansion is bounded only by the hard occurrence cap.
	EndDate *time.Time `json:"end_date,omitempty"`
}

// IsNone reports whether the spec carries no recurrence. An absent unit is
// treated identically to "none".
func (s RecurrenceSpec) IsNone() bool {
	return s.Unit == "" || s.Unit == RecurrenceNone
}

// Validate checks the unit and multiplier against the supported sets.
func (s RecurrenceSpec) Validate() error {
	if s.IsNone() {
		return nil
	}
	_, err := s.Interval()
	return err
}

// Interval returns the spacing between consecutive trigger instants for the
// spec, or ErrInvalidRecurrence for unsupported units or multipliers.
func (s RecurrenceSpec) Interval() (time.Duration, error) {
	switch s.Unit {
	case RecurrencePerDay:
		const minutesPerDay = 24 * 60
		if s.Multiplier < 1 || s.Multiplier > 48 || minutesPerDay%s.Multiplier != 0 {
			return 0, fmt.Errorf("%w: %d times per day", ErrInvalidRecurrence, s.Multiplier)
		}
		return time.Duration(minutesPerDay/s.Multiplier) * time.Minute, nil
	case RecurrenceHourly:
		if !supportedHourly[s.Multiplier] {
			return 0, fmt.Errorf("%w: every %d hours", ErrInvalidRecurrence, s.Multiplier)
		}
		return time.Duration(s.Multiplier) * time.Hour, nil
	case RecurrencePerWeek:
		const minutesPerWeek = 7 * 24 * 60
		if s.Multiplier < 1 || s.Multiplier > 7 {
			return 0, fmt.Errorf("%w: %d times per week", ErrInvalidRecurrence, s.Multiplier)
		}
		return time.Duration(minutesPerWeek/s.Multiplier) * time.Minute, nil
	case RecurrenceMinutely:
		if !supportedMinutely[s.Multiplier] {
			return 0, fmt.Errorf("%w: every %d minutes", ErrInvalidRecurrence, s.Multiplier)
		}
		return time.Duration(s.Multiplier) * time.Minute, nil
	default:
		return 0, fmt.Errorf("%w: unknown unit %q", ErrInvalidRecurrence, s.Unit)
	}
}
