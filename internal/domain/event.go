package domain

import (
	"context"
	"time"
)

// PriorityLevel is the display priority of an event. It never influences
// scheduling decisions.
type PriorityLevel string

const (
	PriorityLow    PriorityLevel = "low"
	PriorityMedium PriorityLevel = "medium"
	PriorityHigh   PriorityLevel = "high"
)

// ValidPriority reports whether p is one of the known levels.
func ValidPriority(p PriorityLevel) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Event represents a calendar event owned by a single user. Conflict checks
// and reminders are always scoped to the owner.
// swagger:model Event
type Event struct {
	ID          string         `json:"id"`
	OwnerID     string         `json:"owner_id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Venue       string         `json:"venue,omitempty"`
	Priority    PriorityLevel  `json:"priority"`
	Start       time.Time      `json:"start_time"`
	End         time.Time      `json:"end_time"`
	Recurrence  RecurrenceSpec `json:"recurrence"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// NewEvent returns a new Event with the given fields. ID is set by the
// service on create.
func NewEvent(ownerID, title string, start, end time.Time, createdAt time.Time) *Event {
	return &Event{
		OwnerID:   ownerID,
		Title:     title,
		Priority:  PriorityMedium,
		Start:     start,
		End:       end,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

// Range returns the event's time range.
func (e *Event) Range() TimeRange {
	return TimeRange{Start: e.Start, End: e.End}
}

// EventUpdate carries the mutable event fields for partial updates. Nil
// fields are left unchanged.
type EventUpdate struct {
	Title       *string
	Description *string
	Venue       *string
	Priority    *PriorityLevel
	Start       *time.Time
	End         *time.Time
	Recurrence  *RecurrenceSpec
}

// ConflictCheck is the result of testing a candidate range against an
// owner's events. When HasConflict is false both slices are empty.
// swagger:model ConflictCheck
type ConflictCheck struct {
	HasConflict    bool        `json:"has_conflict"`
	Conflicts      []*Event    `json:"conflicts"`
	SuggestedSlots []TimeRange `json:"suggested_slots"`
}

// EventStore is the narrow read interface the scheduling and reminder code
// depends on. It must return a consistent snapshot of the owner's events.
type EventStore interface {
	EventsForOwner(ctx context.Context, ownerID string) ([]*Event, error)
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	EventStore
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id string) error
}

// EventService defines the business logic for event scheduling.
type EventService interface {
	// CheckAvailability runs the conflict check for a candidate range and,
	// on conflict, fills in alternative slots.
	CheckAvailability(ctx context.Context, ownerID string, candidate TimeRange, excludeEventID *string) (*ConflictCheck, error)
	// CreateEvent persists the event after a conflict check. When the range
	// conflicts and allowConflicts is false it returns ErrSchedulingConflict
	// together with the check result. An explicit allowConflicts override is
	// honored without re-validation.
	CreateEvent(ctx context.Context, event *Event, allowConflicts bool) (*ConflictCheck, error)
	GetEvent(ctx context.Context, ownerID, eventID string) (*Event, error)
	ListEvents(ctx context.Context, ownerID string, window *TimeRange) ([]*Event, error)
	UpdateEvent(ctx context.Context, ownerID, eventID string, update EventUpdate, allowConflicts bool) (*Event, *ConflictCheck, error)
	DeleteEvent(ctx context.Context, ownerID, eventID string) error
}
