package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"itineraryplanner/internal/domain"
	"itineraryplanner/internal/scheduling"
)

// SlotConfig bundles the alternative-slot search parameters.
type SlotConfig struct {
	MaxResults int
	Horizon    time.Duration
	Step       time.Duration
}

type eventService struct {
	eventRepo      domain.EventRepository
	detector       *scheduling.Detector
	suggester      *scheduling.Suggester
	sink           domain.NotificationSink
	slots          SlotConfig
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewEventService wires the conflict detector and slot suggester into the
// event CRUD flow.
func NewEventService(eventRepo domain.EventRepository,
	detector *scheduling.Detector,
	suggester *scheduling.Suggester,
	sink domain.NotificationSink,
	slots SlotConfig,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		detector:       detector,
		suggester:      suggester,
		sink:           sink,
		slots:          slots,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *eventService) CheckAvailability(ctx context.Context, ownerID string, candidate domain.TimeRange, excludeEventID *string) (*domain.ConflictCheck, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	conflicts, err := s.detector.FindConflicts(ctx, ownerID, candidate, excludeEventID)
	if err != nil {
		return nil, err
	}
	check := &domain.ConflictCheck{
		Conflicts:      conflicts,
		SuggestedSlots: []domain.TimeRange{},
	}
	if len(conflicts) == 0 {
		return check, nil
	}

	check.HasConflict = true
	slots, err := s.suggester.SuggestSlots(ctx, ownerID, candidate, excludeEventID, s.slots.MaxResults, s.slots.Horizon, s.slots.Step)
	if err != nil {
		return nil, fmt.Errorf("suggest slots: %w", err)
	}
	// An empty suggestion list is a displayable outcome, not an error.
	check.SuggestedSlots = slots
	return check, nil
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event, allowConflicts bool) (*domain.ConflictCheck, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if event.OwnerID == "" {
		return nil, fmt.Errorf("%w: event owner is required", domain.ErrInvalidInput)
	}
	if err := event.Range().Validate(); err != nil {
		return nil, err
	}
	if event.Priority == "" {
		event.Priority = domain.PriorityMedium
	}
	if !domain.ValidPriority(event.Priority) {
		return nil, fmt.Errorf("%w: unknown priority %q", domain.ErrInvalidInput, event.Priority)
	}
	if err := event.Recurrence.Validate(); err != nil {
		return nil, err
	}

	check, err := s.CheckAvailability(ctx, event.OwnerID, event.Range(), nil)
	if err != nil {
		return nil, err
	}
	if check.HasConflict && !allowConflicts {
		return check, domain.ErrSchedulingConflict
	}

	event.ID = uuid.NewString()
	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.notifyMutation(ctx, domain.KindEventCreated, event, "Event created")
	return check, nil
}

func (s *eventService) GetEvent(ctx context.Context, ownerID, eventID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context, ownerID string, window *domain.TimeRange) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.EventsForOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if window != nil {
		if err := window.Validate(); err != nil {
			return nil, err
		}
		filtered := make([]*domain.Event, 0, len(events))
		for _, e := range events {
			if window.Overlaps(e.Range()) {
				filtered = append(filtered, e)
			}
		}
		events = filtered
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})
	return events, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, ownerID, eventID string, update domain.EventUpdate, allowConflicts bool) (*domain.Event, *domain.ConflictCheck, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("get event: %w", err)
	}
	if event.OwnerID != ownerID {
		return nil, nil, domain.ErrForbidden
	}

	applyUpdate(event, update)
	if err := event.Range().Validate(); err != nil {
		return nil, nil, err
	}
	if !domain.ValidPriority(event.Priority) {
		return nil, nil, fmt.Errorf("%w: unknown priority %q", domain.ErrInvalidInput, event.Priority)
	}
	if err := event.Recurrence.Validate(); err != nil {
		return nil, nil, err
	}

	// Re-check conflicts for the new range, excluding the event itself.
	check, err := s.CheckAvailability(ctx, ownerID, event.Range(), &event.ID)
	if err != nil {
		return nil, nil, err
	}
	if check.HasConflict && !allowConflicts {
		return nil, check, domain.ErrSchedulingConflict
	}

	event.UpdatedAt = time.Now()
	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("update event: %w", err)
	}

	s.notifyMutation(ctx, domain.KindEventUpdated, event, "Event updated")
	return event, check, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, ownerID, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if event.OwnerID != ownerID {
		return domain.ErrForbidden
	}

	// Removing the event also cancels its not-yet-fired reminders: the
	// engine reads the store snapshot each tick and will no longer see it.
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}

	s.notifyMutation(ctx, domain.KindEventDeleted, event, "Event deleted")
	return nil
}

// notifyMutation emits a created/updated/deleted notification. Delivery
// failures are logged and never fail the mutation itself.
func (s *eventService) notifyMutation(ctx context.Context, kind domain.NotificationKind, event *domain.Event, title string) {
	n := &domain.Notification{
		ID:        uuid.NewString(),
		OwnerID:   event.OwnerID,
		EventID:   event.ID,
		Kind:      kind,
		Title:     title,
		Message:   fmt.Sprintf("%s: %s", title, event.Title),
		Status:    domain.StatusUnread,
		CreatedAt: time.Now(),
	}
	if err := s.sink.Emit(ctx, n); err != nil {
		s.logger.ErrorContext(ctx, "mutation notification delivery failed",
			"kind", kind, "event_id", event.ID, "err", err)
	}
}

func applyUpdate(event *domain.Event, update domain.EventUpdate) {
	if update.Title != nil {
		event.Title = *update.Title
	}
	if update.Description != nil {
		event.Description = *update.Description
	}
	if update.Venue != nil {
		event.Venue = *update.Venue
	}
	if update.Priority != nil {
		event.Priority = *update.Priority
	}
	if update.Start != nil {
		event.Start = *update.Start
	}
	if update.End != nil {
		event.End = *update.End
	}
	if update.Recurrence != nil {
		event.Recurrence = *update.Recurrence
	}
}
