// Package reminder owns the notification lifecycle: deciding on each tick
// which upcoming events have entered their alert window, firing each
// (event, occurrence) pair at most once, and driving ticks from a timer in
// production. Ticks take an explicit now so tests never sleep.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"itineraryplanner/internal/domain"
	"itineraryplanner/internal/scheduling"
)

// Engine evaluates watched owners' events once per tick and emits one
// event_reminder notification per newly eligible (event, occurrence) pair.
type Engine struct {
	store          domain.EventStore
	sink           domain.NotificationSink
	fired          FiredSet
	lead           time.Duration
	maxOccurrences int
	logger         *slog.Logger

	mu      sync.Mutex
	watched map[string]struct{}
}

// NewEngine returns an Engine with the given collaborators. lead is the
// duration before an occurrence during which its reminder is eligible;
// maxOccurrences caps recurrence expansion per event.
func NewEngine(store domain.EventStore, sink domain.NotificationSink, fired FiredSet, lead time.Duration, maxOccurrences int, logger *slog.Logger) *Engine {
	return &Engine{
		store:          store,
		sink:           sink,
		fired:          fired,
		lead:           lead,
		maxOccurrences: maxOccurrences,
		logger:         logger,
		watched:        make(map[string]struct{}),
	}
}

// Watch registers an owner for reminder evaluation. Called when a client
// session starts.
func (e *Engine) Watch(ownerID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.watched[ownerID] = struct{}{}
}

// Unwatch removes an owner from reminder evaluation. Called when the session
// ends; already-fired state is kept so a re-watch does not double-fire.
func (e *Engine) Unwatch(ownerID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.watched, ownerID)
}

// Watched returns the watched owner IDs sorted ascending.
func (e *Engine) Watched() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	owners := make([]string, 0, len(e.watched))
	for id := range e.watched {
		owners = append(owners, id)
	}
	sort.Strings(owners)
	return owners
}

// Tick runs one evaluation pass at the given instant and returns the number
// of reminders fired. Owners are visited in sorted order and events by start
// time ascending, so emission order is deterministic. A failed store read or
// delivery is logged and never halts the rest of the tick; a FiredSet entry
// is never rolled back after a delivery failure.
func (e *Engine) Tick(ctx context.Context, now time.Time) int {
	fired := 0
	for _, ownerID := range e.Watched() {
		events, err := e.store.EventsForOwner(ctx, ownerID)
		if err != nil {
			e.logger.ErrorContext(ctx, "tick: listing events failed", "owner_id", ownerID, "err", err)
			continue
		}
		sort.SliceStable(events, func(i, j int) bool {
			if events[i].Start.Equal(events[j].Start) {
				return events[i].ID < events[j].ID
			}
			return events[i].Start.Before(events[j].Start)
		})
		for _, ev := range events {
			fired += e.fireDue(ctx, ev, now)
		}
	}

	if err := e.fired.Prune(ctx, now.Add(-e.lead)); err != nil {
		e.logger.ErrorContext(ctx, "tick: pruning fired set failed", "err", err)
	}
	return fired
}

// fireDue emits a reminder for every trigger instant of the event that falls
// within [now, now+lead] and has not fired yet.
func (e *Engine) fireDue(ctx context.Context, ev *domain.Event, now time.Time) int {
	fired := 0
	deadline := now.Add(e.lead)
	for _, occursAt := range e.triggersWithin(ctx, ev, now, deadline) {
		inserted, err := e.fired.Add(ctx, Key{EventID: ev.ID, OccursAt: occursAt})
		if err != nil {
			e.logger.ErrorContext(ctx, "tick: fired-set insert failed", "event_id", ev.ID, "err", err)
			continue
		}
		if !inserted {
			continue
		}
		fired++

		n := &domain.Notification{
			ID:        uuid.NewString(),
			OwnerID:   ev.OwnerID,
			EventID:   ev.ID,
			Kind:      domain.KindEventReminder,
			Title:     "Starting soon: " + ev.Title,
			Message:   fmt.Sprintf("%s starts at %s", ev.Title, occursAt.Format(time.RFC1123)),
			Status:    domain.StatusUnread,
			CreatedAt: now,
		}
		if err := e.sink.Emit(ctx, n); err != nil {
			// At-most-once beats duplicate alert storms: the fired-set
			// entry stays even though this delivery was lost.
			e.logger.ErrorContext(ctx, "tick: reminder delivery failed",
				"event_id", ev.ID, "owner_id", ev.OwnerID, "occurs_at", occursAt, "err", err)
		}
	}
	return fired
}

// triggersWithin returns the event's trigger instants inside [now, deadline].
// Recurring events are expanded lazily from the event start; the expansion is
// abandoned as soon as it passes the deadline.
func (e *Engine) triggersWithin(ctx context.Context, ev *domain.Event, now, deadline time.Time) []time.Time {
	if ev.Recurrence.IsNone() {
		if !ev.Start.Before(now) && !ev.Start.After(deadline) {
			return []time.Time{ev.Start}
		}
		return nil
	}

	seq, err := scheduling.Expand(ev.Recurrence, ev.Start, e.maxOccurrences)
	if err != nil {
		e.logger.WarnContext(ctx, "tick: recurrence expansion failed, falling back to event start",
			"event_id", ev.ID, "err", err)
		if !ev.Start.Before(now) && !ev.Start.After(deadline) {
			return []time.Time{ev.Start}
		}
		return nil
	}

	var due []time.Time
	for {
		occursAt, ok := seq.Next()
		if !ok || occursAt.After(deadline) {
			return due
		}
		if occursAt.Before(now) {
			continue
		}
		due = append(due, occursAt)
	}
}
