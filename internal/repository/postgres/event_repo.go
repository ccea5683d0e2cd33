package postgres

import (
	"context"
	"database/sql"
	"errors"

	"itineraryplanner/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

const eventColumns = `id, owner_id, title, description, venue, priority, start_time, end_time,
		recurrence_unit, recurrence_multiplier, recurrence_end, created_at, updated_at`

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (id, owner_id, title, description, venue, priority, start_time, end_time,
			recurrence_unit, recurrence_multiplier, recurrence_end, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	var recurrenceEnd sql.NullTime
	if e.Recurrence.EndDate != nil {
		recurrenceEnd = sql.NullTime{Time: *e.Recurrence.EndDate, Valid: true}
	}
	_, err := r.DB.ExecContext(ctx, query,
		e.ID, e.OwnerID, e.Title, e.Description, e.Venue, string(e.Priority), e.Start, e.End,
		string(e.Recurrence.Unit), e.Recurrence.Multiplier, recurrenceEnd, e.CreatedAt, e.UpdatedAt,
	)
	return err
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1
	`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) EventsForOwner(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE owner_id = $1
		ORDER BY start_time ASC, id ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events
		SET title = $2, description = $3, venue = $4, priority = $5, start_time = $6, end_time = $7,
			recurrence_unit = $8, recurrence_multiplier = $9, recurrence_end = $10, updated_at = $11
		WHERE id = $1
	`
	var recurrenceEnd sql.NullTime
	if e.Recurrence.EndDate != nil {
		recurrenceEnd = sql.NullTime{Time: *e.Recurrence.EndDate, Valid: true}
	}
	result, err := r.DB.ExecContext(ctx, query,
		e.ID, e.Title, e.Description, e.Venue, string(e.Priority), e.Start, e.End,
		string(e.Recurrence.Unit), e.Recurrence.Multiplier, recurrenceEnd, e.UpdatedAt,
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var unit string
	var recurrenceEnd sql.NullTime
	err := row.Scan(
		&e.ID, &e.OwnerID, &e.Title, &e.Description, &e.Venue, &e.Priority, &e.Start, &e.End,
		&unit, &e.Recurrence.Multiplier, &recurrenceEnd, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Recurrence.Unit = domain.RecurrenceUnit(unit)
	if recurrenceEnd.Valid {
		e.Recurrence.EndDate = &recurrenceEnd.Time
	}
	return e, nil
}
