package postgres

import (
	"context"
	"database/sql"
	"time"

	"itineraryplanner/internal/reminder"
)

type firedReminderRepository struct {
	DB *sql.DB
}

// NewFiredReminderRepository returns a reminder.FiredSet backed by Postgres.
// The insert-if-absent semantics come from ON CONFLICT DO NOTHING, so several
// engine replicas sharing the table never fire the same occurrence twice.
func NewFiredReminderRepository(db *sql.DB) reminder.FiredSet {
	return &firedReminderRepository{DB: db}
}

func (r *firedReminderRepository) Add(ctx context.Context, key reminder.Key) (bool, error) {
	query := `
		INSERT INTO fired_reminders (event_id, occurs_at, fired_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (event_id, occurs_at) DO NOTHING
	`
	result, err := r.DB.ExecContext(ctx, query, key.EventID, key.OccursAt)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *firedReminderRepository) Prune(ctx context.Context, cutoff time.Time) error {
	query := `DELETE FROM fired_reminders WHERE occurs_at < $1`
	_, err := r.DB.ExecContext(ctx, query, cutoff)
	return err
}
