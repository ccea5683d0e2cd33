package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"itineraryplanner/internal/domain"
)

type notificationRepository struct {
	DB *sql.DB
}

func NewNotificationRepository(db *sql.DB) domain.NotificationRepository {
	return &notificationRepository{DB: db}
}

const notificationColumns = `id, owner_id, event_id, kind, title, message, status, created_at, read_at`

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (id, owner_id, event_id, kind, title, message, status, created_at, read_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	var readAt sql.NullTime
	if n.ReadAt != nil {
		readAt = sql.NullTime{Time: *n.ReadAt, Valid: true}
	}
	_, err := r.DB.ExecContext(ctx, query,
		n.ID, n.OwnerID, n.EventID, string(n.Kind), n.Title, n.Message, string(n.Status), n.CreatedAt, readAt,
	)
	return err
}

func (r *notificationRepository) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE id = $1
	`
	n, err := scanNotification(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return n, nil
}

func (r *notificationRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	notifications := make([]*domain.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *notificationRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	query := `SELECT COUNT(*) FROM notifications WHERE owner_id = $1`
	var count int
	if err := r.DB.QueryRowContext(ctx, query, ownerID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *notificationRepository) CountUnreadByOwner(ctx context.Context, ownerID string) (int, error) {
	query := `SELECT COUNT(*) FROM notifications WHERE owner_id = $1 AND status = 'unread'`
	var count int
	if err := r.DB.QueryRowContext(ctx, query, ownerID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id string, readAt time.Time) error {
	query := `
		UPDATE notifications
		SET status = 'read', read_at = $2
		WHERE id = $1 AND status <> 'read'
	`
	result, err := r.DB.ExecContext(ctx, query, id, readAt)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows > 0 {
		return nil
	}
	// Either missing or already read; a second lookup tells them apart.
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return nil
}

func scanNotification(row rowScanner) (*domain.Notification, error) {
	n := &domain.Notification{}
	var readAt sql.NullTime
	err := row.Scan(
		&n.ID, &n.OwnerID, &n.EventID, &n.Kind, &n.Title, &n.Message, &n.Status, &n.CreatedAt, &readAt,
	)
	if err != nil {
		return nil, err
	}
	if readAt.Valid {
		n.ReadAt = &readAt.Time
	}
	return n, nil
}
