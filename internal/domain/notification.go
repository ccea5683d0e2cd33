package domain

import (
	"context"
	"time"
)

// NotificationKind identifies what a notification is about.
type NotificationKind string

const (
	KindEventReminder NotificationKind = "event_reminder"
	KindEventCreated  NotificationKind = "event_created"
	KindEventUpdated  NotificationKind = "event_updated"
	KindEventDeleted  NotificationKind = "event_deleted"
)

// NotificationStatus is the read state of a notification. The transition
// unread -> read is one-way.
type NotificationStatus string

const (
	StatusUnread NotificationStatus = "unread"
	StatusRead   NotificationStatus = "read"
)

// Notification is a single alert delivered to an owner. EventID is a
// back-reference to the originating event, not ownership: deleting the event
// does not retract notifications already emitted.
// swagger:model Notification
type Notification struct {
	ID        string             `json:"id"`
	OwnerID   string             `json:"owner_id"`
	EventID   string             `json:"event_id"`
	Kind      NotificationKind   `json:"kind"`
	Title     string             `json:"title"`
	Message   string             `json:"message"`
	Status    NotificationStatus `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
	ReadAt    *time.Time         `json:"read_at,omitempty"`
}

// NotificationSink is the delivery interface the engine and event service
// emit through. Implementations may persist, push, or fan out; a returned
// error is treated as non-fatal by callers (logged, not retried).
type NotificationSink interface {
	Emit(ctx context.Context, n *Notification) error
}

// NotificationRepository defines the interface for notification storage.
type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	GetByID(ctx context.Context, id string) (*Notification, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*Notification, error)
	CountByOwner(ctx context.Context, ownerID string) (int, error)
	CountUnreadByOwner(ctx context.Context, ownerID string) (int, error)
	// MarkRead transitions the notification to read and sets read_at. It is
	// a no-op for an already-read notification.
	MarkRead(ctx context.Context, id string, readAt time.Time) error
}

// NotificationService defines the read/unread business logic exposed to the
// UI layer.
type NotificationService interface {
	List(ctx context.Context, ownerID string, params PaginationParams) ([]*Notification, int, error)
	UnreadCount(ctx context.Context, ownerID string) (int, error)
	// MarkRead transitions unread -> read. Marking an already-read
	// notification returns the current state without error.
	MarkRead(ctx context.Context, ownerID, notificationID string) (*Notification, error)
}

// Mailer sends email. Implementations may use SES or a no-op for development.
type Mailer interface {
	Send(to, subject, html, text string) error
}
