package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"itineraryplanner/internal/domain"
)

type notificationService struct {
	repo           domain.NotificationRepository
	contextTimeout time.Duration
}

// NewNotificationService returns the read/unread business logic over the
// given repository.
func NewNotificationService(repo domain.NotificationRepository, timeout time.Duration) domain.NotificationService {
	return &notificationService{repo: repo, contextTimeout: timeout}
}

func (s *notificationService) List(ctx context.Context, ownerID string, params domain.PaginationParams) ([]*domain.Notification, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	items, err := s.repo.ListByOwner(ctx, ownerID, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}
	total, err := s.repo.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}
	return items, total, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, ownerID string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	count, err := s.repo.CountUnreadByOwner(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

func (s *notificationService) MarkRead(ctx context.Context, ownerID, notificationID string) (*domain.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	n, err := s.repo.GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get notification: %w", err)
	}
	// Another owner's notification is indistinguishable from a missing one.
	if n.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	if n.Status == domain.StatusRead {
		return n, nil
	}

	readAt := time.Now()
	if err := s.repo.MarkRead(ctx, notificationID, readAt); err != nil {
		return nil, fmt.Errorf("mark notification read: %w", err)
	}
	n.Status = domain.StatusRead
	n.ReadAt = &readAt
	return n, nil
}
