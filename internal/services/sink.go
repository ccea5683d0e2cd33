package services

import (
	"context"
	"errors"
	"fmt"

	"itineraryplanner/internal/domain"
)

type storeSink struct {
	repo domain.NotificationRepository
}

// NewStoreSink returns a NotificationSink that persists every notification.
func NewStoreSink(repo domain.NotificationRepository) domain.NotificationSink {
	return &storeSink{repo: repo}
}

func (s *storeSink) Emit(ctx context.Context, n *domain.Notification) error {
	if err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("persist notification: %w", err)
	}
	return nil
}

type emailSink struct {
	mailer domain.Mailer
	users  domain.UserRepository
}

// NewEmailSink returns a NotificationSink that pushes reminder notifications
// to the owner's email address. Non-reminder kinds are ignored.
func NewEmailSink(mailer domain.Mailer, users domain.UserRepository) domain.NotificationSink {
	return &emailSink{mailer: mailer, users: users}
}

func (s *emailSink) Emit(ctx context.Context, n *domain.Notification) error {
	if n.Kind != domain.KindEventReminder {
		return nil
	}
	user, err := s.users.GetByID(ctx, n.OwnerID)
	if err != nil {
		return fmt.Errorf("resolve notification recipient: %w", err)
	}
	if err := s.mailer.Send(user.Email, n.Title, "", n.Message); err != nil {
		return fmt.Errorf("send reminder email: %w", err)
	}
	return nil
}

type fanoutSink struct {
	sinks []domain.NotificationSink
}

// NewFanoutSink returns a NotificationSink that delivers to every sink.
// All sinks are attempted even when one fails; errors are joined.
func NewFanoutSink(sinks ...domain.NotificationSink) domain.NotificationSink {
	return &fanoutSink{sinks: sinks}
}

func (s *fanoutSink) Emit(ctx context.Context, n *domain.Notification) error {
	var errs []error
	for _, sink := range s.sinks {
		if err := sink.Emit(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
