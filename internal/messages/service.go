package messages

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Notifier delivers a notification about a new message, typically by
// enqueueing an email job.
type Notifier interface {
	NotifyContact(ctx context.Context, msg *Message) error
}

// Service wraps contact message business rules.
type Service struct {
	repo     Repository
	notifier Notifier
	logger   *slog.Logger
}

// NewService constructs a new Service. notifier may be nil; submission then
// only records the message.
func NewService(repo Repository, notifier Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, notifier: notifier, logger: logger}
}

// Submit stores a new message and notifies the site owner. Notification is
// best effort: the submission succeeds once the row is written.
func (s *Service) Submit(ctx context.Context, name, email, subject, body string) (*Message, error) {
	msg := &Message{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Subject:   subject,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, msg); err != nil {
		return nil, err
	}
	if s.notifier != nil {
		if err := s.notifier.NotifyContact(ctx, msg); err != nil {
			s.logger.Warn("notify contact", slog.String("message_id", msg.ID), slog.Any("error", err))
		}
	}
	return msg, nil
}

// List returns all stored messages.
func (s *Service) List(ctx context.Context) ([]Message, error) {
	return s.repo.List(ctx)
}

// Delete removes a message.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
