package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-push-api/internal/domain"
)

// listLimit caps ListMine. Older records past the cap are invisible to the
// listing — there is no pagination cursor.
const listLimit = 50

// Service is the recipient-facing view of the notification log: listing,
// read marking, and the derived unread count.
type Service interface {
	ListMine(ctx context.Context, userID string) ([]domain.Notification, error)
	MarkRead(ctx context.Context, notificationID, userID string) error
	UnreadCount(ctx context.Context, userID string) (int, error)
}

type notificationStore interface {
	Get(ctx context.Context, notificationID string) (*domain.Notification, error)
	ListByRecipient(ctx context.Context, recipientID string, limit int32) ([]domain.Notification, error)
	MarkRead(ctx context.Context, notificationID string, readAt int64) error
}

type service struct {
	repo notificationStore
}

func NewService(repo notificationStore) Service {
	return &service{repo: repo}
}

func (s *service) ListMine(ctx context.Context, userID string) ([]domain.Notification, error) {
	return s.repo.ListByRecipient(ctx, userID, listLimit)
}

// MarkRead stamps the record with the current time. A missing record and a
// record owned by someone else produce the same error, so callers cannot
// probe for the existence of other users' notifications.
func (s *service) MarkRead(ctx context.Context, notificationID, userID string) error {
	n, err := s.repo.Get(ctx, notificationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("notification not found or unauthorized: %w", domain.ErrNotFound)
		}
		return err
	}
	if n.RecipientID != userID {
		return fmt.Errorf("notification not found or unauthorized: %w", domain.ErrNotFound)
	}
	return s.repo.MarkRead(ctx, notificationID, time.Now().UnixMilli())
}

// UnreadCount walks all of the caller's records and counts the unread ones.
// No counter is maintained; record counts per user stay small.
func (s *service) UnreadCount(ctx context.Context, userID string) (int, error) {
	all, err := s.repo.ListByRecipient(ctx, userID, 0)
	if err != nil {
		return 0, err
	}
	count := 0
	for i := range all {
		if all[i].Unread() {
			count++
		}
	}
	return count, nil
}
