package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-push-api/internal/domain"
	"github.com/go-push-api/internal/pkg/id"
)

// Service dumps the notification log to object storage for offline audit.
type Service interface {
	// Export uploads the log for one recipient, or the whole log when
	// recipientID is empty. Returns the object key and record count.
	Export(ctx context.Context, recipientID string) (string, int, error)
}

type notificationStore interface {
	ListByRecipient(ctx context.Context, recipientID string, limit int32) ([]domain.Notification, error)
	Scan(ctx context.Context) ([]domain.Notification, error)
}

type objectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}

type service struct {
	repo  notificationStore
	store objectStore
}

func NewService(repo notificationStore, store objectStore) Service {
	return &service{repo: repo, store: store}
}

func (s *service) Export(ctx context.Context, recipientID string) (string, int, error) {
	var (
		records []domain.Notification
		err     error
	)
	if recipientID == "" {
		records, err = s.repo.Scan(ctx)
	} else {
		records, err = s.repo.ListByRecipient(ctx, recipientID, 0)
	}
	if err != nil {
		return "", 0, err
	}

	payload, err := json.Marshal(records)
	if err != nil {
		return "", 0, fmt.Errorf("marshal export: %w", err)
	}

	key := fmt.Sprintf("notification-exports/%s.json", id.New())
	if _, err := s.store.Upload(ctx, key, bytes.NewReader(payload), "application/json"); err != nil {
		return "", 0, err
	}
	return key, len(records), nil
}
