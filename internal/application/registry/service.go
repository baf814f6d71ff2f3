package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-push-api/internal/domain"
	"github.com/go-push-api/internal/pkg/id"
)

// Service is the push-token registry: it owns the mapping from user identity
// to current device push address.
type Service interface {
	// Register upserts the caller's registration and returns its id.
	// Self-registration only — userID must come from the authenticated claims.
	Register(ctx context.Context, userID string, req domain.RegisterTokenRequest) (string, error)
	// Lookup returns the user's current push address, or ErrNotRegistered.
	Lookup(ctx context.Context, userID string) (string, error)
	// ReverseLookup resolves a push address back to its registration.
	ReverseLookup(ctx context.Context, token string) (*domain.PushToken, error)
	// ListAll returns every registration (the broadcast snapshot).
	ListAll(ctx context.Context) ([]domain.PushToken, error)
}

type tokenStore interface {
	Put(ctx context.Context, t *domain.PushToken) error
	GetByUser(ctx context.Context, userID string) (*domain.PushToken, error)
	GetByToken(ctx context.Context, token string) (*domain.PushToken, error)
	Scan(ctx context.Context) ([]domain.PushToken, error)
}

type service struct {
	repo tokenStore
}

func NewService(repo tokenStore) Service {
	return &service{repo: repo}
}

func (s *service) Register(ctx context.Context, userID string, req domain.RegisterTokenRequest) (string, error) {
	regID := id.New()
	existing, err := s.repo.GetByUser(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}
	if existing != nil {
		// Token refresh from the same user: keep the registration identity.
		regID = existing.RegistrationID
	}
	t := &domain.PushToken{
		UserID:         userID,
		RegistrationID: regID,
		Token:          req.PushToken,
		DeviceType:     req.DeviceType,
		LastUpdated:    time.Now().UnixMilli(),
	}
	if err := s.repo.Put(ctx, t); err != nil {
		return "", err
	}
	return regID, nil
}

func (s *service) Lookup(ctx context.Context, userID string) (string, error) {
	t, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", fmt.Errorf("no push token for user %s: %w", userID, domain.ErrNotRegistered)
		}
		return "", err
	}
	return t.Token, nil
}

func (s *service) ReverseLookup(ctx context.Context, token string) (*domain.PushToken, error) {
	return s.repo.GetByToken(ctx, token)
}

func (s *service) ListAll(ctx context.Context) ([]domain.PushToken, error) {
	return s.repo.Scan(ctx)
}
