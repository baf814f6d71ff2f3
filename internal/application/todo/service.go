package todo

import (
	"context"
	"sort"
	"time"

	"github.com/go-push-api/internal/domain"
	"github.com/go-push-api/internal/pkg/id"
)

type Service interface {
	List(ctx context.Context) ([]domain.Todo, error)
	Add(ctx context.Context, req domain.CreateTodoRequest) (*domain.Todo, error)
}

type todoStore interface {
	Put(ctx context.Context, t *domain.Todo) error
	Scan(ctx context.Context) ([]domain.Todo, error)
}

type service struct {
	repo todoStore
}

func NewService(repo todoStore) Service {
	return &service{repo: repo}
}

// List returns all todos, newest first.
func (s *service) List(ctx context.Context) ([]domain.Todo, error) {
	todos, err := s.repo.Scan(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(todos, func(i, j int) bool { return todos[i].CreatedAt > todos[j].CreatedAt })
	return todos, nil
}

func (s *service) Add(ctx context.Context, req domain.CreateTodoRequest) (*domain.Todo, error) {
	t := &domain.Todo{
		TodoID:    id.New(),
		Text:      req.Text,
		Completed: false,
		CreatedAt: time.Now().UnixMilli(),
	}
	if err := s.repo.Put(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}
