package service

import (
	"context"
	"errors"
	"strings"

	"github.com/BuzzLyutic/todo-list/internal/model"
	"github.com/BuzzLyutic/todo-list/internal/repo"
)

var (
	ErrValidation = errors.New("validation error")
)

// ValidationError несет текст, который уходит клиенту с кодом 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(msg string) error { return &ValidationError{Message: msg} }

type TaskService struct {
	repo repo.TaskRepository
}

func NewTaskService(repo repo.TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

func (s *TaskService) Create(ctx context.Context, title string) (model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" { // Сервер проверяет заново, даже если клиент уже проверил
		return model.Task{}, invalid("title is required")
	}
	return s.repo.Create(ctx, title)
}

func (s *TaskService) Get(ctx context.Context, id int64) (model.Task, error) {
	return s.repo.Get(ctx, id)
}

func (s *TaskService) List(ctx context.Context) ([]model.Task, error) {
	return s.repo.List(ctx)
}

func (s *TaskService) Update(ctx context.Context, id int64, patch model.TaskPatch) (int64, error) {
	if patch.Empty() {
		return 0, invalid("nothing to update")
	}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return 0, invalid("title must not be empty")
		}
		patch.Title = &title
	}
	return s.repo.Update(ctx, id, patch)
}

func (s *TaskService) Delete(ctx context.Context, id int64) (int64, error) {
	return s.repo.Delete(ctx, id)
}

func (s *TaskService) Stats(ctx context.Context) (model.Stats, error) {
	return s.repo.Stats(ctx)
}
