package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/BuzzLyutic/todo-list/internal/model"
)

var (
	ErrorNotFound = errors.New("not found")
)

// TaskRepository определяет интерфейс для работы с задачами
type TaskRepository interface {
	Create(ctx context.Context, title string) (model.Task, error)
	Get(ctx context.Context, id int64) (model.Task, error)
	List(ctx context.Context) ([]model.Task, error)
	Update(ctx context.Context, id int64, patch model.TaskPatch) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	Stats(ctx context.Context) (model.Stats, error)
	Migrate(ctx context.Context) error
	Close()
}

// Open выбирает бэкенд по имени драйвера и создает таблицу todos.
func Open(ctx context.Context, driver, dsn string) (TaskRepository, error) {
	var (
		r   TaskRepository
		err error
	)
	switch driver {
	case "sqlite", "sqlite3", "":
		r, err = NewSQLRepo(SQLite, dsn)
	case "mysql":
		r, err = NewSQLRepo(MySQL, dsn)
	case "postgres", "pgx":
		r, err = NewPGRepo(ctx, dsn)
	default:
		return nil, fmt.Errorf("unknown driver %q", driver)
	}
	if err != nil {
		return nil, err
	}

	if err := r.Migrate(ctx); err != nil {
		r.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return r, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
