package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuzzLyutic/todo-list/internal/model"
)

const pgSchema = `
	CREATE TABLE IF NOT EXISTS todos (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)
`

type PGRepo struct { // Репозиторий для работы непосредственно с PostgreSQL
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewPGRepo(ctx context.Context, dsn string) (*PGRepo, error) {
	pool, err := pgxpool.New(ctx, dsn) // Создаем новое соединение к БД
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return NewPGRepoFromPool(pool), nil
}

func NewPGRepoFromPool(pool *pgxpool.Pool) *PGRepo { // Конструктор
	return &PGRepo{
		pool: pool,
		now:  clock,
	}
}

func (r *PGRepo) Migrate(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, pgSchema)
	return err
}

func (r *PGRepo) Close() {
	r.pool.Close()
}

func (r *PGRepo) Create(ctx context.Context, title string) (model.Task, error) {
	var t model.Task
	err := r.pool.QueryRow(ctx, `
		INSERT INTO todos (title, completed, created_at)
		VALUES ($1, FALSE, $2)
		RETURNING id, title, completed, created_at
	`, title, r.now()).Scan(
		&t.ID, &t.Title, &t.Completed, &t.CreatedAt,
	)
	return t, err
}

func (r *PGRepo) Get(ctx context.Context, id int64) (model.Task, error) {
	var t model.Task
	err := r.pool.QueryRow(ctx, `
		SELECT id, title, completed, created_at
		FROM todos
		WHERE id = $1
	`, id).Scan(
		&t.ID, &t.Title, &t.Completed, &t.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return t, ErrorNotFound
	}
	return t, err
}

func (r *PGRepo) List(ctx context.Context) ([]model.Task, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, completed, created_at
		FROM todos
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Completed, &t.CreatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, id int64, patch model.TaskPatch) (int64, error) {
	sets := make([]string, 0, 2)
	args := make([]any, 0, 3)
	if patch.Title != nil {
		args = append(args, *patch.Title)
		sets = append(sets, fmt.Sprintf("title = $%d", len(args)))
	}
	if patch.Completed != nil {
		args = append(args, *patch.Completed)
		sets = append(sets, fmt.Sprintf("completed = $%d", len(args)))
	}
	if len(sets) == 0 {
		return 0, errors.New("empty patch")
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE todos SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	if cmd.RowsAffected() == 0 {
		return 0, ErrorNotFound
	}
	return cmd.RowsAffected(), nil
}

func (r *PGRepo) Delete(ctx context.Context, id int64) (int64, error) {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM todos WHERE id = $1", id)
	if err != nil {
		return 0, err
	}
	if cmd.RowsAffected() == 0 {
		return 0, ErrorNotFound
	}
	return cmd.RowsAffected(), nil
}

func (r *PGRepo) Stats(ctx context.Context) (model.Stats, error) {
	var total, completed int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN completed THEN 1 ELSE 0 END), 0)
		FROM todos
	`).Scan(&total, &completed)
	if err != nil {
		return model.Stats{}, err
	}
	return model.NewStats(total, completed), nil
}

// clock отдает время с точностью до микросекунд: так его хранят все три БД.
func clock() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
