package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"

	"github.com/BuzzLyutic/todo-list/internal/model"
)

// Dialect describes a database/sql backend. SQLite and MySQL share the "?"
// placeholder syntax, so only the driver name and the DDL differ.
type Dialect struct {
	Name   string
	Driver string
	Schema string
	// DefaultDSN is used when the configured DSN is empty.
	DefaultDSN string
}

var (
	SQLite = Dialect{
		Name:   "sqlite",
		Driver: "sqlite3",
		Schema: `CREATE TABLE IF NOT EXISTS todos (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	completed INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
		DefaultDSN: "todos.db",
	}

	MySQL = Dialect{
		Name:   "mysql",
		Driver: "mysql",
		Schema: `CREATE TABLE IF NOT EXISTS todos (
	id BIGINT PRIMARY KEY AUTO_INCREMENT,
	title TEXT NOT NULL,
	completed TINYINT(1) NOT NULL DEFAULT 0,
	created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6)
)`,
		DefaultDSN: "root:root@tcp(127.0.0.1:3306)/todos",
	}
)

type SQLRepo struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

func NewSQLRepo(d Dialect, dsn string) (*SQLRepo, error) {
	if dsn == "" {
		dsn = d.DefaultDSN
	}
	if d.Driver == MySQL.Driver {
		var err error
		if dsn, err = mysqlDSN(dsn); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open(d.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.Name, err)
	}
	if d.Driver == SQLite.Driver {
		// один писатель на файл
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", d.Name, err)
	}

	return &SQLRepo{db: db, dialect: d, now: clock}, nil
}

// mysqlDSN forces the options the repo relies on: DATETIME scanned as
// time.Time, and RowsAffected counting matched rather than changed rows so
// that an update to the same value is not mistaken for a missing id.
func mysqlDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.ClientFoundRows = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN(), nil
}

func (r *SQLRepo) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, r.dialect.Schema)
	return err
}

func (r *SQLRepo) Close() {
	r.db.Close()
}

func (r *SQLRepo) Create(ctx context.Context, title string) (model.Task, error) {
	t := model.Task{Title: title, CreatedAt: r.now()}

	res, err := r.db.ExecContext(ctx,
		"INSERT INTO todos (title, completed, created_at) VALUES (?, 0, ?)",
		t.Title, t.CreatedAt,
	)
	if err != nil {
		return model.Task{}, err
	}
	if t.ID, err = res.LastInsertId(); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

func (r *SQLRepo) Get(ctx context.Context, id int64) (model.Task, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, title, completed, created_at FROM todos WHERE id = ?", id)

	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return t, ErrorNotFound
	}
	return t, err
}

func (r *SQLRepo) List(ctx context.Context) ([]model.Task, error) {
	rows, err := r.db.QueryContext(ctx, `
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
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *SQLRepo) Update(ctx context.Context, id int64, patch model.TaskPatch) (int64, error) {
	sets := make([]string, 0, 2)
	args := make([]any, 0, 3)
	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Completed != nil {
		sets = append(sets, "completed = ?")
		args = append(args, boolToInt(*patch.Completed))
	}
	if len(sets) == 0 {
		return 0, errors.New("empty patch")
	}
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, "UPDATE todos SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return 0, err
	}
	return affected(res)
}

func (r *SQLRepo) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM todos WHERE id = ?", id)
	if err != nil {
		return 0, err
	}
	return affected(res)
}

func (r *SQLRepo) Stats(ctx context.Context) (model.Stats, error) {
	var total, completed int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(completed), 0) FROM todos",
	).Scan(&total, &completed)
	if err != nil {
		return model.Stats{}, err
	}
	return model.NewStats(int(total), int(completed)), nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanTask переводит хранимые 0/1 в bool.
func scanTask(s scanner) (model.Task, error) {
	var (
		t         model.Task
		completed int64
	)
	if err := s.Scan(&t.ID, &t.Title, &completed, &t.CreatedAt); err != nil {
		return model.Task{}, err
	}
	t.Completed = completed != 0
	t.CreatedAt = t.CreatedAt.UTC()
	return t, nil
}

func affected(res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrorNotFound
	}
	return n, nil
}
