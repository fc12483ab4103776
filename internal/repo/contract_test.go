package repo

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuzzLyutic/todo-list/internal/model"
)

func ptr[T any](v T) *T { return &v }

// runContract прогоняет одинаковые проверки для любого бэкенда.
// newRepo должен возвращать репозиторий с пустой таблицей todos.
func runContract(t *testing.T, newRepo func(t *testing.T) TaskRepository) {
	ctx := context.Background()

	t.Run("create assigns ascending ids and defaults", func(t *testing.T) {
		r := newRepo(t)

		var prev int64
		for i := 0; i < 5; i++ {
			task, err := r.Create(ctx, fmt.Sprintf("Task %d", i))
			require.NoError(t, err)
			assert.Greater(t, task.ID, prev)
			assert.False(t, task.Completed)
			assert.False(t, task.CreatedAt.IsZero())
			prev = task.ID
		}
	})

	t.Run("round trip", func(t *testing.T) {
		r := newRepo(t)
		start := time.Now().UTC().Truncate(time.Microsecond)

		created, err := r.Create(ctx, "Buy milk")
		require.NoError(t, err)

		got, err := r.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "Buy milk", got.Title)
		assert.False(t, got.Completed)
		assert.False(t, got.CreatedAt.Before(start), "created_at %v is before %v", got.CreatedAt, start)
	})

	t.Run("get missing", func(t *testing.T) {
		r := newRepo(t)

		_, err := r.Get(ctx, 99999)
		assert.ErrorIs(t, err, ErrorNotFound)
	})

	t.Run("list newest first", func(t *testing.T) {
		r := newRepo(t)

		for i := 0; i < 4; i++ {
			_, err := r.Create(ctx, fmt.Sprintf("Task %d", i))
			require.NoError(t, err)
		}

		tasks, err := r.List(ctx)
		require.NoError(t, err)
		require.Len(t, tasks, 4)
		for i := 1; i < len(tasks); i++ {
			assert.False(t, tasks[i].CreatedAt.After(tasks[i-1].CreatedAt))
			assert.Less(t, tasks[i].ID, tasks[i-1].ID)
		}
	})

	t.Run("list empty is not nil", func(t *testing.T) {
		r := newRepo(t)

		tasks, err := r.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)
	})

	t.Run("update applies only supplied fields", func(t *testing.T) {
		r := newRepo(t)
		created, err := r.Create(ctx, "Original")
		require.NoError(t, err)

		n, err := r.Update(ctx, created.ID, model.TaskPatch{Completed: ptr(true)})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		got, err := r.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Original", got.Title)
		assert.True(t, got.Completed)

		n, err = r.Update(ctx, created.ID, model.TaskPatch{Title: ptr("Renamed")})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		got, err = r.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Title)
		assert.True(t, got.Completed)
		assert.Equal(t, created.CreatedAt.Unix(), got.CreatedAt.Unix())
	})

	t.Run("update to the same value still counts", func(t *testing.T) {
		r := newRepo(t)
		created, err := r.Create(ctx, "Same")
		require.NoError(t, err)

		n, err := r.Update(ctx, created.ID, model.TaskPatch{Completed: ptr(false)})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("update and delete missing", func(t *testing.T) {
		r := newRepo(t)

		n, err := r.Update(ctx, 99999, model.TaskPatch{Completed: ptr(true)})
		assert.ErrorIs(t, err, ErrorNotFound)
		assert.Zero(t, n)

		n, err = r.Delete(ctx, 99999)
		assert.ErrorIs(t, err, ErrorNotFound)
		assert.Zero(t, n)
	})

	t.Run("delete", func(t *testing.T) {
		r := newRepo(t)
		created, err := r.Create(ctx, "To Delete")
		require.NoError(t, err)

		n, err := r.Delete(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		_, err = r.Get(ctx, created.ID)
		assert.ErrorIs(t, err, ErrorNotFound)
	})

	t.Run("stats", func(t *testing.T) {
		r := newRepo(t)

		stats, err := r.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, model.Stats{}, stats)

		ids := make([]int64, 0, 5)
		for i := 0; i < 5; i++ {
			task, err := r.Create(ctx, fmt.Sprintf("Task %d", i))
			require.NoError(t, err)
			ids = append(ids, task.ID)
		}
		_, err = r.Update(ctx, ids[0], model.TaskPatch{Completed: ptr(true)})
		require.NoError(t, err)
		_, err = r.Update(ctx, ids[1], model.TaskPatch{Completed: ptr(true)})
		require.NoError(t, err)
		_, err = r.Delete(ctx, ids[4])
		require.NoError(t, err)

		stats, err = r.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, stats.Total)
		assert.Equal(t, 2, stats.Completed)
		assert.Equal(t, 2, stats.Active)
		assert.Equal(t, stats.Total, stats.Active+stats.Completed)
	})

	t.Run("concurrent creates get distinct ids", func(t *testing.T) {
		r := newRepo(t)

		const goroutines = 10
		var wg sync.WaitGroup
		results := make([]model.Task, goroutines)
		errs := make([]error, goroutines)

		for i := 0; i < goroutines; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				results[idx], errs[idx] = r.Create(ctx, fmt.Sprintf("Concurrent Task %d", idx))
			}(i)
		}
		wg.Wait()

		seen := make(map[int64]bool, goroutines)
		for i, err := range errs {
			require.NoError(t, err, "request %d should not error", i)
			assert.False(t, seen[results[i].ID], "id %d issued twice", results[i].ID)
			seen[results[i].ID] = true
		}

		all, err := r.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, goroutines)
	})
}
