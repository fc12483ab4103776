package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/todo-list/internal/handler"
	"github.com/BuzzLyutic/todo-list/internal/model"
	"github.com/BuzzLyutic/todo-list/internal/repo"
	"github.com/BuzzLyutic/todo-list/internal/service"
	"github.com/BuzzLyutic/todo-list/internal/testutil"
)

func setupClient(t *testing.T) *Client {
	t.Helper()
	taskRepo, err := repo.Open(context.Background(), "sqlite", testutil.SQLitePath(t))
	require.NoError(t, err)

	srv := service.NewTaskService(taskRepo)
	server := httptest.NewServer(handler.NewRouter(handler.NewTaskHandler(srv, zap.NewNop()), nil))
	t.Cleanup(func() {
		server.Close()
		taskRepo.Close()
	})
	return New(server.URL+"/api/", server.Client())
}

func TestClient_CRUD(t *testing.T) {
	c := setupClient(t)
	ctx := context.Background()
	start := time.Now().UTC().Truncate(time.Microsecond)

	created, err := c.Create(ctx, "Buy milk")
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, 0, created.Completed)
	assert.Equal(t, "Task created", created.Message)

	task, err := c.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", task.Title)
	assert.False(t, task.Completed)
	assert.False(t, task.CreatedAt.Before(start))

	completed := true
	changes, err := c.Update(ctx, created.ID, model.TaskPatch{Completed: &completed})
	require.NoError(t, err)
	assert.Equal(t, int64(1), changes)

	tasks, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].Completed)

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Stats{Total: 1, Completed: 1, Active: 0}, stats)

	require.NoError(t, c.Delete(ctx, created.ID))

	_, err = c.Get(ctx, created.ID)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.Code)
}

func TestClient_NonSuccessIsUniform(t *testing.T) {
	c := setupClient(t)
	ctx := context.Background()

	_, err := c.Create(ctx, "   ")
	assert.ErrorIs(t, err, ErrUnexpectedStatus)

	_, err = c.Update(ctx, 1, model.TaskPatch{})
	assert.ErrorIs(t, err, ErrUnexpectedStatus)

	err = c.Delete(ctx, 12345)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := New(url+"/api", nil).List(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnexpectedStatus))
}

func TestClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"database is locked"}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := New(server.URL+"/api", nil).List(context.Background())
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.EqualError(t, err, "GET /todos: HTTP 500")
}
