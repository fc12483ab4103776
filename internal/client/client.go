// Package client talks to the todo API over HTTP/JSON.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/BuzzLyutic/todo-list/internal/model"
)

// ErrUnexpectedStatus matches every non-2xx response.
var ErrUnexpectedStatus = errors.New("unexpected status")

// StatusError carries the status of a failed call. The body is not read:
// callers treat every failure the same way.
type StatusError struct {
	Method string
	Path   string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.Path, e.Code)
}

func (e *StatusError) Unwrap() error { return ErrUnexpectedStatus }

type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for the API rooted at baseURL, e.g.
// "http://localhost:8080/api". A nil hc means http.DefaultClient.
func New(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

type taskJSON struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Completed int       `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

func (t taskJSON) model() model.Task {
	return model.Task{ID: t.ID, Title: t.Title, Completed: t.Completed != 0, CreatedAt: t.CreatedAt}
}

// Created is the body of a successful create.
type Created struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Completed int    `json:"completed"`
	Message   string `json:"message"`
}

func (c *Client) List(ctx context.Context) ([]model.Task, error) {
	var raw []taskJSON
	if err := c.do(ctx, http.MethodGet, "/todos", nil, &raw); err != nil {
		return nil, err
	}
	tasks := make([]model.Task, 0, len(raw))
	for _, t := range raw {
		tasks = append(tasks, t.model())
	}
	return tasks, nil
}

func (c *Client) Get(ctx context.Context, id int64) (model.Task, error) {
	var raw taskJSON
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/todos/%d", id), nil, &raw); err != nil {
		return model.Task{}, err
	}
	return raw.model(), nil
}

func (c *Client) Create(ctx context.Context, title string) (Created, error) {
	var out Created
	err := c.do(ctx, http.MethodPost, "/todos", map[string]string{"title": title}, &out)
	return out, err
}

// Update sends only the fields set in patch and returns the changed row count.
func (c *Client) Update(ctx context.Context, id int64, patch model.TaskPatch) (int64, error) {
	body := map[string]any{}
	if patch.Title != nil {
		body["title"] = *patch.Title
	}
	if patch.Completed != nil {
		body["completed"] = *patch.Completed
	}

	var out struct {
		Changes int64 `json:"changes"`
	}
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/todos/%d", id), body, &out)
	return out.Changes, err
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/todos/%d", id), nil, nil)
}

func (c *Client) Stats(ctx context.Context) (model.Stats, error) {
	var out model.Stats
	err := c.do(ctx, http.MethodGet, "/stats", nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
