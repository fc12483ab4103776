// Package controller keeps the client-side mirror of the task list.
//
// The mirror is a cache: it changes only after the server has answered, and
// the next Load replaces it wholesale. A poll that lands while an action is in
// flight simply overwrites the mirror; there is no conflict detection.
package controller

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/todo-list/internal/client"
	"github.com/BuzzLyutic/todo-list/internal/model"
	"github.com/BuzzLyutic/todo-list/internal/view"
	"github.com/BuzzLyutic/todo-list/internal/worker"
)

// DefaultPollInterval is how often Poll reloads the list.
const DefaultPollInterval = 30 * time.Second

var ErrEmptyTitle = errors.New("empty title")

// API is the subset of *client.Client the controller calls.
type API interface {
	List(ctx context.Context) ([]model.Task, error)
	Create(ctx context.Context, title string) (client.Created, error)
	Update(ctx context.Context, id int64, patch model.TaskPatch) (int64, error)
	Delete(ctx context.Context, id int64) error
}

type Level int

const (
	Info Level = iota
	Success
	Warning
	Error
)

func (l Level) String() string {
	switch l {
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	}
	return "info"
}

type Notifier interface {
	Notify(level Level, msg string)
}

type NotifierFunc func(level Level, msg string)

func (f NotifierFunc) Notify(level Level, msg string) { f(level, msg) }

// Confirmer asks the user before a task is deleted. It may block.
type Confirmer func(task model.Task) bool

type Options struct {
	Notify  Notifier
	Confirm Confirmer
	// OnChange is called after every mirror or filter change.
	OnChange   func()
	DateLayout string
	Logger     *zap.Logger
}

type Controller struct {
	api      API
	notify   Notifier
	confirm  Confirmer
	onChange func()
	layout   string
	logger   *zap.Logger
	now      func() time.Time

	mu     sync.Mutex
	tasks  []model.Task
	filter view.Filter
}

func New(api API, opts Options) *Controller {
	c := &Controller{
		api:      api,
		notify:   opts.Notify,
		confirm:  opts.Confirm,
		onChange: opts.OnChange,
		layout:   opts.DateLayout,
		logger:   opts.Logger,
		now:      time.Now,
		tasks:    []model.Task{},
		filter:   view.FilterAll,
	}
	if c.notify == nil {
		c.notify = NotifierFunc(func(Level, string) {})
	}
	if c.confirm == nil {
		// без явного подтверждения ничего не удаляем
		c.confirm = func(model.Task) bool { return false }
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// Load replaces the mirror with the server's list.
func (c *Controller) Load(ctx context.Context) error {
	tasks, err := c.api.List(ctx)
	if err != nil {
		c.fail("Failed to load tasks", err)
		return err
	}

	c.mu.Lock()
	c.tasks = tasks
	c.mu.Unlock()

	c.changed()
	return nil
}

// Add creates a task and puts it at the front of the mirror.
func (c *Controller) Add(ctx context.Context, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		c.notify.Notify(Warning, "Enter a task title")
		return ErrEmptyTitle
	}

	created, err := c.api.Create(ctx, title)
	if err != nil {
		c.fail("Failed to add task", err)
		return err
	}

	task := model.Task{
		ID:        created.ID,
		Title:     created.Title,
		Completed: created.Completed != 0,
		CreatedAt: c.now(),
	}
	c.mu.Lock()
	c.tasks = append([]model.Task{task}, c.tasks...)
	c.mu.Unlock()

	c.notify.Notify(Success, "Task added")
	c.changed()
	return nil
}

// Toggle flips completed on the server first and mirrors it only on success.
// Unknown ids are ignored.
func (c *Controller) Toggle(ctx context.Context, id int64) error {
	task, ok := c.find(id)
	if !ok {
		return nil
	}

	want := !task.Completed
	if _, err := c.api.Update(ctx, id, model.TaskPatch{Completed: &want}); err != nil {
		c.fail("Failed to update task", err)
		return err
	}

	c.mu.Lock()
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			c.tasks[i].Completed = want
			break
		}
	}
	c.mu.Unlock()

	c.changed()
	return nil
}

// Remove deletes a task after the user confirms it. A declined confirmation
// makes no call and returns nil.
func (c *Controller) Remove(ctx context.Context, id int64) error {
	task, ok := c.find(id)
	if !ok {
		return nil
	}
	if !c.confirm(task) {
		return nil
	}

	if err := c.api.Delete(ctx, id); err != nil {
		c.fail("Failed to delete task", err)
		return err
	}

	c.mu.Lock()
	kept := make([]model.Task, 0, len(c.tasks))
	for _, t := range c.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	c.tasks = kept
	c.mu.Unlock()

	c.notify.Notify(Success, "Task deleted")
	c.changed()
	return nil
}

func (c *Controller) SetFilter(f view.Filter) {
	c.mu.Lock()
	c.filter = f
	c.mu.Unlock()
	c.changed()
}

func (c *Controller) Filter() view.Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Tasks returns a copy of the mirror.
func (c *Controller) Tasks() []model.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// View renders the mirror through the current filter.
func (c *Controller) View() view.Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	return view.Render(c.tasks, c.filter, c.layout)
}

func (c *Controller) Summary() model.Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return view.Summarize(c.tasks)
}

// Poll returns a poller that reloads the mirror every interval. The caller
// starts and stops it.
func (c *Controller) Poll(interval time.Duration) *worker.Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return worker.NewPoller("tasks", interval, c.Load, c.logger)
}

func (c *Controller) find(id int64) (model.Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

func (c *Controller) fail(msg string, err error) {
	c.logger.Warn(msg, zap.Error(err))
	c.notify.Notify(Error, msg)
}

func (c *Controller) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}
