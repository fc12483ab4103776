package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/todo-list/internal/controller"
	"github.com/BuzzLyutic/todo-list/internal/model"
)

type Options struct {
	Interval   time.Duration
	DateLayout string
	Logger     *zap.Logger
}

// Run draws the task list until the user quits. The list is loaded at once
// and reloaded every opts.Interval.
func Run(ctx context.Context, api controller.API, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	var p *tea.Program
	// Send блокируется, пока цикл событий занят Update; поэтому отдельная горутина
	send := func(msg tea.Msg) { go p.Send(msg) }

	ctrl := controller.New(api, controller.Options{
		Notify: controller.NotifierFunc(func(level controller.Level, text string) {
			send(noticeMsg{level: level, text: text})
		}),
		Confirm:    confirmer(ctx, send),
		OnChange:   func() { send(refreshMsg{}) },
		DateLayout: opts.DateLayout,
		Logger:     opts.Logger,
	})

	p = tea.NewProgram(NewModel(ctx, ctrl), tea.WithAltScreen())

	poller := ctrl.Poll(opts.Interval)
	poller.Start(ctx)

	_, err := p.Run()

	cancel()
	poller.Stop()
	return err
}

// confirmer returns a Confirmer that asks through the program and waits for
// the answer. A closed program counts as "no".
func confirmer(ctx context.Context, send func(tea.Msg)) controller.Confirmer {
	return func(task model.Task) bool {
		reply := make(chan bool, 1)
		send(confirmMsg{task: task, reply: reply})
		select {
		case ok := <-reply:
			return ok
		case <-ctx.Done():
			return false
		}
	}
}
