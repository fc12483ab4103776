// Package tui is the terminal front end: a Bubble Tea program drawing the
// controller's mirror and turning key presses into controller calls.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/BuzzLyutic/todo-list/internal/controller"
	"github.com/BuzzLyutic/todo-list/internal/model"
	"github.com/BuzzLyutic/todo-list/internal/view"
)

// refreshMsg tells the program that the mirror or the filter changed.
type refreshMsg struct{}

type noticeMsg struct {
	level controller.Level
	text  string
}

// confirmMsg asks the user about a delete. Exactly one value goes to reply.
type confirmMsg struct {
	task  model.Task
	reply chan<- bool
}

// doneMsg ends a controller call started from Update. Failures have already
// been reported through noticeMsg.
type doneMsg struct{ err error }

type keyMap struct {
	Up, Down, Add, Toggle, Delete, Filter, All, Active, Completed, Reload, Quit key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Delete, k.Filter, k.Reload, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Add, k.Toggle, k.Delete},
		{k.Filter, k.All, k.Active, k.Completed},
		{k.Reload, k.Quit},
	}
}

var keys = keyMap{
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	Toggle:    key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
	Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Filter:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "filter")),
	All:       key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "all")),
	Active:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "active")),
	Completed: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "completed")),
	Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

type Model struct {
	ctx  context.Context
	ctrl *controller.Controller
	help help.Model

	// Inline add
	adding bool
	input  textinput.Model

	cursor  int
	confirm *confirmMsg
	status  noticeMsg
	width   int
}

func NewModel(ctx context.Context, ctrl *controller.Controller) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "What needs to be done?"
	ti.CharLimit = 200

	return Model{
		ctx:   ctx,
		ctrl:  ctrl,
		help:  help.New(),
		input: ti,
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case refreshMsg:
		m.clampCursor()
		return m, nil
	case noticeMsg:
		m.status = msg
		return m, nil
	case confirmMsg:
		m.confirm = &msg
		return m, nil
	case doneMsg:
		m.clampCursor()
		return m, nil
	case tea.KeyMsg:
		switch {
		case m.confirm != nil:
			return m.updateConfirm(msg)
		case m.adding:
			return m.updateAdding(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.confirm.reply <- true
	case "n", "N", "esc":
		m.confirm.reply <- false
	default:
		return m, nil
	}
	m.confirm = nil
	return m, nil
}

func (m Model) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		title := m.input.Value()
		m.input.SetValue("")
		m.input.Blur()
		m.adding = false
		return m, m.call(func(ctx context.Context) error { return m.ctrl.Add(ctx, title) })
	case "esc":
		m.input.SetValue("")
		m.input.Blur()
		m.adding = false
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		m.cursor++
		m.clampCursor()
	case key.Matches(msg, keys.Add):
		m.adding = true
		m.input.SetValue("")
		return m, m.input.Focus()
	case key.Matches(msg, keys.Toggle):
		if id, ok := m.selected(); ok {
			return m, m.call(func(ctx context.Context) error { return m.ctrl.Toggle(ctx, id) })
		}
	case key.Matches(msg, keys.Delete):
		if id, ok := m.selected(); ok {
			return m, m.call(func(ctx context.Context) error { return m.ctrl.Remove(ctx, id) })
		}
	case key.Matches(msg, keys.Filter):
		m.setFilter(m.ctrl.Filter().Next())
	case key.Matches(msg, keys.All):
		m.setFilter(view.FilterAll)
	case key.Matches(msg, keys.Active):
		m.setFilter(view.FilterActive)
	case key.Matches(msg, keys.Completed):
		m.setFilter(view.FilterCompleted)
	case key.Matches(msg, keys.Reload):
		return m, m.call(m.ctrl.Load)
	}
	return m, nil
}

// call runs fn off the event loop; the controller reports its own failures.
func (m Model) call(fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return doneMsg{err: fn(ctx)}
	}
}

func (m *Model) setFilter(f view.Filter) {
	m.ctrl.SetFilter(f)
	m.cursor = 0
}

func (m Model) selected() (int64, bool) {
	items := m.ctrl.View().Items
	if m.cursor < 0 || m.cursor >= len(items) {
		return 0, false
	}
	return items[m.cursor].ID, true
}

func (m *Model) clampCursor() {
	n := len(m.ctrl.View().Items)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) View() string {
	page := m.ctrl.View()
	stats := m.ctrl.Summary()

	var b strings.Builder
	fmt.Fprintf(&b, "%s   %s %d  %s %d  %s %d\n",
		titleStyle.Render("Todos"),
		accentStyle.Render("Total"), stats.Total,
		warningStyle.Render("•"), stats.Active,
		successStyle.Render("✔"), stats.Completed,
	)
	b.WriteString(filterBar(page.Filter))
	b.WriteString("\n\n")

	if page.Empty {
		b.WriteString(mutedStyle.Render("No tasks here"))
		b.WriteString("\n")
	}
	for i, it := range page.Items {
		b.WriteString(renderItem(it, i == m.cursor))
		b.WriteString("\n")
	}

	switch {
	case m.confirm != nil:
		fmt.Fprintf(&b, "\n%s\n", errorStyle.Render(fmt.Sprintf("Delete %q? (y/n)", m.confirm.task.Title)))
	case m.adding:
		b.WriteString("\n" + panelStyle.Render("Add task\n"+m.input.View()) + "\n")
	}

	if m.status.text != "" {
		b.WriteString("\n" + levelStyle(m.status.level).Render(m.status.text) + "\n")
	}
	b.WriteString("\n" + m.help.View(keys))
	return panelStyle.Render(b.String())
}

func filterBar(current view.Filter) string {
	parts := make([]string, 0, len(view.Filters))
	for i, f := range view.Filters {
		label := fmt.Sprintf("%d %s", i+1, f)
		if f == current {
			label = activeTab.Render(label)
		} else {
			label = mutedStyle.Render(label)
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, "  ")
}

func renderItem(it view.Item, selected bool) string {
	box := mutedStyle.Render(boxUnchecked)
	title := it.Title
	if it.Completed {
		box = successStyle.Render(boxChecked)
		title = doneStyle.Render(title)
	}

	prefix := "  "
	if selected {
		prefix = selectedStyle.Render("> ")
	}
	line := prefix + box + " " + title
	if it.Date != "" {
		line += "  " + mutedStyle.Render(it.Date)
	}
	return line
}
