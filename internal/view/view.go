// Package view turns the task list and the selected filter into what the
// user sees. Nothing here holds state: the same input always renders the
// same output.
package view

import (
	"fmt"
	"time"

	"github.com/BuzzLyutic/todo-list/internal/model"
)

type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// Filters in the order they are offered to the user.
var Filters = []Filter{FilterAll, FilterActive, FilterCompleted}

// DefaultDateLayout is day.month.year, the layout the page has always shown.
const DefaultDateLayout = "02.01.2006"

func ParseFilter(s string) (Filter, error) {
	switch Filter(s) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterActive, FilterCompleted:
		return Filter(s), nil
	}
	return FilterAll, fmt.Errorf("unknown filter %q", s)
}

func (f Filter) Match(t model.Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	}
	return true
}

// Next cycles all -> active -> completed -> all.
func (f Filter) Next() Filter {
	for i, candidate := range Filters {
		if candidate == f {
			return Filters[(i+1)%len(Filters)]
		}
	}
	return FilterAll
}

// Visible returns the tasks that pass the filter, keeping their order.
func Visible(tasks []model.Task, f Filter) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

type Item struct {
	ID        int64
	Title     string
	Completed bool
	Date      string
}

type Page struct {
	Filter Filter
	Items  []Item
	// Empty is set when nothing passes the filter; the empty-state block
	// replaces the list.
	Empty bool
}

func Render(tasks []model.Task, f Filter, layout string) Page {
	if layout == "" {
		layout = DefaultDateLayout
	}

	visible := Visible(tasks, f)
	page := Page{Filter: f, Items: make([]Item, 0, len(visible)), Empty: len(visible) == 0}
	for _, t := range visible {
		page.Items = append(page.Items, Item{
			ID:        t.ID,
			Title:     t.Title,
			Completed: t.Completed,
			Date:      formatDate(t.CreatedAt, layout),
		})
	}
	return page
}

func formatDate(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(layout)
}

// Summarize counts the mirror itself; it never asks the server.
func Summarize(tasks []model.Task) model.Stats {
	completed := 0
	for _, t := range tasks {
		if t.Completed {
			completed++
		}
	}
	return model.NewStats(len(tasks), completed)
}
