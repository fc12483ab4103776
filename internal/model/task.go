package model

import "time"

type Task struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskPatch is a partial update: nil fields are left untouched.
type TaskPatch struct {
	Title     *string
	Completed *bool
}

func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Completed == nil
}

type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Active    int `json:"active"`
}

// NewStats derives Active so that Active+Completed always equals Total.
func NewStats(total, completed int) Stats {
	return Stats{Total: total, Completed: completed, Active: total - completed}
}
