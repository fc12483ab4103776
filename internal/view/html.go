package view

import (
	"html/template"
	"io"
	"time"

	"github.com/BuzzLyutic/todo-list/internal/model"
)

// html/template escapes every title, so stored markup is shown as text.
var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Todo list</title>
<style>
body { font-family: sans-serif; max-width: 40rem; margin: 2rem auto; }
.todo-item { display: flex; gap: .5rem; align-items: center; padding: .25rem 0; }
.todo-item.completed .todo-text { text-decoration: line-through; color: #888; }
.todo-date { margin-left: auto; color: #888; font-size: .85rem; }
.filters a.active { font-weight: bold; }
</style>
</head>
<body>
<h1>Todo list</h1>
<form id="add-form"><input id="todo-input" name="title" placeholder="New task" autocomplete="off"> <button type="submit">Add</button></form>
<p class="stats">Total: <span id="total">{{.Stats.Total}}</span> · Active: <span id="active">{{.Stats.Active}}</span> · Completed: <span id="completed">{{.Stats.Completed}}</span></p>
<nav class="filters">{{range .Filters}}<a href="/?filter={{.}}"{{if eq . $.Page.Filter}} class="active"{{end}}>{{.}}</a> {{end}}</nav>
{{if .Page.Empty}}
<div class="empty-state show">No tasks here</div>
{{else}}
<div id="todo-list">
{{range .Page.Items}}<div class="todo-item{{if .Completed}} completed{{end}}" data-id="{{.ID}}">
<input type="checkbox" class="todo-checkbox" data-id="{{.ID}}"{{if .Completed}} checked{{end}}>
<span class="todo-text">{{.Title}}</span>
<span class="todo-date">{{.Date}}</span>
<button class="delete-btn" data-id="{{.ID}}">Delete</button>
</div>
{{end}}</div>
{{end}}
<script>
(function () {
  function call(method, path, body) {
    var opts = { method: method, headers: { 'Content-Type': 'application/json' } };
    if (body) { opts.body = JSON.stringify(body); }
    return fetch('/api' + path, opts).then(function (res) {
      if (!res.ok) { throw new Error('HTTP ' + res.status); }
      return res.json();
    });
  }
  function fail(msg) { console.error(msg); alert(msg); }
  document.getElementById('add-form').addEventListener('submit', function (e) {
    e.preventDefault();
    var title = document.getElementById('todo-input').value.trim();
    if (!title) { fail('Enter a task title'); return; }
    call('POST', '/todos', { title: title }).then(function () { location.reload(); }, function () { fail('Failed to add task'); });
  });
  document.querySelectorAll('.todo-checkbox').forEach(function (box) {
    box.addEventListener('change', function () {
      call('PUT', '/todos/' + box.dataset.id, { completed: box.checked })
        .then(function () { location.reload(); }, function () { box.checked = !box.checked; fail('Failed to update task'); });
    });
  });
  document.querySelectorAll('.delete-btn').forEach(function (btn) {
    btn.addEventListener('click', function () {
      if (!confirm('Delete this task?')) { return; }
      call('DELETE', '/todos/' + btn.dataset.id).then(function () { location.reload(); }, function () { fail('Failed to delete task'); });
    });
  });
  setInterval(function () { location.reload(); }, {{.PollMillis}});
})();
</script>
</body>
</html>
`))

type pageData struct {
	Page       Page
	Stats      model.Stats
	Filters    []Filter
	PollMillis int64
}

// RenderHTML writes the whole browser page. poll is the reload period.
func RenderHTML(w io.Writer, page Page, stats model.Stats, poll time.Duration) error {
	return pageTmpl.Execute(w, pageData{
		Page:       page,
		Stats:      stats,
		Filters:    Filters,
		PollMillis: poll.Milliseconds(),
	})
}
