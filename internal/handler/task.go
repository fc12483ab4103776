package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/todo-list/internal/model"
	"github.com/BuzzLyutic/todo-list/internal/report"
	"github.com/BuzzLyutic/todo-list/internal/repo"
	"github.com/BuzzLyutic/todo-list/internal/service"
	"github.com/BuzzLyutic/todo-list/pkg/respond"
)

const (
	msgCreated  = "Task created"
	msgUpdated  = "Task updated"
	msgDeleted  = "Task deleted"
	msgNotFound = "task not found"
)

// taskJSON is the wire shape: completed travels as 0/1.
type taskJSON struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Completed int    `json:"completed"`
	CreatedAt string `json:"created_at"`
}

func toJSON(t model.Task) taskJSON {
	return taskJSON{
		ID:        t.ID,
		Title:     t.Title,
		Completed: completedInt(t.Completed),
		CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func completedInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// flag accepts true/false as well as 0/1 for "completed".
type flag bool

func (f *flag) UnmarshalJSON(b []byte) error {
	var v bool
	if err := json.Unmarshal(b, &v); err == nil {
		*f = flag(v)
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("completed must be a boolean or 0/1")
	}
	*f = n != 0
	return nil
}

type createRequest struct {
	Title string `json:"title"`
}

type updateRequest struct {
	Title     *string `json:"title"`
	Completed *flag   `json:"completed"`
}

func (u updateRequest) patch() model.TaskPatch {
	var p model.TaskPatch
	p.Title = u.Title
	if u.Completed != nil {
		c := bool(*u.Completed)
		p.Completed = &c
	}
	return p
}

type TaskHandler struct {
	service  *service.TaskService
	exporter *report.Exporter
	logger   *zap.Logger
}

func NewTaskHandler(srv *service.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		service:  srv,
		exporter: report.NewExporter(srv),
		logger:   logger,
	}
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decode(r, &req); err != nil {
		h.logger.Debug("failed to decode json", zap.Error(err))
		respond.Error(w, r, http.StatusBadRequest, fmt.Sprintf("invalid json: %v", err))
		return
	}

	task, err := h.service.Create(r.Context(), req.Title)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/todos/%d", task.ID))
	respond.JSON(w, r, http.StatusCreated, map[string]any{
		"id":        task.ID,
		"title":     task.Title,
		"completed": completedInt(task.Completed),
		"message":   msgCreated,
	})
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respond.Error(w, r, http.StatusNotFound, msgNotFound)
		return
	}

	task, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, toJSON(task))
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.List(r.Context())
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	out := make([]taskJSON, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toJSON(t))
	}
	respond.JSON(w, r, http.StatusOK, out)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)

	var req updateRequest
	if err := decode(r, &req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, fmt.Sprintf("invalid json: %v", err))
		return
	}
	patch := req.patch()
	if !ok && !patch.Empty() {
		respond.Error(w, r, http.StatusNotFound, msgNotFound)
		return
	}

	changes, err := h.service.Update(r.Context(), id, patch)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, map[string]any{
		"message": msgUpdated,
		"changes": changes,
	})
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respond.Error(w, r, http.StatusNotFound, msgNotFound)
		return
	}

	if _, err := h.service.Delete(r.Context(), id); err != nil {
		h.handleErrors(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, map[string]any{
		"message": msgDeleted,
		"id":      id,
	})
}

func (h *TaskHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, stats)
}

func (h *TaskHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}

	body, contentType, err := h.exporter.Export(r.Context(), format)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.File(w, r, contentType, "todos."+format, body)
}

func (h *TaskHandler) handleErrors(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr    *service.ValidationError
		unknown report.ErrUnknownFormat
	)
	switch {
	case errors.As(err, &verr):
		respond.Error(w, r, http.StatusBadRequest, verr.Message)
	case errors.As(err, &unknown):
		respond.Error(w, r, http.StatusBadRequest, unknown.Error())
	case errors.Is(err, repo.ErrorNotFound):
		respond.Error(w, r, http.StatusNotFound, msgNotFound)
	default:
		h.logger.Error("store error", zap.String("path", r.URL.Path), zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, err.Error())
	}
}

// decode treats an empty body as an empty JSON object.
func decode(r *http.Request, v any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	return json.Unmarshal(body, v)
}

// parseID reports false for ids that no row could have.
func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
